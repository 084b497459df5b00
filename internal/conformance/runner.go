// Package conformance runs YAML-described compiler cases: a source program,
// the stage to stop at, and the expected output, value or error.
package conformance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"letc/internal/ast"
	"letc/internal/driver"
	"letc/internal/interp"
	"letc/internal/project"
)

// Runtime error names accepted in Case.Error.
var runtimeErrors = map[string]error{
	"unbound":    interp.ErrUnbound,
	"no_input":   interp.ErrNoInput,
	"error_node": interp.ErrErrorNode,
}

// Outcome is the result of one case.
type Outcome struct {
	Case       LoadedCase
	Passed     bool
	Skipped    bool
	SkipReason string
	Got        string // canonical output program, when compilation succeeded
	Err        error
}

// Run compiles and checks a single case.
func Run(ctx context.Context, lc LoadedCase) Outcome {
	out := Outcome{Case: lc}
	if skipped, reason := lc.Case.IsSkipped(); skipped {
		out.Skipped, out.SkipReason = true, reason
		return out
	}
	out.Err = run(ctx, lc, &out)
	out.Passed = out.Err == nil
	return out
}

// RunAll runs cases in order.
func RunAll(ctx context.Context, cases []LoadedCase) []Outcome {
	outcomes := make([]Outcome, 0, len(cases))
	for _, lc := range cases {
		outcomes = append(outcomes, Run(ctx, lc))
	}
	return outcomes
}

func run(ctx context.Context, lc LoadedCase, out *Outcome) error {
	c := lc.Case
	stage, err := driver.ParseStage(c.Stage)
	if err != nil {
		return err
	}
	passes, err := project.PassesConfig{Let: lc.Suite.Passes.Let, BindingOrder: lc.Suite.Passes.BindingOrder}.Options()
	if err != nil {
		return err
	}
	res, err := driver.CompileSource(ctx, c.Name+project.SourceExt, []byte(c.Source), driver.Options{
		Stage:          stage,
		Passes:         passes,
		MaxDiagnostics: 50,
	})
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	out.Got = res.Program.String()

	if c.Error != "" {
		if _, isRuntime := runtimeErrors[c.Error]; !isRuntime {
			return expectDiagnostic(res, c.Error)
		}
	} else if res.Bag.HasErrors() {
		return fmt.Errorf("unexpected diagnostics: %s", describeBag(res))
	}

	if c.Expect != "" && normalize(c.Expect) != out.Got {
		return fmt.Errorf("output mismatch\n got: %s\nwant: %s", out.Got, normalize(c.Expect))
	}
	if c.Value == nil && c.Error == "" {
		return nil
	}
	return expectValue(ctx, res.Program, c)
}

func expectDiagnostic(res *driver.Result, code string) error {
	for _, d := range res.Bag.Items() {
		if d.Code.ID() == code {
			return nil
		}
	}
	return fmt.Errorf("expected diagnostic %s, got: %s", code, describeBag(res))
}

func expectValue(ctx context.Context, prog ast.Program, c Case) error {
	got, err := interp.Eval(ctx, prog, interp.NewSliceInput(c.Input...))
	if c.Error != "" {
		if want := runtimeErrors[c.Error]; !errors.Is(err, want) {
			return fmt.Errorf("expected runtime error %q, got value %d, err %v", c.Error, got, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if got != *c.Value {
		return fmt.Errorf("value %d, want %d", got, *c.Value)
	}
	return nil
}

func describeBag(res *driver.Result) string {
	if res.Bag.Len() == 0 {
		return "none"
	}
	parts := make([]string, 0, res.Bag.Len())
	for _, d := range res.Bag.Items() {
		parts = append(parts, d.Code.ID()+" "+d.Message)
	}
	return strings.Join(parts, "; ")
}

// normalize collapses the whitespace of a multi-line YAML expectation.
func normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "( ", "(")
	s = strings.ReplaceAll(s, "[ ", "[")
	s = strings.ReplaceAll(s, " )", ")")
	return strings.ReplaceAll(s, " ]", "]")
}

// Stats summarizes outcomes.
type Stats struct {
	Total, Passed, Failed, Skipped int
}

func ComputeStats(outcomes []Outcome) Stats {
	var s Stats
	for _, o := range outcomes {
		s.Total++
		switch {
		case o.Skipped:
			s.Skipped++
		case o.Passed:
			s.Passed++
		default:
			s.Failed++
		}
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("total %d, passed %d, failed %d, skipped %d", s.Total, s.Passed, s.Failed, s.Skipped)
}
