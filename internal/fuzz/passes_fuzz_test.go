package fuzztests

import (
	"context"
	"errors"
	"testing"

	"letc/internal/ast"
	"letc/internal/check"
	"letc/internal/interp"
	"letc/internal/rco"
	"letc/internal/testkit"
	"letc/internal/uniquify"
)

// FuzzPasses runs both passes on whatever the parser recovers and checks
// the structural guarantees: unique binders, atomic operands, idempotent
// flattening and no internal invariant violations. In program order the
// flattened program must also evaluate like the resolved one.
func FuzzPasses(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		prog, _, _ := testkit.Parse(string(input))
		ctx := context.Background()

		for _, parallel := range []bool{false, true} {
			resolved, err := uniquify.Resolve(ctx, prog, uniquify.Options{Parallel: parallel})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if err := check.Unique(resolved); err != nil {
				t.Fatalf("resolve output: %v\ninput: %q", err, input)
			}
			for _, hoisted := range []bool{false, true} {
				opts := rco.Options{HoistedFirst: hoisted}
				flat, err := rco.Flatten(ctx, resolved, opts)
				if err != nil {
					t.Fatalf("flatten: %v", err)
				}
				if err := errors.Join(check.Unique(flat), check.Atomic(flat)); err != nil {
					t.Fatalf("flatten output: %v\ninput: %q", err, input)
				}
				again, err := rco.Flatten(ctx, flat, opts)
				if err != nil {
					t.Fatalf("second flatten: %v", err)
				}
				if !ast.EqualPrograms(flat, again) {
					t.Fatalf("flatten is not idempotent:\n%s\n%s", flat, again)
				}
				if !hoisted {
					sameValue(t, resolved, flat)
				}
			}
		}
	})
}

// sameValue evaluates both programs on the same reads. Flattening keeps
// every subexpression, so either both fail or both yield one value.
func sameValue(t *testing.T, before, after ast.Program) {
	t.Helper()
	ctx := context.Background()
	inputs := testkit.Inputs(64)
	want, wantErr := interp.Eval(ctx, before, interp.NewSliceInput(inputs...))
	got, gotErr := interp.Eval(ctx, after, interp.NewSliceInput(inputs...))
	if (wantErr != nil) != (gotErr != nil) {
		t.Fatalf("evaluation differs: %v vs %v\n%s\n%s", wantErr, gotErr, before, after)
	}
	if wantErr == nil && got != want {
		t.Fatalf("value %d, want %d\n%s\n%s", got, want, before, after)
	}
}
