package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"letc/internal/ast"
	"letc/internal/check"
	"letc/internal/diag"
	"letc/internal/invariant"
	"letc/internal/observ"
	"letc/internal/project"
	"letc/internal/rco"
	"letc/internal/source"
	"letc/internal/trace"
	"letc/internal/uniquify"
)

// Stage is the last pipeline step Compile runs.
type Stage uint8

const (
	StageFlatten Stage = iota // zero value: run everything
	StageParse
	StageResolve
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	default:
		return "flatten"
	}
}

// ParseStage accepts parse|resolve|flatten.
func ParseStage(s string) (Stage, error) {
	switch s {
	case "parse":
		return StageParse, nil
	case "resolve", "uniquify":
		return StageResolve, nil
	case "", "flatten", "rco":
		return StageFlatten, nil
	default:
		return StageFlatten, fmt.Errorf("unknown stage %q (expected parse|resolve|flatten)", s)
	}
}

type Options struct {
	Stage          Stage
	Passes         project.PassOptions
	MaxDiagnostics int
	Timings        bool          // add an OBS timing diagnostic to the bag
	Cache          *DiskCache    // nil disables caching
	Observer       PhaseObserver // may be nil
}

type Result struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File // nil when the result came from the cache
	Stage   Stage
	Program ast.Program
	Bag     *diag.Bag
	Timing  observ.Report
	Cached  bool
}

// Compile runs the pipeline on one file: load, parse, uniquify, rco, each
// followed by verification when enabled. Syntax errors are diagnostics in
// the result, not errors. The error return is for I/O failures, invariant
// violations and cancellation.
func Compile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	timer := observ.NewTimer()
	idx := timer.Begin(observ.PhaseLoad)
	fileID, err := fs.Load(path)
	timer.End(idx, "")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return compileFile(ctx, fs, fs.Get(fileID), source.NewInterner(), timer, opts)
}

// CompileSource compiles in-memory content under the given name.
func CompileSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return compileFile(ctx, fs, fs.Get(fileID), source.NewInterner(), observ.NewTimer(), opts)
}

type compiler struct {
	ctx    context.Context
	opts   Options
	path   string
	timer  *observ.Timer
	bag    *diag.Bag
	result *Result
}

func compileFile(ctx context.Context, fs *source.FileSet, file *source.File, strings *source.Interner, timer *observ.Timer, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeModule, "file:"+file.Path)
	defer span.End("")

	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	opts.Passes.Resolve.Strings = strings
	opts.Passes.Flatten.Strings = strings
	c := &compiler{
		ctx:   ctx,
		opts:  opts,
		path:  file.Path,
		timer: timer,
		bag:   diag.NewBag(opts.MaxDiagnostics),
	}
	c.result = &Result{Path: file.Path, FileSet: fs, File: file, Stage: opts.Stage, Bag: c.bag}

	key := opts.Cache.Key(file.Hash, opts.Stage, opts.Passes)
	if prog, ok := c.lookupCache(key); ok {
		c.result.Program = prog
		c.result.Cached = true
		c.result.File = nil
		return c.finish(), nil
	}

	var prog ast.Program
	err := c.phase(observ.PhaseParse, func() error {
		var err error
		prog, err = parseFile(ctx, fs, file, strings, c.bag, opts.MaxDiagnostics)
		return err
	})
	if err != nil {
		return nil, err
	}
	if opts.Stage != StageParse {
		if prog, err = c.resolve(prog); err != nil {
			return nil, c.fail(err)
		}
	}
	if opts.Stage == StageFlatten {
		if prog, err = c.flatten(prog); err != nil {
			return nil, c.fail(err)
		}
	}
	if opts.Stage != StageParse {
		c.reportErrorNodes(prog)
	}
	c.result.Program = prog
	if c.bag.Len() == 0 {
		c.storeCache(key, prog)
	}
	return c.finish(), nil
}

func (c *compiler) resolve(prog ast.Program) (ast.Program, error) {
	var out ast.Program
	err := c.phase(observ.PhaseUniquify, func() error {
		var err error
		out, err = uniquify.Resolve(c.ctx, prog, c.opts.Passes.Resolve)
		return err
	})
	if err != nil || !c.opts.Passes.Verify {
		return out, err
	}
	return out, c.phase(observ.PhaseVerify, func() error { return check.Unique(out) })
}

func (c *compiler) flatten(prog ast.Program) (ast.Program, error) {
	var out ast.Program
	err := c.phase(observ.PhaseRCO, func() error {
		var err error
		out, err = rco.Flatten(c.ctx, prog, c.opts.Passes.Flatten)
		return err
	})
	if err != nil || !c.opts.Passes.Verify {
		return out, err
	}
	return out, c.phase(observ.PhaseVerify, func() error {
		return errors.Join(check.Unique(out), check.Atomic(out))
	})
}

// phase times fn and reports its boundaries to the observer.
func (c *compiler) phase(name string, fn func() error) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	c.notify(name, PhaseStart, 0)
	start := time.Now()
	err := c.timer.Measure(name, fn)
	c.notify(name, PhaseEnd, time.Since(start))
	return err
}

func (c *compiler) notify(name string, status PhaseStatus, elapsed time.Duration) {
	if c.opts.Observer != nil {
		c.opts.Observer(PhaseEvent{Path: c.path, Name: name, Status: status, Elapsed: elapsed})
	}
}

// reportErrorNodes turns parse failures that survived the passes into
// SEM diagnostics at the token each one carries.
func (c *compiler) reportErrorNodes(prog ast.Program) {
	for _, e := range check.ErrorNodes(prog) {
		diag.ReportError(&diag.BagReporter{Bag: c.bag}, diag.SemaErrorNode, e.Token.Span,
			"program still contains a syntax error: "+e.Msg).Emit()
	}
}

// fail records an invariant violation as a diagnostic and passes err on.
func (c *compiler) fail(err error) error {
	if v, ok := invariant.As(err); ok {
		c.bag.Add(diag.NewError(diag.InternalInvariant, source.Span{}, v.Error()))
	}
	return fmt.Errorf("compile %s: %w", c.path, err)
}

func (c *compiler) finish() *Result {
	c.result.Timing = c.timer.Report()
	if c.opts.Timings {
		appendTimingDiagnostic(c.bag, c.path, c.result.Timing)
	}
	return c.result
}

func (c *compiler) lookupCache(key project.Digest) (ast.Program, bool) {
	if c.opts.Cache == nil {
		return ast.Program{}, false
	}
	var (
		prog ast.Program
		hit  bool
	)
	_ = c.timer.Measure(observ.PhaseCache, func() error {
		var err error
		prog, hit, err = c.opts.Cache.Get(key)
		if err != nil {
			trace.Point(c.ctx, trace.ScopeModule, "cache", "unreadable entry: "+err.Error())
		}
		return err
	})
	return prog, hit
}

func (c *compiler) storeCache(key project.Digest, prog ast.Program) {
	if c.opts.Cache == nil {
		return
	}
	if err := c.opts.Cache.Put(key, c.path, prog); err != nil {
		trace.Point(c.ctx, trace.ScopeModule, "cache", "write failed: "+err.Error())
	}
}
