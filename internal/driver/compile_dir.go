package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"letc/internal/diag"
	"letc/internal/observ"
	"letc/internal/project"
	"letc/internal/source"
	"letc/internal/trace"
)

// CompileDir compiles every source file under dir with up to jobs workers.
// Results follow the sorted file order. A file that fails to load yields a
// result with an IO diagnostic instead of aborting the run.
func CompileDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile_dir")
	defer span.End(dir)

	files, err := project.ListSources(dir)
	if err != nil {
		return nil, nil, err
	}

	// FileSet is not safe for concurrent writes; load everything up front.
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	loadTimes := make([]*observ.Timer, len(files))
	for i, path := range files {
		timer := observ.NewTimer()
		idx := timer.Begin(observ.PhaseLoad)
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
		timer.End(idx, "")
		loadTimes[i] = timer
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	strings := source.NewInterner()
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErrors[i] != nil {
				results[i] = loadFailure(fileSet, path, loadErrors[i], opts)
				return nil
			}
			res, err := compileFile(gctx, fileSet, fileSet.Get(fileIDs[i]), strings, loadTimes[i], opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func loadFailure(fs *source.FileSet, path string, err error, opts Options) *Result {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	bag := diag.NewBag(maxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
	return &Result{Path: path, FileSet: fs, Stage: opts.Stage, Bag: bag}
}
