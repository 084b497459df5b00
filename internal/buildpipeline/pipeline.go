// Package buildpipeline runs the compiler over a file or a directory and
// reports per-file progress to a sink.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"letc/internal/driver"
	"letc/internal/observ"
	"letc/internal/project"
)

// ErrDiagnostics is returned when some file reported errors and the request
// does not allow it.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// Request configures one pipeline run.
type Request struct {
	Target                string // a .let file or a directory of them
	BaseDir               string // progress and emitted names are relative to it
	Options               driver.Options
	Jobs                  int
	EmitDir               string // when set, each program is written there
	AllowDiagnosticsError bool
	Progress              ProgressSink
}

// Result holds the per-file compiler results in file order.
type Result struct {
	Files   []string // display names, parallel to Results
	Results []*driver.Result
	Emitted []string
	Timings Timings
}

// Files lists the sources Run would compile for target, as display names.
func Files(target, baseDir string) ([]string, error) {
	paths, _, err := sourcePaths(target)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = displayName(p, baseDir)
	}
	return names, nil
}

func sourcePaths(target string) (paths []string, isDir bool, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, false, err
	}
	if !info.IsDir() {
		return []string{target}, false, nil
	}
	paths, err = project.ListSources(target)
	return paths, true, err
}

// Run compiles req.Target, optionally writes the output programs and
// returns the results even when diagnostics were reported.
func Run(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if req == nil {
		return result, fmt.Errorf("missing pipeline request")
	}
	if req.Target == "" {
		return result, fmt.Errorf("missing target path")
	}
	paths, isDir, err := sourcePaths(req.Target)
	if err != nil {
		return result, err
	}
	for _, p := range paths {
		result.Files = append(result.Files, displayName(p, req.BaseDir))
	}
	emitQueued(req.Progress, result.Files)

	observer := &phaseObserver{sink: req.Progress, baseDir: req.BaseDir, next: req.Options.Observer}
	opts := req.Options
	opts.Observer = observer.OnPhase

	if isDir {
		_, result.Results, err = driver.CompileDir(ctx, req.Target, opts, req.Jobs)
	} else {
		var res *driver.Result
		if res, err = driver.Compile(ctx, req.Target, opts); res != nil {
			result.Results = []*driver.Result{res}
		}
	}
	if err != nil {
		emitStage(req.Progress, result.Files, observer.stageOf, StatusError, err)
		return result, err
	}

	failed := false
	for i, res := range result.Results {
		recordTimings(&result.Timings, res.Timing)
		if res.Bag.HasErrors() {
			failed = true
			emitFile(req.Progress, result.Files[i], observer.stageOf(result.Files[i]), StatusError, ErrDiagnostics, 0)
			continue
		}
		if req.EmitDir != "" {
			path, elapsed, err := emitProgram(req.EmitDir, res)
			result.Timings.Add(StageEmit, elapsed)
			if err != nil {
				emitFile(req.Progress, result.Files[i], StageEmit, StatusError, err, elapsed)
				return result, err
			}
			result.Emitted = append(result.Emitted, path)
		}
		emitFile(req.Progress, result.Files[i], observer.stageOf(result.Files[i]), StatusDone, nil, durationFromMillis(res.Timing.TotalMS))
	}

	if failed && !req.AllowDiagnosticsError {
		emitFile(req.Progress, "", StageFlatten, StatusError, ErrDiagnostics, 0)
		return result, ErrDiagnostics
	}
	emitFile(req.Progress, "", StageFlatten, StatusDone, nil, 0)
	return result, nil
}

// emitProgram writes the program as <name>.<stage>.let in dir.
func emitProgram(dir string, res *driver.Result) (string, time.Duration, error) {
	start := time.Now()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", time.Since(start), err
	}
	base := strings.TrimSuffix(filepath.Base(res.Path), project.SourceExt)
	path := filepath.Join(dir, base+"."+res.Stage.String()+project.SourceExt)
	err := os.WriteFile(path, []byte(res.Program.String()+"\n"), 0o600)
	return path, time.Since(start), err
}

func displayName(path, baseDir string) string {
	clean := filepath.Clean(path)
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, clean); err == nil && !strings.HasPrefix(rel, "..") {
			clean = rel
		}
	}
	return filepath.ToSlash(clean)
}

// stageForPhase maps a driver phase to the pipeline stage it belongs to.
func stageForPhase(name string) (Stage, bool) {
	switch name {
	case observ.PhaseLoad, observ.PhaseTokenize, observ.PhaseParse:
		return StageParse, true
	case observ.PhaseUniquify:
		return StageResolve, true
	case observ.PhaseRCO:
		return StageFlatten, true
	default:
		return "", false
	}
}

// phaseObserver turns driver phase events into per-file stage events. The
// driver calls it from its workers.
type phaseObserver struct {
	sink    ProgressSink
	baseDir string
	next    driver.PhaseObserver

	mu     sync.Mutex
	stages map[string]Stage
}

func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p.next != nil {
		p.next(ev)
	}
	if ev.Status != driver.PhaseStart {
		return
	}
	stage, ok := stageForPhase(ev.Name)
	if !ok {
		return
	}
	file := displayName(ev.Path, p.baseDir)
	p.mu.Lock()
	if p.stages == nil {
		p.stages = make(map[string]Stage)
	}
	prev, seen := p.stages[file]
	p.stages[file] = stage
	p.mu.Unlock()
	if seen && prev == stage {
		return
	}
	emitFile(p.sink, file, stage, StatusWorking, nil, 0)
}

func (p *phaseObserver) stageOf(file string) Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if stage, ok := p.stages[file]; ok {
		return stage
	}
	return StageParse
}

// recordTimings folds a file's phase report into stage totals. Verification
// counts toward the pass it follows.
func recordTimings(t *Timings, report observ.Report) {
	current := StageParse
	for _, phase := range report.Phases {
		if stage, ok := stageForPhase(phase.Name); ok {
			current = stage
		}
		if phase.Name == observ.PhaseCache {
			continue
		}
		t.Add(current, durationFromMillis(phase.DurationMS))
	}
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

func emitStage(sink ProgressSink, files []string, stageOf func(string) Stage, status Status, err error) {
	if sink == nil {
		return
	}
	for _, file := range files {
		emitFile(sink, file, stageOf(file), status, err, 0)
	}
	emitFile(sink, "", stageOf(""), status, err, 0)
}
