package buildpipeline

import "time"

// Stage is the part of the pipeline a file is in, as shown to the user.
type Stage string

const (
	StageParse   Stage = "parse"   // load, tokenize, parse
	StageResolve Stage = "resolve" // uniquify and its verification
	StageFlatten Stage = "flatten" // rco and its verification
	StageEmit    Stage = "emit"    // writing Request.EmitDir
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one file, or of the whole run when File is "".
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Run may call OnEvent from
// several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings sums stage durations over all files of a run. The zero value is
// empty and ready to use.
type Timings struct {
	recorded map[Stage]time.Duration
}

func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t.recorded == nil {
		t.recorded = make(map[Stage]time.Duration, 4)
	}
	t.recorded[stage] += dur
}

// Has reports whether any duration was added for stage, even a zero one.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.recorded[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.recorded[stage]
}

// Total is the sum over stages, or over every recorded stage when none
// are named.
func (t Timings) Total(stages ...Stage) time.Duration {
	var total time.Duration
	if len(stages) == 0 {
		for _, d := range t.recorded {
			total += d
		}
		return total
	}
	for _, s := range stages {
		total += t.recorded[s]
	}
	return total
}
