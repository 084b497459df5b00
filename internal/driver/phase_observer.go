package driver

import "time"

type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent marks a phase boundary of one file's compile.
type PhaseEvent struct {
	Path    string
	Name    string // observ.Phase* constant
	Status  PhaseStatus
	Elapsed time.Duration // set on PhaseEnd
}

// PhaseObserver receives phase events from Compile and CompileDir. It may be
// called from several goroutines during CompileDir.
type PhaseObserver func(PhaseEvent)
