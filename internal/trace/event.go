package trace

import "time"

// Kind is the type of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Smaller values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1
	ScopePass
	ScopeModule
	ScopeNode
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeModule:
		return "module"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores or writes the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "parse", "rco", "file:main.let", "tmp"
	Detail   string
	Extra    map[string]string
}
