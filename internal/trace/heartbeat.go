package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event every interval until stopped. A
// stream that keeps beating without span ends points at a stalled pass.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
	done     sync.WaitGroup
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: t, interval: interval, stop: make(chan struct{})}
	h.done.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.done.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	gid := goroutineID()
	for n := 1; ; n++ {
		select {
		case now := <-ticker.C:
			h.tracer.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    gid,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
			})
		case <-h.stop:
			return
		}
	}
}

// Stop is idempotent and safe on nil.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.done.Wait()
}
