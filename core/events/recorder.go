package events

import "sync"

// Recorder retains the most recent events in memory so read-only consumers can
// poll them over RPC. Older entries are dropped once the capacity is reached.
type Recorder struct {
	mu       sync.RWMutex
	capacity int
	buf      []Event
}

// NewRecorder builds a recorder retaining up to capacity events. A capacity of
// zero or less falls back to 256.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	return &Recorder{capacity: capacity}
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(evt Event) {
	if r == nil || evt == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, evt)
	if len(r.buf) > r.capacity {
		r.buf = r.buf[len(r.buf)-r.capacity:]
	}
}

// Latest returns up to limit events, newest last. A non-positive limit returns
// everything retained.
func (r *Recorder) Latest(limit int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.buf)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, n)
	copy(out, r.buf[len(r.buf)-n:])
	return out
}
