package events

// Staging buffers events emitted during one state transaction so they reach
// subscribers only if the transaction commits. It mirrors the state overlay:
// Flush publishes in emission order, Discard drops everything.
type Staging struct {
	buf []Event
}

// NewStaging returns an empty staging buffer.
func NewStaging() *Staging {
	return &Staging{}
}

// Emit implements the Emitter interface.
func (s *Staging) Emit(evt Event) {
	if s == nil || evt == nil {
		return
	}
	s.buf = append(s.buf, evt)
}

// Flush publishes the buffered events to sink and clears the buffer.
func (s *Staging) Flush(sink Emitter) {
	if s == nil {
		return
	}
	if sink != nil {
		for _, evt := range s.buf {
			sink.Emit(evt)
		}
	}
	s.buf = nil
}

// Discard drops the buffered events without publishing them.
func (s *Staging) Discard() {
	if s == nil {
		return
	}
	s.buf = nil
}
