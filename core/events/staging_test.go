package events

import "testing"

type namedEvent string

func (e namedEvent) EventType() string { return string(e) }

func TestStagingFlushPublishesInOrder(t *testing.T) {
	staged := NewStaging()
	recorder := NewRecorder(10)

	staged.Emit(namedEvent("first"))
	staged.Emit(namedEvent("second"))
	if got := recorder.Latest(0); len(got) != 0 {
		t.Fatalf("staged events must not reach the sink before flush: %v", got)
	}

	staged.Flush(recorder)
	got := recorder.Latest(0)
	if len(got) != 2 || got[0].EventType() != "first" || got[1].EventType() != "second" {
		t.Fatalf("flush order wrong: %v", got)
	}

	// Flush empties the buffer; a second flush publishes nothing.
	staged.Flush(recorder)
	if got := recorder.Latest(0); len(got) != 2 {
		t.Fatalf("second flush must publish nothing: %v", got)
	}
}

func TestStagingDiscardDropsBuffered(t *testing.T) {
	staged := NewStaging()
	recorder := NewRecorder(10)

	staged.Emit(namedEvent("doomed"))
	staged.Discard()
	staged.Flush(recorder)
	if got := recorder.Latest(0); len(got) != 0 {
		t.Fatalf("discarded events must never publish: %v", got)
	}
}
