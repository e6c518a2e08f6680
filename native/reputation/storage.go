package reputation

import (
	"errors"
	"fmt"
)

// storage abstracts the subset of state manager functionality required by the
// reputation ledger.
type storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var scorePrefix = []byte("reputation/score/")

func scoreKey(host [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", scorePrefix, host))
}

// ErrScoreNotFound marks hosts with no recorded completions yet.
var ErrScoreNotFound = errors.New("reputation: score not found")

// Ledger persists per-host completion scores. Scores are created lazily on the
// first recorded completion and mutated only by the escrow engine.
type Ledger struct {
	store storage
}

// NewLedger constructs a ledger bound to the provided storage backend.
func NewLedger(store storage) *Ledger {
	return &Ledger{store: store}
}

// RecordCompletion increments the host's completed-job count and credits the
// served duration.
func (l *Ledger) RecordCompletion(host [20]byte, durationSeconds uint64) error {
	if l == nil || l.store == nil {
		return errors.New("reputation: storage not configured")
	}
	var score Score
	if _, err := l.store.KVGet(scoreKey(host), &score); err != nil {
		return err
	}
	score.CompletedJobs++
	score.TotalUptimeSeconds += durationSeconds
	return l.store.KVPut(scoreKey(host), &score)
}

// Get fetches the host's score. ok is false when the host has never completed
// a job.
func (l *Ledger) Get(host [20]byte) (*Score, bool, error) {
	if l == nil || l.store == nil {
		return nil, false, errors.New("reputation: storage not configured")
	}
	var score Score
	ok, err := l.store.KVGet(scoreKey(host), &score)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return &score, true, nil
}
