package memory

import (
	"context"
	"sync"

	"safety-training-service/internal/domain"
)

// AttemptLog is an append-only in-memory submission sink.
type AttemptLog struct {
	mu      sync.Mutex
	records []domain.AttemptRecord
}

func NewAttemptLog() *AttemptLog {
	return &AttemptLog{}
}

func (l *AttemptLog) SubmitAttempt(_ context.Context, record domain.AttemptRecord) error {
	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()
	return nil
}

// Records returns a copy of everything submitted so far.
func (l *AttemptLog) Records() []domain.AttemptRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.AttemptRecord(nil), l.records...)
}
