package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"safety-training-service/internal/domain"
)

type fakeTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// fakeClock hands out tickers that only fire when a test sends on them.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) last() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return nil
	}
	return c.tickers[len(c.tickers)-1]
}

type recordingSink struct {
	mu      sync.Mutex
	records []domain.AttemptRecord
	err     error
}

func (s *recordingSink) SubmitAttempt(_ context.Context, record domain.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return s.err
}

func (s *recordingSink) all() []domain.AttemptRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AttemptRecord(nil), s.records...)
}

var errSinkDown = errors.New("sink down")

// elapse applies n countdown seconds to the running question, as the ticker goroutine would.
func elapse(a *Attempt, n int) {
	for i := 0; i < n; i++ {
		a.mu.Lock()
		gen := a.generation
		a.mu.Unlock()
		if !a.tick(gen) {
			return
		}
	}
}

func trainingQuestions() []domain.Question {
	return []domain.Question{
		{
			ID: "q1", Prompt: "Where is the assembly point?", Points: 10, TimeLimitSeconds: 20,
			Answers: []domain.Answer{
				{ID: "a1", Text: "Parking lot", Correct: true},
				{ID: "a2", Text: "Roof"},
			},
		},
		{
			ID: "q2", Prompt: "Who may disable a smoke detector?", Points: 5, TimeLimitSeconds: 10,
			Answers: []domain.Answer{
				{ID: "a3", Text: "Anyone"},
				{ID: "a4", Text: "Nobody", Correct: true},
			},
		},
	}
}
