package memory

import (
	"sync"

	"safety-training-service/internal/app"
)

// AttemptRegistry is an in-memory implementation of app.AttemptRegistry.
type AttemptRegistry struct {
	mu       sync.RWMutex
	attempts map[string]*app.Attempt
}

func NewAttemptRegistry() *AttemptRegistry {
	return &AttemptRegistry{
		attempts: make(map[string]*app.Attempt),
	}
}

func (r *AttemptRegistry) Put(attempt *app.Attempt) *app.Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key(attempt.UserID(), attempt.QuizID())
	previous := r.attempts[key]
	r.attempts[key] = attempt
	return previous
}

func (r *AttemptRegistry) Get(userID, quizID string) (*app.Attempt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attempt, ok := r.attempts[Key(userID, quizID)]
	return attempt, ok
}

func (r *AttemptRegistry) Remove(attempt *app.Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key(attempt.UserID(), attempt.QuizID())
	if current, ok := r.attempts[key]; ok && current == attempt {
		delete(r.attempts, key)
	}
}

// Len reports the number of registered attempts.
func (r *AttemptRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}

// Key identifies the attempt of a user on a quiz.
func Key(userID, quizID string) string {
	return userID + ":" + quizID
}
