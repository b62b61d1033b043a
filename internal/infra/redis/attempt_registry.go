package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"safety-training-service/internal/app"
)

// AttemptRegistry is a Redis-aware implementation of app.AttemptRegistry.
// Notes:
//   - Attempts own a live countdown, so they stay in a local map; only this
//     process can drive them.
//   - Redis holds a liveness marker per attempt (attempt ID with TTL) so other
//     instances and operators can see who is mid-quiz.
type AttemptRegistry struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	attempts map[string]*app.Attempt
}

func NewAttemptRegistry(client *redis.Client, ttl time.Duration) *AttemptRegistry {
	return &AttemptRegistry{
		client:   client,
		ttl:      ttl,
		attempts: make(map[string]*app.Attempt),
	}
}

func (r *AttemptRegistry) Put(attempt *app.Attempt) *app.Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(attempt.UserID(), attempt.QuizID())
	previous := r.attempts[key]
	r.attempts[key] = attempt
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), key, attempt.ID(), r.ttl).Err()
	return previous
}

func (r *AttemptRegistry) Get(userID, quizID string) (*app.Attempt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attempt, ok := r.attempts[r.key(userID, quizID)]
	return attempt, ok
}

func (r *AttemptRegistry) Remove(attempt *app.Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(attempt.UserID(), attempt.QuizID())
	current, ok := r.attempts[key]
	if !ok || current != attempt {
		return
	}
	delete(r.attempts, key)
	_ = r.client.Del(context.Background(), key).Err()
}

// Live reports the attempt ID marked live for the user and quiz, if any.
func (r *AttemptRegistry) Live(ctx context.Context, userID, quizID string) (string, bool) {
	id, err := r.client.Get(ctx, r.key(userID, quizID)).Result()
	if err != nil {
		return "", false
	}
	return id, true
}

func (r *AttemptRegistry) key(userID, quizID string) string {
	return "quiz:attempt:" + userID + ":" + quizID
}
