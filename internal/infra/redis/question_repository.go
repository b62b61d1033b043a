package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"safety-training-service/internal/domain"
)

// QuestionLoader fetches the ordered questions of a quiz from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
}

// QuestionRepository caches question sets in Redis and falls back to a loader on cache miss.
// Each set is stored as JSON under quiz:{quizID}:questions so order is preserved.
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	log    *zap.Logger
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration, logger *zap.Logger) *QuestionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	if questions, ok := r.cached(ctx, quizID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.cached(ctx, quizID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, quizID)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, r.questionsKey(quizID), payload, r.ttlWithJitter()).Err(); err != nil {
			// the cache is best-effort; the loaded questions are still served
			r.log.Warn("cache questions", zap.String("quiz_id", quizID), zap.Error(err))
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached questions of a quiz.
func (r *QuestionRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.questionsKey(quizID)).Err()
}

func (r *QuestionRepository) cached(ctx context.Context, quizID string) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, r.questionsKey(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("read cached questions", zap.String("quiz_id", quizID), zap.Error(err))
		}
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

func (r *QuestionRepository) questionsKey(quizID string) string {
	return "quiz:" + quizID + ":questions"
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
