package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"safety-training-service/internal/domain"
)

// QuestionLoader fetches the ordered questions of a quiz from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
}

// QuestionRepository caches question sets with TTL to avoid repeated DB hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	if questions, ok := r.cached(quizID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		if questions, ok := r.cached(quizID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadQuestions(ctx, quizID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[quizID] = cachedQuestions{
			questions: questions,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached questions of a quiz.
func (r *QuestionRepository) Invalidate(quizID string) {
	r.mu.Lock()
	delete(r.cache, quizID)
	r.mu.Unlock()
}

func (r *QuestionRepository) cached(quizID string) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[quizID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return entry.questions, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	quizzes map[string][]domain.Question
}

func NewStaticQuestionLoader(quizzes map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{quizzes: quizzes}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, quizID string) ([]domain.Question, error) {
	if questions, ok := l.quizzes[quizID]; ok {
		return questions, nil
	}
	return nil, domain.ErrQuizNotFound
}
