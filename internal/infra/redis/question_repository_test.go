package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"safety-training-service/internal/domain"
	"safety-training-service/internal/infra/memory"
)

func TestQuestionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"quiz-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(client, loader, time.Minute, nil)

	_, err = repo.GetQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:quiz-1:questions") {
		t.Fatalf("expected questions cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	questions, err := repo.GetQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get cached questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(questions) != 2 || questions[0].ID != "q1" || len(questions[0].Answers) != 2 || !questions[0].Answers[0].Correct {
		t.Fatalf("expected full question data from cache, got %+v", questions)
	}
}

func TestQuestionRepositoryReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuestionLoader: memory.NewStaticQuestionLoader(map[string][]domain.Question{
			"quiz-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(newClient(mr), loader, time.Minute, nil)

	if _, err := repo.GetQuestions(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := repo.GetQuestions(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get questions after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, quizID)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:               "q1",
			Prompt:           "Which PPE is mandatory for live electrical work?",
			Points:           10,
			TimeLimitSeconds: 20,
			Answers: []domain.Answer{
				{ID: "a1", Text: "Insulated gloves", Correct: true},
				{ID: "a2", Text: "Sandals", Correct: false},
			},
		},
		{
			ID:               "q2",
			Prompt:           "Who may lock out a circuit?",
			Points:           5,
			TimeLimitSeconds: 10,
			Answers: []domain.Answer{
				{ID: "a3", Text: "Anyone nearby", Correct: false},
				{ID: "a4", Text: "An authorized worker", Correct: true},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
