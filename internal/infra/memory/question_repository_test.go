package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"safety-training-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"quiz-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	questions, err := repo.GetQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(questions) != 2 || questions[0].ID != "q1" || questions[1].ID != "q2" {
		t.Fatalf("expected questions in load order, got %+v", questions)
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"quiz-1": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetQuestions(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetQuestions(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get questions after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}

	repo.Invalidate("quiz-1")
	if _, err := repo.GetQuestions(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get questions after invalidate: %v", err)
	}
	if loader.calls != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(nil)}
	repo := NewQuestionRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.GetQuestions(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("expected quiz not found, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected every miss to reach the loader, got %d", loader.calls)
	}
}

type countingLoader struct {
	QuestionLoader
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
