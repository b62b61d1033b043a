package memory

import (
	"testing"

	"safety-training-service/internal/app"
)

func TestAttemptRegistryLifecycle(t *testing.T) {
	registry := NewAttemptRegistry()

	first := app.NewAttempt(app.AttemptOptions{UserID: "u1", QuizID: "quiz-1"})
	if previous := registry.Put(first); previous != nil {
		t.Fatalf("expected no previous attempt")
	}
	if got, ok := registry.Get("u1", "quiz-1"); !ok || got != first {
		t.Fatalf("expected attempt present")
	}

	second := app.NewAttempt(app.AttemptOptions{UserID: "u1", QuizID: "quiz-1"})
	if previous := registry.Put(second); previous != first {
		t.Fatalf("expected first attempt to be replaced")
	}

	// removing a stale attempt must not drop its replacement
	registry.Remove(first)
	if got, ok := registry.Get("u1", "quiz-1"); !ok || got != second {
		t.Fatalf("expected second attempt to survive stale removal")
	}

	registry.Remove(second)
	if _, ok := registry.Get("u1", "quiz-1"); ok {
		t.Fatalf("expected attempt removed")
	}
	if registry.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", registry.Len())
	}
}
