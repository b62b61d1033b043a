package memory

import (
	"context"
	"errors"
	"testing"

	"safety-training-service/internal/domain"
)

func TestCatalogLookups(t *testing.T) {
	catalog := NewCatalog(
		domain.Course{
			ID:        "nr10",
			Title:     "NR-10 Electrical Safety",
			Published: true,
			Modules: []domain.Module{{
				ID:      "m1",
				Lessons: []domain.Lesson{{ID: "l1", QuizID: "quiz-1"}},
			}},
		},
		domain.Course{ID: "draft", Title: "Draft", Published: false},
	)
	ctx := context.Background()

	courses, err := catalog.ListPublishedCourses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != "nr10" {
		t.Fatalf("expected only the published course, got %+v", courses)
	}

	title, err := catalog.CourseTitleForQuiz(ctx, "quiz-1")
	if err != nil || title != "NR-10 Electrical Safety" {
		t.Fatalf("expected course title, got %q (%v)", title, err)
	}
	if _, err := catalog.CourseTitleForQuiz(ctx, "quiz-x"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if _, err := catalog.GetCourse(ctx, "missing"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected course not found, got %v", err)
	}
}

func TestUserStoreRejectsDuplicateEmail(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()
	user := domain.User{ID: "u1", Email: "ana@example.com"}

	if err := store.CreateUser(ctx, user, domain.Profile{UserID: "u1", FullName: "Ana"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateUser(ctx, domain.User{ID: "u2", Email: "ana@example.com"}, domain.Profile{UserID: "u2"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
	profile, err := store.GetProfile(ctx, "u1")
	if err != nil || profile.FullName != "Ana" {
		t.Fatalf("expected profile, got %+v (%v)", profile, err)
	}
}
