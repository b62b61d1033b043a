package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"safety-training-service/internal/domain"
)

// CatalogRepository reads courses, modules and lessons.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListPublishedCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, title, COALESCE(description, ''), COALESCE(thumbnail_url, ''), is_published, created_at
FROM courses
WHERE is_published
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var c domain.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ThumbnailURL, &c.Published, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

const selectCourseLessons = `
SELECT m.id, m.title, m.order_index,
       l.id, l.title, COALESCE(l.video_url, ''), l.order_index, l.is_locked, q.id
FROM modules m
LEFT JOIN lessons l ON l.module_id = m.id
LEFT JOIN quizzes q ON q.lesson_id = l.id
WHERE m.course_id = $1
ORDER BY m.order_index, m.id, l.order_index, l.id`

func (r *CatalogRepository) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	var c domain.Course
	err := r.pool.QueryRow(ctx, `
SELECT id, title, COALESCE(description, ''), COALESCE(thumbnail_url, ''), is_published, created_at
FROM courses WHERE id = $1`, courseID,
	).Scan(&c.ID, &c.Title, &c.Description, &c.ThumbnailURL, &c.Published, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("get course: %w", err)
	}

	rows, err := r.pool.Query(ctx, selectCourseLessons, courseID)
	if err != nil {
		return domain.Course{}, fmt.Errorf("get course lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m        domain.Module
			lessonID *string
			title    *string
			videoURL *string
			order    *int
			locked   *bool
			quizID   *string
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.OrderIndex, &lessonID, &title, &videoURL, &order, &locked, &quizID); err != nil {
			return domain.Course{}, fmt.Errorf("scan lesson: %w", err)
		}
		if n := len(c.Modules); n == 0 || c.Modules[n-1].ID != m.ID {
			c.Modules = append(c.Modules, m)
		}
		if lessonID == nil {
			continue
		}
		module := &c.Modules[len(c.Modules)-1]
		lesson := domain.Lesson{ID: *lessonID}
		if title != nil {
			lesson.Title = *title
		}
		if videoURL != nil {
			lesson.VideoURL = *videoURL
		}
		if order != nil {
			lesson.OrderIndex = *order
		}
		if locked != nil {
			lesson.Locked = *locked
		}
		if quizID != nil {
			lesson.QuizID = *quizID
		}
		module.Lessons = append(module.Lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return domain.Course{}, fmt.Errorf("get course lessons: %w", err)
	}
	return c, nil
}

func (r *CatalogRepository) CourseTitleForQuiz(ctx context.Context, quizID string) (string, error) {
	var title string
	err := r.pool.QueryRow(ctx, `
SELECT c.title
FROM quizzes q
JOIN lessons l ON l.id = q.lesson_id
JOIN modules m ON m.id = l.module_id
JOIN courses c ON c.id = m.course_id
WHERE q.id = $1`, quizID).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrQuizNotFound
	}
	if err != nil {
		return "", fmt.Errorf("course title: %w", err)
	}
	return title, nil
}
