package memory

import (
	"context"
	"sync"

	"safety-training-service/internal/domain"
)

// Catalog is a static course catalog (useful for tests/demos).
type Catalog struct {
	mu      sync.RWMutex
	courses map[string]domain.Course
	order   []string
}

func NewCatalog(courses ...domain.Course) *Catalog {
	c := &Catalog{courses: make(map[string]domain.Course, len(courses))}
	for _, course := range courses {
		c.courses[course.ID] = course
		c.order = append(c.order, course.ID)
	}
	return c
}

func (c *Catalog) ListPublishedCourses(_ context.Context) ([]domain.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Course, 0, len(c.order))
	for _, id := range c.order {
		if course := c.courses[id]; course.Published {
			out = append(out, course)
		}
	}
	return out, nil
}

func (c *Catalog) GetCourse(_ context.Context, courseID string) (domain.Course, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	course, ok := c.courses[courseID]
	if !ok {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	return course, nil
}

func (c *Catalog) CourseTitleForQuiz(_ context.Context, quizID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		course := c.courses[id]
		for _, m := range course.Modules {
			for _, l := range m.Lessons {
				if l.QuizID == quizID {
					return course.Title, nil
				}
			}
		}
	}
	return "", domain.ErrQuizNotFound
}
