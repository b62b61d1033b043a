package app

import (
	"context"
	"sort"
	"strings"

	"safety-training-service/internal/domain"
)

// CatalogRepository reads courses with their modules and lessons.
type CatalogRepository interface {
	ListPublishedCourses(ctx context.Context) ([]domain.Course, error)
	// GetCourse returns the course with modules, lessons and lesson quiz IDs.
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
	CourseTitleLookup
}

// CourseService backs the dashboard and the course player.
type CourseService struct {
	catalog CatalogRepository
}

func NewCourseService(catalog CatalogRepository) *CourseService {
	return &CourseService{catalog: catalog}
}

// ListCourses returns published courses, newest first.
func (s *CourseService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.catalog.ListPublishedCourses(ctx)
	if err != nil {
		return nil, err
	}
	published := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.Published {
			c.Modules = nil
			published = append(published, c)
		}
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].CreatedAt.After(published[j].CreatedAt)
	})
	return published, nil
}

// CoursePage resolves the lesson being watched and the navigation around it.
// An empty lessonID selects the first lesson of the first module that has one.
func (s *CourseService) CoursePage(ctx context.Context, courseID, lessonID string) (domain.CoursePage, error) {
	course, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return domain.CoursePage{}, err
	}
	if !course.Published {
		return domain.CoursePage{}, domain.ErrCourseNotFound
	}

	modules := orderedModules(course.Modules)

	var current *domain.Lesson
	for mi := range modules {
		for li := range modules[mi].Lessons {
			lesson := &modules[mi].Lessons[li]
			if lessonID == "" && current == nil {
				current = lesson
			}
			if lessonID != "" && lesson.ID == lessonID {
				current = lesson
			}
		}
	}
	if lessonID != "" {
		if current == nil {
			return domain.CoursePage{}, domain.ErrLessonNotFound
		}
		if current.Locked {
			return domain.CoursePage{}, domain.ErrLessonLocked
		}
	}

	page := domain.CoursePage{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Sidebar:     make([]domain.SidebarModule, 0, len(modules)),
	}
	if current != nil {
		lesson := *current
		page.CurrentLesson = &lesson
		page.EmbedURL = EmbedURL(lesson.VideoURL)
		page.QuizID = lesson.QuizID
	}

	for _, m := range modules {
		entry := domain.SidebarModule{ID: m.ID, Title: m.Title, Lessons: make([]domain.SidebarLesson, 0, len(m.Lessons))}
		for i, lesson := range m.Lessons {
			status := domain.LessonAvailable
			switch {
			case lesson.Locked:
				status = domain.LessonLocked
			case current != nil && lesson.ID == current.ID:
				status = domain.LessonCurrent
			}
			entry.Lessons = append(entry.Lessons, domain.SidebarLesson{
				Lesson:   lesson,
				Position: i + 1,
				Status:   status,
				HasQuiz:  lesson.QuizID != "",
			})
		}
		page.Sidebar = append(page.Sidebar, entry)
	}
	return page, nil
}

// EmbedURL turns a YouTube watch or short link into its embeddable form.
// Other URLs pass through unchanged.
func EmbedURL(videoURL string) string {
	embed := strings.Replace(videoURL, "watch?v=", "embed/", 1)
	return strings.Replace(embed, "youtu.be/", "youtube.com/embed/", 1)
}

func orderedModules(in []domain.Module) []domain.Module {
	modules := make([]domain.Module, len(in))
	for i, m := range in {
		m.Lessons = append([]domain.Lesson(nil), m.Lessons...)
		sort.SliceStable(m.Lessons, func(a, b int) bool {
			return m.Lessons[a].OrderIndex < m.Lessons[b].OrderIndex
		})
		modules[i] = m
	}
	sort.SliceStable(modules, func(a, b int) bool {
		return modules[a].OrderIndex < modules[b].OrderIndex
	})
	return modules
}
