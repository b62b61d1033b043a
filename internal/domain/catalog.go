package domain

import "time"

// Lesson is a single video lesson, optionally followed by a quiz.
type Lesson struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	VideoURL   string `json:"videoUrl,omitempty"`
	OrderIndex int    `json:"orderIndex"`
	Locked     bool   `json:"locked"`
	QuizID     string `json:"quizId,omitempty"`
}

// Module groups lessons inside a course.
type Module struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	OrderIndex int      `json:"orderIndex"`
	Lessons    []Lesson `json:"lessons"`
}

// Course is a published training course.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	Modules      []Module  `json:"modules,omitempty"`
}

// LessonStatus is the sidebar state of a lesson.
type LessonStatus string

const (
	LessonLocked    LessonStatus = "locked"
	LessonCurrent   LessonStatus = "current"
	LessonAvailable LessonStatus = "available"
)

// SidebarLesson is a lesson entry in the course navigation.
type SidebarLesson struct {
	Lesson
	Position int          `json:"position"`
	Status   LessonStatus `json:"status"`
	HasQuiz  bool         `json:"hasQuiz"`
}

// SidebarModule is a module entry in the course navigation.
type SidebarModule struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Lessons []SidebarLesson `json:"lessons"`
}

// CoursePage is everything the course player view needs.
type CoursePage struct {
	CourseID      string          `json:"courseId"`
	CourseTitle   string          `json:"courseTitle"`
	CurrentLesson *Lesson         `json:"currentLesson,omitempty"`
	EmbedURL      string          `json:"embedUrl,omitempty"`
	QuizID        string          `json:"quizId,omitempty"`
	Sidebar       []SidebarModule `json:"sidebar"`
}
