package memory

import (
	"time"

	"safety-training-service/internal/domain"
)

// SampleQuizID is the quiz attached to the last lesson of the sample course.
const SampleQuizID = "quiz-fire-safety"

// SampleCourses returns a small published catalog for local runs and tests.
func SampleCourses() []domain.Course {
	return []domain.Course{
		{
			ID:           "course-fire-safety",
			Title:        "Fire Safety Fundamentals",
			Description:  "Prevention, alarms and evacuation procedures.",
			ThumbnailURL: "https://img.youtube.com/vi/ysz5S6PUM-U/hqdefault.jpg",
			Published:    true,
			CreatedAt:    time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
			Modules: []domain.Module{
				{
					ID: "mod-prevention", Title: "Prevention", OrderIndex: 1,
					Lessons: []domain.Lesson{
						{ID: "lesson-hazards", Title: "Spotting hazards", VideoURL: "https://www.youtube.com/watch?v=ysz5S6PUM-U", OrderIndex: 1},
						{ID: "lesson-extinguishers", Title: "Using extinguishers", VideoURL: "https://youtu.be/jNQXAC9IVRw", OrderIndex: 2},
					},
				},
				{
					ID: "mod-evacuation", Title: "Evacuation", OrderIndex: 2,
					Lessons: []domain.Lesson{
						{ID: "lesson-routes", Title: "Escape routes", VideoURL: "https://www.youtube.com/watch?v=aqz-KE-bpKQ", OrderIndex: 1, QuizID: SampleQuizID},
						{ID: "lesson-drill", Title: "Running a drill", OrderIndex: 2, Locked: true},
					},
				},
			},
		},
		{
			ID:        "course-ppe-draft",
			Title:     "Personal Protective Equipment",
			Published: false,
			CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

// SampleQuizzes returns the questions of every sample quiz.
func SampleQuizzes() map[string][]domain.Question {
	return map[string][]domain.Question{
		SampleQuizID: {
			{
				ID: "q-alarm", Prompt: "What is the first thing to do when the fire alarm sounds?",
				Points: 10, TimeLimitSeconds: 20,
				Answers: []domain.Answer{
					{ID: "a-evacuate", Text: "Leave by the nearest safe exit", Correct: true},
					{ID: "a-finish", Text: "Finish the current task"},
					{ID: "a-elevator", Text: "Take the elevator"},
				},
			},
			{
				ID: "q-extinguisher", Prompt: "Which extinguisher is safe on electrical fires?",
				Points: 5, TimeLimitSeconds: 15,
				Answers: []domain.Answer{
					{ID: "a-water", Text: "Water"},
					{ID: "a-co2", Text: "CO2", Correct: true},
					{ID: "a-foam", Text: "Foam"},
				},
			},
		},
	}
}
