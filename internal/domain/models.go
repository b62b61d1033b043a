package domain

import "time"

// Answer is one selectable option of a question.
type Answer struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models a timed MCQ question. Answer order is fixed at load time.
type Question struct {
	ID               string   `json:"id"`
	Prompt           string   `json:"prompt"`
	Points           int      `json:"points"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
	Answers          []Answer `json:"answers"`
}

// CorrectAnswerID returns the ID of the first answer flagged correct.
func (q Question) CorrectAnswerID() string {
	for _, a := range q.Answers {
		if a.Correct {
			return a.ID
		}
	}
	return ""
}

// AttemptRecord is the immutable summary handed to submission sinks once an attempt finishes.
type AttemptRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	QuizID      string    `json:"quizId"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
}

// Profile carries the display data of a user.
type Profile struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
}

// User is an account able to log in.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Certificate holds everything printed on a completion certificate.
type Certificate struct {
	StudentName    string
	CourseTitle    string
	Score          int
	CompletedAt    time.Time
	Workload       string
	Issuer         string
	ValidationCode string
}
