package domain

import "errors"

var (
	// ErrAttemptNotFound is returned when the user has no open attempt for a quiz.
	ErrAttemptNotFound = errors.New("quiz attempt not found")
	// ErrAttemptNotFinished is returned when an action needs a completed attempt.
	ErrAttemptNotFinished = errors.New("quiz attempt not finished")
	// ErrAttemptClosed is returned for commands sent to a torn-down attempt.
	ErrAttemptClosed = errors.New("quiz attempt closed")
	// ErrInvalidTransition indicates a command that is illegal in the current phase.
	ErrInvalidTransition = errors.New("invalid quiz phase transition")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions indicates the quiz exists but has no questions to play.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrInvalidQuestion indicates question data that cannot be scored unambiguously.
	ErrInvalidQuestion = errors.New("invalid question data")
	// ErrAnswerNotFound indicates a selected answer ID is not part of the current question.
	ErrAnswerNotFound = errors.New("answer not found")

	// ErrCourseNotFound is returned for unknown or unpublished courses.
	ErrCourseNotFound = errors.New("course not found")
	// ErrLessonNotFound is returned when a requested lesson is not part of the course.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrLessonLocked is returned when a locked lesson is requested.
	ErrLessonLocked = errors.New("lesson locked")
	// ErrProfileNotFound is returned when no profile row exists for a user.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUserNotFound is returned when no account matches an email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned on signup with an already registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrValidation wraps rejected user input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned for missing, expired or forged tokens.
	ErrUnauthorized = errors.New("unauthorized")
)
