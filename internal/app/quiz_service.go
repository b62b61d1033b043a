package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"safety-training-service/internal/domain"
)

// AttemptRegistry abstracts how live attempts are tracked (in-memory, Redis, etc).
// Attempts are keyed by user and quiz; at most one is registered per pair.
type AttemptRegistry interface {
	// Put registers the attempt and returns the one it replaced, if any.
	Put(attempt *Attempt) *Attempt
	Get(userID, quizID string) (*Attempt, bool)
	// Remove unregisters the attempt only if it is still the registered one.
	Remove(attempt *Attempt)
}

// QuestionRepository loads the ordered questions of a quiz (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, quizID string) ([]domain.Question, error)
}

// QuizOptions tunes attempts created by a QuizService.
type QuizOptions struct {
	Clock  Clock
	Pass   PassPolicy
	Logger *zap.Logger
}

// QuizService contains the quiz play use cases.
type QuizService struct {
	attempts  AttemptRegistry
	questions QuestionRepository
	sink      SubmissionSink
	clock     Clock
	pass      PassPolicy
	log       *zap.Logger
}

func NewQuizService(attempts AttemptRegistry, questions QuestionRepository, sink SubmissionSink, opts QuizOptions) *QuizService {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Pass == nil {
		opts.Pass = AlwaysPass
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &QuizService{
		attempts:  attempts,
		questions: questions,
		sink:      sink,
		clock:     opts.Clock,
		pass:      opts.Pass,
		log:       opts.Logger,
	}
}

// Open creates a fresh attempt for the user, replacing (and tearing down) any
// previous one for the same quiz, and loads its questions. When loading fails
// the attempt stays registered in the Loading phase and the error is returned.
func (s *QuizService) Open(ctx context.Context, userID, quizID string) (domain.AttemptSnapshot, error) {
	attempt := NewAttempt(AttemptOptions{
		UserID: userID,
		QuizID: quizID,
		Clock:  s.clock,
		Sink:   s.sink,
		Pass:   s.pass,
		Logger: s.log,
	})
	if previous := s.attempts.Put(attempt); previous != nil {
		previous.Close()
	}

	questions, err := s.questions.GetQuestions(ctx, quizID)
	if err != nil {
		s.log.Warn("load questions", zap.String("quiz_id", quizID), zap.Error(err))
		return attempt.Snapshot(), fmt.Errorf("load questions: %w", err)
	}
	snap, err := attempt.Load(questions)
	if err != nil {
		s.log.Warn("questions rejected", zap.String("quiz_id", quizID), zap.Error(err))
		return snap, err
	}
	return snap, nil
}

// Start begins the first question of an opened attempt.
func (s *QuizService) Start(_ context.Context, userID, quizID string) (domain.AttemptSnapshot, error) {
	attempt, err := s.attempt(userID, quizID)
	if err != nil {
		return domain.AttemptSnapshot{}, err
	}
	return attempt.Start()
}

// Answer selects an answer for the current question.
func (s *QuizService) Answer(_ context.Context, userID, quizID, answerID string) (domain.AttemptSnapshot, error) {
	attempt, err := s.attempt(userID, quizID)
	if err != nil {
		return domain.AttemptSnapshot{}, err
	}
	return attempt.Select(answerID)
}

// Advance moves past the feedback of the current question.
func (s *QuizService) Advance(ctx context.Context, userID, quizID string) (domain.AttemptSnapshot, error) {
	attempt, err := s.attempt(userID, quizID)
	if err != nil {
		return domain.AttemptSnapshot{}, err
	}
	return attempt.Advance(ctx)
}

// Restart replays the quiz from the first question.
func (s *QuizService) Restart(_ context.Context, userID, quizID string) (domain.AttemptSnapshot, error) {
	attempt, err := s.attempt(userID, quizID)
	if err != nil {
		return domain.AttemptSnapshot{}, err
	}
	return attempt.Restart()
}

// Snapshot returns the current state of the user's attempt.
func (s *QuizService) Snapshot(_ context.Context, userID, quizID string) (domain.AttemptSnapshot, error) {
	attempt, err := s.attempt(userID, quizID)
	if err != nil {
		return domain.AttemptSnapshot{}, err
	}
	return attempt.Snapshot(), nil
}

// Subscribe returns a channel that receives every state change of the attempt.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, userID, quizID string) (<-chan domain.AttemptSnapshot, func(), error) {
	attempt, err := s.attempt(userID, quizID)
	if err != nil {
		return nil, nil, err
	}
	return attempt.Subscribe()
}

// Leave tears down the attempt identified by attemptID. Finished attempts stay
// registered so their result and certificate remain available.
func (s *QuizService) Leave(_ context.Context, userID, quizID, attemptID string) {
	attempt, ok := s.attempts.Get(userID, quizID)
	if !ok || attempt.ID() != attemptID {
		return
	}
	finished := attempt.Phase() == domain.PhaseFinished
	attempt.Close()
	if !finished {
		s.attempts.Remove(attempt)
	}
}

// Result returns the summary of the user's finished attempt.
func (s *QuizService) Result(_ context.Context, userID, quizID string) (domain.AttemptRecord, error) {
	attempt, err := s.attempt(userID, quizID)
	if err != nil {
		return domain.AttemptRecord{}, err
	}
	record, ok := attempt.Result()
	if !ok {
		return domain.AttemptRecord{}, domain.ErrAttemptNotFinished
	}
	return record, nil
}

func (s *QuizService) attempt(userID, quizID string) (*Attempt, error) {
	attempt, ok := s.attempts.Get(userID, quizID)
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return attempt, nil
}
