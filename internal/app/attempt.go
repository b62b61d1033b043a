package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"safety-training-service/internal/domain"
)

// SubmissionSink durably records finished attempts.
type SubmissionSink interface {
	SubmitAttempt(ctx context.Context, record domain.AttemptRecord) error
}

// AttemptOptions configures a new Attempt. Zero values fall back to sane defaults.
type AttemptOptions struct {
	ID     string
	UserID string
	QuizID string
	Clock  Clock
	Sink   SubmissionSink
	Pass   PassPolicy
	Logger *zap.Logger
}

// Attempt is one user's run through one quiz. All mutations are serialized by mu;
// the only background activity is the per-question countdown.
type Attempt struct {
	id     string
	userID string
	quizID string
	clock  Clock
	sink   SubmissionSink
	pass   PassPolicy
	log    *zap.Logger

	mu        sync.Mutex
	questions []domain.Question
	phase     domain.Phase
	current   int
	remaining int
	score     int
	selected  string
	run       int
	result    *domain.AttemptRecord
	closed    bool

	// generation is bumped whenever a countdown starts or stops; a tick carrying
	// an older generation is discarded.
	generation uint64
	stopTimer  chan struct{}

	subscribers map[chan domain.AttemptSnapshot]struct{}
}

// NewAttempt creates an attempt in the Loading phase.
func NewAttempt(opts AttemptOptions) *Attempt {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Pass == nil {
		opts.Pass = AlwaysPass
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Attempt{
		id:     opts.ID,
		userID: opts.UserID,
		quizID: opts.QuizID,
		clock:  opts.Clock,
		sink:   opts.Sink,
		pass:   opts.Pass,
		log: opts.Logger.With(
			zap.String("attempt_id", opts.ID),
			zap.String("user_id", opts.UserID),
			zap.String("quiz_id", opts.QuizID),
		),
		phase:       domain.PhaseLoading,
		run:         1,
		subscribers: make(map[chan domain.AttemptSnapshot]struct{}),
	}
}

func (a *Attempt) ID() string     { return a.id }
func (a *Attempt) UserID() string { return a.userID }
func (a *Attempt) QuizID() string { return a.quizID }

// Phase returns the current phase.
func (a *Attempt) Phase() domain.Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Load stores the question list and moves Loading -> Intro. Invalid or empty
// question data leaves the attempt in Loading.
func (a *Attempt) Load(questions []domain.Question) (domain.AttemptSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return a.snapshotLocked(), domain.ErrAttemptClosed
	}
	if a.phase != domain.PhaseLoading {
		return a.snapshotLocked(), domain.ErrInvalidTransition
	}
	if err := validateQuestions(questions); err != nil {
		return a.snapshotLocked(), err
	}

	a.questions = append([]domain.Question(nil), questions...)
	a.phase = domain.PhaseIntro
	return a.broadcastLocked(), nil
}

// Start moves Intro -> Playing on the first question.
func (a *Attempt) Start() (domain.AttemptSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return a.snapshotLocked(), domain.ErrAttemptClosed
	}
	if a.phase != domain.PhaseIntro {
		return a.snapshotLocked(), domain.ErrInvalidTransition
	}
	a.score = 0
	a.enterQuestionLocked(0)
	return a.broadcastLocked(), nil
}

// Select registers the player's answer for the current question. Only the first
// selection while Playing counts; any other call is a no-op.
func (a *Attempt) Select(answerID string) (domain.AttemptSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return a.snapshotLocked(), domain.ErrAttemptClosed
	}
	if a.phase != domain.PhasePlaying {
		return a.snapshotLocked(), nil
	}

	q := a.questions[a.current]
	var picked *domain.Answer
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			picked = &q.Answers[i]
			break
		}
	}
	if picked == nil {
		return a.snapshotLocked(), domain.ErrAnswerNotFound
	}

	a.stopCountdownLocked()
	a.selected = picked.ID
	a.score += scoreAnswer(q, *picked, a.remaining)
	a.phase = domain.PhaseFeedback
	return a.broadcastLocked(), nil
}

// Advance leaves Feedback: to the next question, or to Finished after the last one.
// Finishing submits the attempt summary exactly once; a submission failure is
// logged and does not undo Finished.
func (a *Attempt) Advance(ctx context.Context) (domain.AttemptSnapshot, error) {
	a.mu.Lock()
	if a.closed {
		snap := a.snapshotLocked()
		a.mu.Unlock()
		return snap, domain.ErrAttemptClosed
	}
	if a.phase != domain.PhaseFeedback {
		snap := a.snapshotLocked()
		a.mu.Unlock()
		return snap, domain.ErrInvalidTransition
	}

	if a.current+1 < len(a.questions) {
		a.enterQuestionLocked(a.current + 1)
		snap := a.broadcastLocked()
		a.mu.Unlock()
		return snap, nil
	}

	a.phase = domain.PhaseFinished
	record := domain.AttemptRecord{
		ID:          uuid.NewString(),
		UserID:      a.userID,
		QuizID:      a.quizID,
		Score:       a.score,
		Passed:      a.pass(a.score),
		CompletedAt: a.clock.Now(),
	}
	a.result = &record
	snap := a.broadcastLocked()
	a.mu.Unlock()

	a.submit(ctx, record)
	return snap, nil
}

// Restart begins a new run from the first question with a zero score.
func (a *Attempt) Restart() (domain.AttemptSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return a.snapshotLocked(), domain.ErrAttemptClosed
	}
	if a.phase == domain.PhaseLoading {
		return a.snapshotLocked(), domain.ErrInvalidTransition
	}
	a.stopCountdownLocked()
	a.run++
	a.score = 0
	a.result = nil
	a.enterQuestionLocked(0)
	return a.broadcastLocked(), nil
}

// Snapshot returns the current state.
func (a *Attempt) Snapshot() domain.AttemptSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Result returns the summary of the last finished run.
func (a *Attempt) Result() (domain.AttemptRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != domain.PhaseFinished || a.result == nil {
		return domain.AttemptRecord{}, false
	}
	return *a.result, true
}

// Subscribe returns a channel of snapshots, primed with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (a *Attempt) Subscribe() (<-chan domain.AttemptSnapshot, func(), error) {
	ch := make(chan domain.AttemptSnapshot, 8)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, nil, domain.ErrAttemptClosed
	}
	a.subscribers[ch] = struct{}{}
	ch <- a.snapshotLocked()
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel, nil
}

// Close stops the countdown and detaches all subscribers. It is safe to call twice.
func (a *Attempt) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.stopCountdownLocked()
	for ch := range a.subscribers {
		delete(a.subscribers, ch)
		close(ch)
	}
}

func (a *Attempt) submit(ctx context.Context, record domain.AttemptRecord) {
	if a.sink == nil {
		a.log.Warn("no submission sink configured, attempt not persisted", zap.Int("score", record.Score))
		return
	}
	if err := a.sink.SubmitAttempt(ctx, record); err != nil {
		a.log.Error("submit attempt", zap.Error(err), zap.Int("score", record.Score))
		return
	}
	a.log.Info("attempt submitted", zap.Int("score", record.Score), zap.Bool("passed", record.Passed))
}

func (a *Attempt) enterQuestionLocked(index int) {
	a.current = index
	a.selected = ""
	a.remaining = a.questions[index].TimeLimitSeconds
	a.phase = domain.PhasePlaying
	a.startCountdownLocked()
}

func (a *Attempt) startCountdownLocked() {
	a.stopCountdownLocked()
	a.generation++
	stop := make(chan struct{})
	a.stopTimer = stop
	go a.runCountdown(a.generation, a.clock.NewTicker(time.Second), stop)
}

func (a *Attempt) stopCountdownLocked() {
	if a.stopTimer == nil {
		return
	}
	close(a.stopTimer)
	a.stopTimer = nil
	a.generation++
}

func (a *Attempt) runCountdown(generation uint64, ticker Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !a.tick(generation) {
				return
			}
		}
	}
}

// tick applies one second of countdown. It reports whether the countdown should keep running.
func (a *Attempt) tick(generation uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || generation != a.generation || a.phase != domain.PhasePlaying {
		return false
	}
	if a.remaining > 0 {
		a.remaining--
	}
	if a.remaining == 0 {
		a.stopCountdownLocked()
		a.phase = domain.PhaseFeedback
		a.broadcastLocked()
		return false
	}
	a.broadcastLocked()
	return true
}

func (a *Attempt) broadcastLocked() domain.AttemptSnapshot {
	snap := a.snapshotLocked()
	for ch := range a.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot so a slow reader never blocks the attempt
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (a *Attempt) snapshotLocked() domain.AttemptSnapshot {
	snap := domain.AttemptSnapshot{
		AttemptID:        a.id,
		UserID:           a.userID,
		QuizID:           a.quizID,
		Run:              a.run,
		Phase:            a.phase,
		QuestionIndex:    a.current,
		QuestionCount:    len(a.questions),
		TimeRemaining:    a.remaining,
		Score:            a.score,
		SelectedAnswerID: a.selected,
	}
	if a.phase == domain.PhasePlaying || a.phase == domain.PhaseFeedback {
		snap.Question = questionView(a.questions[a.current], a.phase == domain.PhaseFeedback)
	}
	if a.result != nil {
		result := *a.result
		snap.Result = &result
	}
	return snap
}

func questionView(q domain.Question, reveal bool) *domain.QuestionView {
	view := &domain.QuestionView{
		ID:               q.ID,
		Prompt:           q.Prompt,
		Points:           q.Points,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Answers:          make([]domain.AnswerView, len(q.Answers)),
	}
	for i, answer := range q.Answers {
		view.Answers[i] = domain.AnswerView{ID: answer.ID, Text: answer.Text}
		if reveal {
			correct := answer.Correct
			view.Answers[i].Correct = &correct
		}
	}
	return view
}
