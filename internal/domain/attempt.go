package domain

import (
	"fmt"
	"strings"
)

// Phase is the lifecycle stage of a quiz attempt.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseIntro
	PhasePlaying
	PhaseFeedback
	PhaseFinished
)

var phaseNames = [...]string{"loading", "intro", "playing", "feedback", "finished"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name so clients never depend on the ordinal.
func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range phaseNames {
		if n == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", name)
}

// AnswerView is an answer as shown to a player. Correct is only set once the
// question has been resolved.
type AnswerView struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct *bool  `json:"correct,omitempty"`
}

// QuestionView is the current question as shown to a player.
type QuestionView struct {
	ID               string       `json:"id"`
	Prompt           string       `json:"prompt"`
	Points           int          `json:"points"`
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	Answers          []AnswerView `json:"answers"`
}

// AttemptSnapshot is a point-in-time copy of an attempt, safe to hand to other goroutines.
type AttemptSnapshot struct {
	AttemptID        string         `json:"attemptId"`
	UserID           string         `json:"userId"`
	QuizID           string         `json:"quizId"`
	Run              int            `json:"run"`
	Phase            Phase          `json:"phase"`
	QuestionIndex    int            `json:"questionIndex"`
	QuestionCount    int            `json:"questionCount"`
	TimeRemaining    int            `json:"timeRemaining"`
	Score            int            `json:"score"`
	SelectedAnswerID string         `json:"selectedAnswerId,omitempty"`
	Question         *QuestionView  `json:"question,omitempty"`
	Result           *AttemptRecord `json:"result,omitempty"`
}
