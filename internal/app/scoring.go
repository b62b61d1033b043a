package app

import (
	"fmt"

	"safety-training-service/internal/domain"
)

// BonusPerSecond is added to a correct answer for every whole second left on the clock.
const BonusPerSecond = 10

// PassPolicy decides the passed flag recorded for a finished attempt.
type PassPolicy func(score int) bool

// AlwaysPass records every finished attempt as passed. There is no failing state
// in the game itself, so this is the default.
func AlwaysPass(int) bool { return true }

// MinScore passes attempts scoring at least min.
func MinScore(min int) PassPolicy {
	return func(score int) bool { return score >= min }
}

// NewPassPolicy builds a policy from its configured name.
func NewPassPolicy(mode string, min int) (PassPolicy, error) {
	switch mode {
	case "", "always":
		return AlwaysPass, nil
	case "min_score":
		if min < 0 {
			return nil, fmt.Errorf("min_score must not be negative, got %d", min)
		}
		return MinScore(min), nil
	default:
		return nil, fmt.Errorf("unknown pass policy %q", mode)
	}
}

// scoreAnswer returns the points earned by selecting answer with remaining seconds left.
func scoreAnswer(q domain.Question, answer domain.Answer, remaining int) int {
	if !answer.Correct {
		return 0
	}
	return q.Points + remaining*BonusPerSecond
}

// validateQuestions rejects question data that cannot be played or scored unambiguously.
// Exactly one correct answer per question is required.
func validateQuestions(questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	for i, q := range questions {
		if q.Points <= 0 {
			return fmt.Errorf("%w: question %d (%s) has non-positive points", domain.ErrInvalidQuestion, i, q.ID)
		}
		if q.TimeLimitSeconds <= 0 {
			return fmt.Errorf("%w: question %d (%s) has non-positive time limit", domain.ErrInvalidQuestion, i, q.ID)
		}
		if len(q.Answers) == 0 {
			return fmt.Errorf("%w: question %d (%s) has no answers", domain.ErrInvalidQuestion, i, q.ID)
		}
		correct := 0
		for _, a := range q.Answers {
			if a.Correct {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: question %d (%s) has %d correct answers", domain.ErrInvalidQuestion, i, q.ID, correct)
		}
	}
	return nil
}
