package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"safety-training-service/internal/domain"
)

// QuestionLoader loads quiz questions with their answers from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

const selectQuestions = `
SELECT q.id, q.question_text, q.points, q.time_limit_seconds,
       a.id, a.answer_text, a.is_correct
FROM questions q
LEFT JOIN answers a ON a.question_id = q.id
WHERE q.quiz_id = $1
ORDER BY q.order_index ASC, q.id, a.created_at, a.id`

// LoadQuestions returns the questions of a quiz ordered by their order index.
// Answers keep their storage (insertion) order.
func (l *QuestionLoader) LoadQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, selectQuestions, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q          domain.Question
			answerID   *string
			answerText *string
			isCorrect  *bool
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Points, &q.TimeLimitSeconds, &answerID, &answerText, &isCorrect); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if n := len(questions); n == 0 || questions[n-1].ID != q.ID {
			questions = append(questions, q)
		}
		if answerID == nil {
			continue
		}
		last := &questions[len(questions)-1]
		answer := domain.Answer{ID: *answerID}
		if answerText != nil {
			answer.Text = *answerText
		}
		if isCorrect != nil {
			answer.Correct = *isCorrect
		}
		last.Answers = append(last.Answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, domain.ErrQuizNotFound
	}
	return questions, nil
}
