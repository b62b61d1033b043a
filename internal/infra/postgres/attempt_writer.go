package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"safety-training-service/internal/domain"
)

// AttemptWriter persists finished attempts into quiz_attempts.
type AttemptWriter struct {
	pool *pgxpool.Pool
}

func NewAttemptWriter(pool *pgxpool.Pool) *AttemptWriter {
	return &AttemptWriter{pool: pool}
}

func (w *AttemptWriter) SubmitAttempt(ctx context.Context, record domain.AttemptRecord) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO quiz_attempts (id, user_id, quiz_id, score, passed, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.UserID, record.QuizID, record.Score, record.Passed, record.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}
