package app

import (
	"context"
	"errors"

	"safety-training-service/internal/domain"
)

// FanOutSink delivers each finished attempt to every wrapped sink. All sinks are
// tried; their failures are joined.
type FanOutSink []SubmissionSink

func (f FanOutSink) SubmitAttempt(ctx context.Context, record domain.AttemptRecord) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.SubmitAttempt(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
