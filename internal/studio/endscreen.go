package studio

import (
	"context"
	"errors"
	"time"

	"studioupload/pkg/retry"
)

const (
	endScreenAttempts = 10
	endScreenBackoff  = 5 * time.Second
	endScreenNexts    = 2
)

func (d *Driver) addEndScreen(ctx context.Context, _ UploadRequest) error {
	if err := d.clickNow(ctx, locFirstStepBadge); err != nil {
		return err
	}
	if err := d.clickNow(ctx, locEndScreenButton); err != nil {
		return err
	}
	if err := d.clock.Sleep(ctx, d.opts.SettleDelay); err != nil {
		return err
	}

	// The card list renders late and stays unclickable for a while.
	policy := retry.New(retry.Fixed(endScreenAttempts, endScreenBackoff)).
		WithSleep(d.clock.Sleep).
		WithRetryable(func(err error) bool {
			return errors.Is(err, ErrElementNotFound) || errors.Is(err, ErrNotInteractable)
		}).
		OnRetry(func(attempt int, err error) {
			d.logger.Warn("End screen card not ready, retrying",
				"attempt", attempt,
				"max_attempts", endScreenAttempts,
				"backoff", endScreenBackoff,
				"error", err,
			)
		})

	err := policy.Do(ctx, func(ctx context.Context) error {
		return d.clickNow(ctx, locEndScreenCard)
	})
	switch {
	case errors.Is(err, retry.ErrExhausted):
		d.logger.Warn("Giving up on end screen card", "attempts", endScreenAttempts, "error", err)
	case err != nil:
		return err
	}

	if err := d.clickWhenReady(ctx, locEndScreenSave); err != nil {
		return err
	}

	for i := 0; i < endScreenNexts; i++ {
		if err := d.clock.Sleep(ctx, d.opts.SettleDelay); err != nil {
			return err
		}
		if err := d.clickWhenReady(ctx, locNextButton); err != nil {
			return err
		}
	}
	return nil
}
