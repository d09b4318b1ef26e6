package studio

import (
	"context"
	"errors"
	"time"
)

const defaultPollInterval = 500 * time.Millisecond

// Readiness reports whether a located element may be used.
type Readiness func(Element) (bool, error)

func Present(Element) (bool, error) { return true, nil }

func Visible(el Element) (bool, error) {
	return el.Visible()
}

func Clickable(el Element) (bool, error) {
	visible, err := el.Visible()
	if err != nil || !visible {
		return false, err
	}
	return el.Enabled()
}

type Waiter struct {
	page     Page
	clock    Clock
	interval time.Duration
}

func NewWaiter(page Page, clock Clock, interval time.Duration) *Waiter {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Waiter{page: page, clock: clock, interval: interval}
}

// AwaitReady polls loc until ready holds or timeout elapses. The timeout is a
// hard deadline measured on the waiter's clock.
func (w *Waiter) AwaitReady(ctx context.Context, loc Locator, ready Readiness, timeout time.Duration) (Element, error) {
	deadline := w.clock.Now().Add(timeout)

	for {
		el, err := w.page.Find(ctx, loc)
		switch {
		case err == nil:
			ok, readyErr := ready(el)
			if readyErr != nil && !errors.Is(readyErr, ErrElementNotFound) {
				return nil, readyErr
			}
			if ok && readyErr == nil {
				return el, nil
			}
		case !errors.Is(err, ErrElementNotFound):
			return nil, err
		}

		if !w.clock.Now().Before(deadline) {
			return nil, &TimeoutError{Locator: loc, Timeout: timeout}
		}
		if err := w.clock.Sleep(ctx, w.interval); err != nil {
			return nil, err
		}
	}
}
