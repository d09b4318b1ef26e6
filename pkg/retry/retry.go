package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

var ErrExhausted = errors.New("retry attempts exhausted")

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Policy struct {
	config    Config
	sleep     SleepFunc
	retryable func(error) bool
	onRetry   func(attempt int, err error)
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Fixed returns a config that waits the same delay between every attempt.
func Fixed(attempts int, delay time.Duration) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: delay,
		MaxDelay:     delay,
		Multiplier:   1.0,
	}
}

func New(config Config) *Policy {
	def := DefaultConfig()
	if config.MaxAttempts == 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.InitialDelay == 0 {
		config.InitialDelay = def.InitialDelay
	}
	if config.MaxDelay == 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.Multiplier == 0 {
		config.Multiplier = def.Multiplier
	}

	return &Policy{
		config:    config,
		sleep:     Sleep,
		retryable: func(error) bool { return true },
	}
}

func (p *Policy) WithSleep(sleep SleepFunc) *Policy {
	if sleep != nil {
		p.sleep = sleep
	}
	return p
}

func (p *Policy) WithRetryable(fn func(error) bool) *Policy {
	if fn != nil {
		p.retryable = fn
	}
	return p
}

func (p *Policy) OnRetry(fn func(attempt int, err error)) *Policy {
	p.onRetry = fn
	return p
}

func (p *Policy) Config() Config {
	return p.config
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is wrapped with ErrExhausted in that case.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	delay := p.config.InitialDelay

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !p.retryable(err) {
			return err
		}
		if attempt == p.config.MaxAttempts {
			break
		}

		if p.onRetry != nil {
			p.onRetry(attempt, err)
		}

		wait := delay
		if p.config.Jitter {
			wait = applyJitter(wait)
		}
		if sleepErr := p.sleep(ctx, wait); sleepErr != nil {
			return sleepErr
		}
		delay = min(time.Duration(float64(delay)*p.config.Multiplier), p.config.MaxDelay)
	}

	return errors.Join(ErrExhausted, err)
}

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func applyJitter(delay time.Duration) time.Duration {
	jitterFactor := 0.9 + rand.Float64()*0.2
	return time.Duration(float64(delay) * jitterFactor)
}
