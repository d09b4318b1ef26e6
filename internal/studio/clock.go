package studio

import (
	"context"
	"time"

	"studioupload/pkg/retry"
)

// Clock is the time source for every wait in the wizard.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	return retry.Sleep(ctx, d)
}
