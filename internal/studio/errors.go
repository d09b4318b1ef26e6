package studio

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTimeout                   = errors.New("element not ready before timeout")
	ErrElementNotFound           = errors.New("element not found")
	ErrNotInteractable           = errors.New("element not interactable")
	ErrClickIntercepted          = errors.New("click intercepted by another element")
	ErrDailyUploadLimitReached   = errors.New("daily upload limit reached")
	ErrOptionNotFound            = errors.New("option not found")
	ErrVisibilityNotAcknowledged = errors.New("no schedule given and default visibility not acknowledged")
	ErrMissingVideoPath          = errors.New("video path is required")
)

type TimeoutError struct {
	Locator Locator
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("waiting for %s: not ready after %v", e.Locator, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

type OptionNotFoundError struct {
	Locator   Locator
	Want      string
	Available []string
}

func (e *OptionNotFoundError) Error() string {
	return fmt.Sprintf("no %s option with text %q (have %s)", e.Locator.Name, e.Want, strings.Join(e.Available, ", "))
}

func (e *OptionNotFoundError) Unwrap() error { return ErrOptionNotFound }
