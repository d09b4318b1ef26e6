package studio

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const defaultProgressInterval = 5 * time.Second

// ProgressPoller samples the upload progress label until it shows a terminal
// status. It has no iteration bound; cancel ctx to stop it.
type ProgressPoller struct {
	clock    Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewProgressPoller(clock Clock, interval time.Duration, logger *slog.Logger) *ProgressPoller {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressPoller{clock: clock, interval: interval, logger: logger}
}

func (p *ProgressPoller) Wait(ctx context.Context, label Element) (ProcessingStatus, error) {
	var last string
	first := true

	for {
		raw, err := label.TextContent()
		if err != nil {
			return StatusUnrecognized, fmt.Errorf("read progress label: %w", err)
		}

		text := normalizeProgress(raw)
		status := ClassifyProgress(text)
		if status.Terminal() {
			p.logger.Debug("Processing reached terminal state", "progress", text, "status", status.String())
			return status, nil
		}

		if first || text != last {
			p.logger.Info("Upload progress", "progress", text, "status", status.String())
		}
		first = false
		last = text

		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			return status, err
		}
	}
}
