package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	StepOpenWizard       = "open-wizard"
	StepBasicMetadata    = "basic-metadata"
	StepAdvancedMetadata = "advanced-metadata"
	StepNextScreens      = "next-screens"
	StepSchedule         = "schedule"
	StepProcessing       = "processing"
	StepEndScreen        = "end-screen"
	StepFinalize         = "finalize"
)

const (
	defaultWaitTimeout  = 20 * time.Second
	defaultLabelTimeout = 10 * time.Second
	defaultSettleDelay  = 5 * time.Second
	defaultCloseDelay   = 10 * time.Second

	nextScreens = 3
)

type UploadRequest struct {
	VideoPath     string
	Title         string
	Description   string
	ThumbnailPath string
	Game          string
	MadeForKids   bool
	ScheduledAt   *time.Time
}

func (r UploadRequest) Validate() error {
	if r.VideoPath == "" {
		return ErrMissingVideoPath
	}
	return nil
}

type Options struct {
	Clock  Clock
	Logger *slog.Logger

	// WaitTimeout bounds every readiness wait except the progress label.
	WaitTimeout      time.Duration
	LabelTimeout     time.Duration
	PollInterval     time.Duration
	ProgressInterval time.Duration
	SettleDelay      time.Duration
	CloseDelay       time.Duration

	// The wizard never picks public, private or unlisted. Unscheduled uploads
	// keep whatever the studio defaults to, and the caller has to say so.
	AcceptDefaultVisibility bool
	EndScreen               bool

	OnStep func(step string)
}

type Driver struct {
	page   Page
	wait   *Waiter
	poller *ProgressPoller
	clock  Clock
	logger *slog.Logger
	opts   Options
}

type step struct {
	name string
	run  func(ctx context.Context, req UploadRequest) error
}

func NewDriver(page Page, opts Options) *Driver {
	applyOptionDefaults(&opts)

	return &Driver{
		page:   page,
		wait:   NewWaiter(page, opts.Clock, opts.PollInterval),
		poller: NewProgressPoller(opts.Clock, opts.ProgressInterval, opts.Logger),
		clock:  opts.Clock,
		logger: opts.Logger,
		opts:   opts,
	}
}

func applyOptionDefaults(opts *Options) {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WaitTimeout == 0 {
		opts.WaitTimeout = defaultWaitTimeout
	}
	if opts.LabelTimeout == 0 {
		opts.LabelTimeout = defaultLabelTimeout
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.ProgressInterval == 0 {
		opts.ProgressInterval = defaultProgressInterval
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.CloseDelay == 0 {
		opts.CloseDelay = defaultCloseDelay
	}
}

// Preflight runs the checks Upload makes before it touches the page, so
// callers can fail before starting a browser.
func Preflight(req UploadRequest, opts Options) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.ScheduledAt == nil && !opts.AcceptDefaultVisibility {
		return ErrVisibilityNotAcknowledged
	}
	return nil
}

// Upload walks the upload wizard once for req. The page must already show
// the studio dashboard of a logged-in channel. The caller keeps ownership of
// the browser session on every outcome.
func (d *Driver) Upload(ctx context.Context, req UploadRequest) error {
	if err := Preflight(req, d.opts); err != nil {
		return err
	}

	for _, s := range d.steps(req) {
		if d.opts.OnStep != nil {
			d.opts.OnStep(s.name)
		}
		d.logger.Debug("Running wizard step", "step", s.name)

		if err := s.run(ctx, req); err != nil {
			if errors.Is(err, ErrDailyUploadLimitReached) {
				return err
			}
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	d.logger.Info("Upload is complete", "video", req.VideoPath, "title", req.Title)
	return nil
}

func (d *Driver) steps(req UploadRequest) []step {
	steps := []step{
		{StepOpenWizard, d.openWizard},
		{StepBasicMetadata, d.setBasicMetadata},
		{StepAdvancedMetadata, d.setAdvancedMetadata},
		{StepNextScreens, d.advanceScreens},
	}
	if req.ScheduledAt != nil {
		steps = append(steps, step{StepSchedule, d.schedule})
	}
	steps = append(steps, step{StepProcessing, d.waitForProcessing})
	if d.opts.EndScreen {
		steps = append(steps, step{StepEndScreen, d.addEndScreen})
	}
	return append(steps, step{StepFinalize, d.finalize})
}

func (d *Driver) waitForProcessing(ctx context.Context, _ UploadRequest) error {
	label, err := d.wait.AwaitReady(ctx, locProgressLabel, Clickable, d.opts.LabelTimeout)
	if err != nil {
		return err
	}

	status, err := d.poller.Wait(ctx, label)
	if err != nil {
		return err
	}

	d.logger.Info("Processing finished", "status", status.String())
	return nil
}

func (d *Driver) finalize(ctx context.Context, _ UploadRequest) error {
	// Animations in the dialog swallow clicks that land too early.
	if err := d.clock.Sleep(ctx, d.opts.SettleDelay); err != nil {
		return err
	}
	if err := d.clickWhenReady(ctx, locDoneButton); err != nil {
		return err
	}
	return d.clock.Sleep(ctx, d.opts.CloseDelay)
}

func (d *Driver) clickWhenReady(ctx context.Context, loc Locator) error {
	el, err := d.wait.AwaitReady(ctx, loc, Clickable, d.opts.WaitTimeout)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("click %s: %w", loc.Name, err)
	}
	return nil
}

func (d *Driver) find(ctx context.Context, loc Locator) (Element, error) {
	el, err := d.page.Find(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc.Name, err)
	}
	return el, nil
}

func (d *Driver) clickNow(ctx context.Context, loc Locator) error {
	el, err := d.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("click %s: %w", loc.Name, err)
	}
	return nil
}
