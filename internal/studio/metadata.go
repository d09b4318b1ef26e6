package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func (d *Driver) openWizard(ctx context.Context, req UploadRequest) error {
	if err := d.clickWhenReady(ctx, locCreateButton); err != nil {
		return err
	}
	if err := d.clickWhenReady(ctx, locUploadMenuItem); err != nil {
		return err
	}

	input, err := d.find(ctx, locVideoFileInput)
	if err != nil {
		return err
	}
	if err := input.SetFiles(req.VideoPath); err != nil {
		return fmt.Errorf("submit video file: %w", err)
	}

	d.logger.Info("Video file submitted", "path", req.VideoPath)
	return nil
}

func (d *Driver) setBasicMetadata(ctx context.Context, req UploadRequest) error {
	title, err := d.wait.AwaitReady(ctx, locTitleInput, Clickable, d.opts.WaitTimeout)
	if err != nil {
		return err
	}
	description, err := d.find(ctx, locDescription)
	if err != nil {
		return err
	}
	thumbnail, err := d.find(ctx, locThumbnailInput)
	if err != nil {
		return err
	}

	if req.Title != "" {
		// The studio pre-fills the title from the file name.
		if err := title.Clear(); err != nil {
			return fmt.Errorf("clear title: %w", err)
		}
		if err := title.Type(req.Title); err != nil {
			return fmt.Errorf("type title: %w", err)
		}
	}
	if req.Description != "" {
		if err := description.Type(req.Description); err != nil {
			return fmt.Errorf("type description: %w", err)
		}
	}
	if req.ThumbnailPath != "" {
		if err := thumbnail.SetFiles(req.ThumbnailPath); err != nil {
			return fmt.Errorf("submit thumbnail: %w", err)
		}
	}

	return nil
}

func (d *Driver) setAdvancedMetadata(ctx context.Context, req UploadRequest) error {
	toggle, err := d.find(ctx, locAdvancedToggle)
	if err != nil {
		return err
	}
	if err := toggle.Click(); err != nil {
		if !errors.Is(err, ErrClickIntercepted) {
			return fmt.Errorf("open advanced options: %w", err)
		}
		if err := d.checkUploadError(ctx, err); err != nil {
			return err
		}
	}

	if req.Game != "" {
		input, err := d.find(ctx, locGameInput)
		if err != nil {
			return err
		}
		if err := input.Type(req.Game); err != nil {
			return fmt.Errorf("type game title: %w", err)
		}
		// Position 1 of the suggestion list is always blank.
		if err := d.clickWhenReady(ctx, locGameSuggestion); err != nil {
			return err
		}
	}

	audience := locNotMadeForKids
	if req.MadeForKids {
		audience = locMadeForKids
	}
	return d.clickWhenReady(ctx, audience)
}

// checkUploadError inspects the dialog's error banner after the advanced
// options toggle was covered.
func (d *Driver) checkUploadError(ctx context.Context, clickErr error) error {
	banner, err := d.page.Find(ctx, locUploadError)
	if err != nil {
		return fmt.Errorf("open advanced options: %w", errors.Join(clickErr, err))
	}

	text, err := banner.Text()
	if err != nil {
		return fmt.Errorf("read upload error banner: %w", err)
	}

	if strings.TrimSpace(text) == dailyLimitMessage {
		d.logger.Error("Daily upload limit has been reached. Try again later.")
		return ErrDailyUploadLimitReached
	}

	d.logger.Warn("Advanced options toggle was covered", "banner", text)
	return nil
}

func (d *Driver) advanceScreens(ctx context.Context, _ UploadRequest) error {
	for i := 0; i < nextScreens; i++ {
		if err := d.clickWhenReady(ctx, locNextButton); err != nil {
			return fmt.Errorf("screen %d: %w", i+1, err)
		}
	}
	return nil
}
