package studio

import (
	"context"
	"fmt"
	"time"
)

func scheduleDate(t time.Time) string { return t.Format(scheduleDateLayout) }
func scheduleTime(t time.Time) string { return t.Format(scheduleTimeLayout) }

func (d *Driver) schedule(ctx context.Context, req UploadRequest) error {
	at := *req.ScheduledAt

	if err := d.clickWhenReady(ctx, locScheduleRadio); err != nil {
		return err
	}

	if err := d.clickNow(ctx, locDatePicker); err != nil {
		return err
	}
	dateInput, err := d.find(ctx, locDateInput)
	if err != nil {
		return err
	}
	if err := dateInput.Clear(); err != nil {
		return fmt.Errorf("clear date: %w", err)
	}
	if err := dateInput.Type(scheduleDate(at)); err != nil {
		return fmt.Errorf("type date: %w", err)
	}
	if err := dateInput.Submit(); err != nil {
		return fmt.Errorf("confirm date: %w", err)
	}

	if err := d.clickNow(ctx, locTimePicker); err != nil {
		return err
	}
	options, err := d.page.FindAll(ctx, locTimeOptions)
	if err != nil {
		return fmt.Errorf("list %s options: %w", locTimeOptions.Name, err)
	}
	option, err := selectOption(options, timeOptionHeaders, locTimeOptions, scheduleTime(at))
	if err != nil {
		return err
	}
	if err := option.Click(); err != nil {
		return fmt.Errorf("click time option: %w", err)
	}

	d.logger.Info("Scheduled publication", "date", scheduleDate(at), "time", scheduleTime(at))
	return nil
}

// selectOption returns the first option after skip whose text equals want.
// There is no fuzzy fallback: a miss is an OptionNotFoundError.
func selectOption(options []Element, skip int, loc Locator, want string) (Element, error) {
	var available []string
	for i, option := range options {
		if i < skip {
			continue
		}
		text, err := option.Text()
		if err != nil {
			return nil, fmt.Errorf("read %s option: %w", loc.Name, err)
		}
		if text == want {
			return option, nil
		}
		available = append(available, text)
	}
	return nil, &OptionNotFoundError{Locator: loc, Want: want, Available: available}
}
