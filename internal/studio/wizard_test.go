package studio

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func scheduledAt(t *testing.T, value string) *time.Time {
	t.Helper()
	at, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return &at
}

func TestUploadStepOrder(t *testing.T) {
	tests := []struct {
		name    string
		req     UploadRequest
		opts    Options
		want    []string
		wantLog string
	}{
		{
			name: "videoOnly",
			req:  UploadRequest{VideoPath: "/videos/a.mp4"},
			opts: Options{AcceptDefaultVisibility: true},
			want: []string{StepOpenWizard, StepBasicMetadata, StepAdvancedMetadata, StepNextScreens, StepProcessing, StepFinalize},
		},
		{
			name: "allFieldsUnscheduled",
			req: UploadRequest{
				VideoPath:     "/videos/a.mp4",
				Title:         "Title",
				Description:   "Description",
				ThumbnailPath: "/videos/a.png",
				Game:          "Minecraft",
				MadeForKids:   true,
			},
			opts: Options{AcceptDefaultVisibility: true},
			want: []string{StepOpenWizard, StepBasicMetadata, StepAdvancedMetadata, StepNextScreens, StepProcessing, StepFinalize},
		},
		{
			name: "scheduled",
			req:  UploadRequest{VideoPath: "/videos/a.mp4", ScheduledAt: scheduledAt(t, "2021-04-04T20:00:00")},
			want: []string{StepOpenWizard, StepBasicMetadata, StepAdvancedMetadata, StepNextScreens, StepSchedule, StepProcessing, StepFinalize},
		},
		{
			name: "endScreen",
			req:  UploadRequest{VideoPath: "/videos/a.mp4", ScheduledAt: scheduledAt(t, "2021-04-04T20:00:00")},
			opts: Options{EndScreen: true},
			want: []string{StepOpenWizard, StepBasicMetadata, StepAdvancedMetadata, StepNextScreens, StepSchedule, StepProcessing, StepEndScreen, StepFinalize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			tt.opts.OnStep = func(step string) { got = append(got, step) }

			driver, _, _ := newTestDriver(wizardPage(), tt.opts)
			if err := driver.Upload(context.Background(), tt.req); err != nil {
				t.Fatalf("Upload() error = %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("steps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUploadSubmitsVideoFile(t *testing.T) {
	page := wizardPage()
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	if err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	input := page.elements[locVideoFileInput.Query]
	if !reflect.DeepEqual(input.files, []string{"/videos/a.mp4"}) {
		t.Errorf("video input files = %v, want [/videos/a.mp4]", input.files)
	}

	want := []string{"click:create button", "click:upload menu item", "files:video file input:/videos/a.mp4"}
	if !reflect.DeepEqual(page.events[:3], want) {
		t.Errorf("first events = %v, want %v", page.events[:3], want)
	}
}

func TestUploadReplacesPrefilledTitle(t *testing.T) {
	page := wizardPage()
	page.elements[locTitleInput.Query].text = "X"
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4", Title: "Y"})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := page.elements[locTitleInput.Query].text; got != "Y" {
		t.Errorf("title = %q, want %q", got, "Y")
	}
}

func TestUploadAppendsDescription(t *testing.T) {
	page := wizardPage()
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4", Description: "D"})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := page.elements[locDescription.Query].text; got != "D" {
		t.Errorf("description = %q, want %q", got, "D")
	}
	if page.has("clear:description textbox") {
		t.Error("description must not be cleared")
	}
}

func TestUploadLeavesEmptyFieldsAlone(t *testing.T) {
	page := wizardPage()
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	if err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := page.elements[locTitleInput.Query].text; got != "my_video" {
		t.Errorf("title = %q, want prefilled my_video", got)
	}
	if files := page.elements[locThumbnailInput.Query].files; len(files) != 0 {
		t.Errorf("thumbnail files = %v, want none", files)
	}
	if page.has("click:first game suggestion") {
		t.Error("game suggestion clicked without a game")
	}
	if page.has("click:schedule radio") {
		t.Error("schedule radio clicked without a schedule")
	}
}

func TestUploadSubmitsThumbnail(t *testing.T) {
	page := wizardPage()
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4", ThumbnailPath: "/videos/a.png"})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if files := page.elements[locThumbnailInput.Query].files; !reflect.DeepEqual(files, []string{"/videos/a.png"}) {
		t.Errorf("thumbnail files = %v, want [/videos/a.png]", files)
	}
}

func TestUploadSelectsGameSuggestion(t *testing.T) {
	page := wizardPage()
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4", Game: "Minecraft"})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if !page.has("type:game title input:Minecraft") {
		t.Errorf("game title not typed, events = %v", page.events)
	}
	if page.count("click:first game suggestion") != 1 {
		t.Errorf("game suggestion clicks = %d, want 1", page.count("click:first game suggestion"))
	}
}

func TestUploadAudienceRadio(t *testing.T) {
	tests := []struct {
		name        string
		madeForKids bool
		want        string
		notWant     string
	}{
		{"notForKids", false, "click:not made for kids radio", "click:made for kids radio"},
		{"forKids", true, "click:made for kids radio", "click:not made for kids radio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := wizardPage()
			driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

			err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4", MadeForKids: tt.madeForKids})
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}

			if page.count(tt.want) != 1 {
				t.Errorf("%s count = %d, want 1", tt.want, page.count(tt.want))
			}
			if page.has(tt.notWant) {
				t.Errorf("unexpected %s", tt.notWant)
			}
		})
	}
}

func TestUploadClicksNextThreeTimes(t *testing.T) {
	page := wizardPage()
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	if err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := page.count("click:next button"); got != 3 {
		t.Errorf("next clicks = %d, want 3", got)
	}
}

func TestUploadDailyLimitReached(t *testing.T) {
	page := wizardPage()
	page.elements[locAdvancedToggle.Query].clickErr = ErrClickIntercepted
	page.add(locUploadError, readyWithText("Daily upload limit reached"))

	var steps []string
	driver, _, logs := newTestDriver(page, Options{
		AcceptDefaultVisibility: true,
		OnStep:                  func(step string) { steps = append(steps, step) },
	})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4", Game: "Minecraft"})
	if !errors.Is(err, ErrDailyUploadLimitReached) {
		t.Fatalf("Upload() error = %v, want ErrDailyUploadLimitReached", err)
	}

	if last := steps[len(steps)-1]; last != StepAdvancedMetadata {
		t.Errorf("last step = %q, want %q", last, StepAdvancedMetadata)
	}
	for _, event := range []string{
		"type:game title input:Minecraft",
		"click:not made for kids radio",
		"click:next button",
		"click:done button",
	} {
		if page.has(event) {
			t.Errorf("unexpected %q after daily limit", event)
		}
	}
	if logs.countMessage("Daily upload limit has been reached. Try again later.") != 1 {
		t.Errorf("missing error log, logs = %s", logs.String())
	}
}

func TestUploadCoveredToggleWithOtherBanner(t *testing.T) {
	page := wizardPage()
	page.elements[locAdvancedToggle.Query].clickErr = ErrClickIntercepted
	page.add(locUploadError, readyWithText("Daily upload limit reached."))
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	if err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !page.has("click:done button") {
		t.Error("upload did not finish")
	}
}

func TestUploadCoveredToggleWithoutBanner(t *testing.T) {
	page := wizardPage()
	page.elements[locAdvancedToggle.Query].clickErr = ErrClickIntercepted
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"})
	if !errors.Is(err, ErrClickIntercepted) {
		t.Errorf("Upload() error = %v, want ErrClickIntercepted", err)
	}
	if errors.Is(err, ErrDailyUploadLimitReached) {
		t.Error("missing banner must not be reported as daily limit")
	}
}

func TestUploadToggleNotInteractable(t *testing.T) {
	page := wizardPage()
	page.elements[locAdvancedToggle.Query].clickErr = ErrNotInteractable
	driver, _, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"})
	if !errors.Is(err, ErrNotInteractable) {
		t.Errorf("Upload() error = %v, want ErrNotInteractable", err)
	}
	if _, ok := page.finds[locUploadError.Query]; ok {
		t.Error("error banner checked for a non-intercept failure")
	}
}

func TestUploadSchedulesPublication(t *testing.T) {
	page := wizardPage()
	driver, _, _ := newTestDriver(page, Options{})

	err := driver.Upload(context.Background(), UploadRequest{
		VideoPath:   "/videos/a.mp4",
		ScheduledAt: scheduledAt(t, "2021-04-04T20:00:00"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := page.elements[locDateInput.Query].text; got != "Apr 04, 2021" {
		t.Errorf("date input = %q, want %q", got, "Apr 04, 2021")
	}
	for _, event := range []string{
		"click:schedule radio",
		"click:date picker trigger",
		"clear:date input",
		"submit:date input",
		"click:time picker trigger",
	} {
		if page.count(event) != 1 {
			t.Errorf("%s count = %d, want 1", event, page.count(event))
		}
	}
}

func TestUploadSelectsExactTimeOption(t *testing.T) {
	page := wizardPage()
	page.addList(locTimeOptions, "Time", "Timezone", "8:15 PM", "8:00 PM")
	driver, _, _ := newTestDriver(page, Options{})

	err := driver.Upload(context.Background(), UploadRequest{
		VideoPath:   "/videos/a.mp4",
		ScheduledAt: scheduledAt(t, "2021-04-04T20:00:00"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if page.count(`click:time of day "8:00 PM"`) != 1 {
		t.Errorf("8:00 PM not selected, events = %v", page.events)
	}
	if page.has(`click:time of day "8:15 PM"`) {
		t.Error("8:15 PM must not be selected")
	}
}

func TestUploadMissingTimeOption(t *testing.T) {
	page := wizardPage()
	page.addList(locTimeOptions, "Time", "Timezone", "8:15 PM", "8:30 PM")
	driver, _, _ := newTestDriver(page, Options{})

	err := driver.Upload(context.Background(), UploadRequest{
		VideoPath:   "/videos/a.mp4",
		ScheduledAt: scheduledAt(t, "2021-04-04T20:00:00"),
	})
	if !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("Upload() error = %v, want ErrOptionNotFound", err)
	}

	var notFound *OptionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Upload() error = %T, want *OptionNotFoundError", err)
	}
	if notFound.Want != "8:00 PM" {
		t.Errorf("Want = %q, want %q", notFound.Want, "8:00 PM")
	}
	if !reflect.DeepEqual(notFound.Available, []string{"8:15 PM", "8:30 PM"}) {
		t.Errorf("Available = %v, want [8:15 PM 8:30 PM]", notFound.Available)
	}
	if page.has("click:done button") {
		t.Error("finalize ran after failed time selection")
	}
}

func TestUploadTimeOptionHeadersAreSkipped(t *testing.T) {
	page := wizardPage()
	page.addList(locTimeOptions, "8:00 PM", "Timezone", "8:15 PM")
	driver, _, _ := newTestDriver(page, Options{})

	err := driver.Upload(context.Background(), UploadRequest{
		VideoPath:   "/videos/a.mp4",
		ScheduledAt: scheduledAt(t, "2021-04-04T20:00:00"),
	})
	if !errors.Is(err, ErrOptionNotFound) {
		t.Errorf("Upload() error = %v, want ErrOptionNotFound", err)
	}
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     UploadRequest
		opts    Options
		wantErr error
	}{
		{
			name:    "missingVideo",
			req:     UploadRequest{Title: "x"},
			opts:    Options{AcceptDefaultVisibility: true},
			wantErr: ErrMissingVideoPath,
		},
		{
			name:    "visibilityNotAcknowledged",
			req:     UploadRequest{VideoPath: "/videos/a.mp4"},
			wantErr: ErrVisibilityNotAcknowledged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := wizardPage()
			driver, _, _ := newTestDriver(page, tt.opts)

			err := driver.Upload(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			if len(page.events) != 0 || len(page.finds) != 0 {
				t.Errorf("page touched before validation: events=%v finds=%v", page.events, page.finds)
			}
		})
	}
}

func TestUploadTimesOutOnMissingElement(t *testing.T) {
	page := wizardPage()
	delete(page.elements, locCreateButton.Query)
	driver, clock, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Upload() error = %v, want ErrTimeout", err)
	}

	var timeout *TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("Upload() error = %T, want *TimeoutError", err)
	}
	if timeout.Locator != locCreateButton {
		t.Errorf("Locator = %v, want %v", timeout.Locator, locCreateButton)
	}
	if timeout.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want 20s", timeout.Timeout)
	}
	if elapsed := clock.now.Sub(newFakeClock().now); elapsed < 20*time.Second {
		t.Errorf("gave up after %v, want at least 20s", elapsed)
	}
}

func TestUploadFinalizeWaits(t *testing.T) {
	page := wizardPage()
	driver, clock, logs := newTestDriver(page, Options{AcceptDefaultVisibility: true})

	if err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	n := len(clock.sleeps)
	if n < 2 || clock.sleeps[n-2] != 5*time.Second || clock.sleeps[n-1] != 10*time.Second {
		t.Errorf("final sleeps = %v, want [... 5s 10s]", clock.sleeps)
	}
	if last := page.events[len(page.events)-1]; last != "click:done button" {
		t.Errorf("last event = %q, want click:done button", last)
	}
	if logs.countMessage("Upload is complete") != 1 {
		t.Error("missing completion log")
	}
}

func TestUploadEndScreenRetriesCard(t *testing.T) {
	page := wizardPage()
	page.appearAfter[locEndScreenCard.Query] = 3
	driver, clock, _ := newTestDriver(page, Options{AcceptDefaultVisibility: true, EndScreen: true})

	if err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := page.finds[locEndScreenCard.Query]; got != 4 {
		t.Errorf("card lookups = %d, want 4", got)
	}
	if page.count("click:first end screen card") != 1 {
		t.Error("end screen card not clicked")
	}
	if page.count("click:end screen save button") != 1 {
		t.Error("end screen not saved")
	}
	// 3 from next screens, 2 after the end screen.
	if got := page.count("click:next button"); got != 5 {
		t.Errorf("next clicks = %d, want 5", got)
	}
	// 1 progress poll, 1 settle, 3 retry backoffs, 2 before next, 1 finalize settle.
	if got := clock.slept(5 * time.Second); got != 8 {
		t.Errorf("5s sleeps = %d, want 8 (%v)", got, clock.sleeps)
	}
}

func TestUploadEndScreenGivesUpOnCard(t *testing.T) {
	page := wizardPage()
	delete(page.elements, locEndScreenCard.Query)
	driver, _, logs := newTestDriver(page, Options{AcceptDefaultVisibility: true, EndScreen: true})

	if err := driver.Upload(context.Background(), UploadRequest{VideoPath: "/videos/a.mp4"}); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := page.finds[locEndScreenCard.Query]; got != 10 {
		t.Errorf("card lookups = %d, want 10", got)
	}
	if logs.countMessage("End screen card not ready, retrying") != 9 {
		t.Errorf("retry logs = %d, want 9", logs.countMessage("End screen card not ready, retrying"))
	}
	if page.count("click:end screen save button") != 1 {
		t.Error("end screen save skipped")
	}
}
