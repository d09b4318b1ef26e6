package studio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// fakePage is an in-memory studio page keyed by locator query.
type fakePage struct {
	elements    map[string]*fakeElement
	lists       map[string][]*fakeElement
	appearAfter map[string]int
	findErr     map[string]error
	finds       map[string]int
	events      []string
}

func newFakePage() *fakePage {
	return &fakePage{
		elements:    make(map[string]*fakeElement),
		lists:       make(map[string][]*fakeElement),
		appearAfter: make(map[string]int),
		findErr:     make(map[string]error),
		finds:       make(map[string]int),
	}
}

func (p *fakePage) add(loc Locator, el *fakeElement) *fakeElement {
	el.page = p
	el.name = loc.Name
	p.elements[loc.Query] = el
	return el
}

func (p *fakePage) addList(loc Locator, texts ...string) []*fakeElement {
	items := make([]*fakeElement, 0, len(texts))
	for _, text := range texts {
		items = append(items, &fakeElement{
			page:    p,
			name:    fmt.Sprintf("%s %q", loc.Name, text),
			text:    text,
			visible: true,
			enabled: true,
		})
	}
	p.lists[loc.Query] = items
	return items
}

func (p *fakePage) Find(_ context.Context, loc Locator) (Element, error) {
	p.finds[loc.Query]++
	if err, ok := p.findErr[loc.Query]; ok {
		return nil, err
	}
	if p.finds[loc.Query] <= p.appearAfter[loc.Query] {
		return nil, ErrElementNotFound
	}
	el, ok := p.elements[loc.Query]
	if !ok {
		return nil, ErrElementNotFound
	}
	return el, nil
}

func (p *fakePage) FindAll(_ context.Context, loc Locator) ([]Element, error) {
	items := p.lists[loc.Query]
	out := make([]Element, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out, nil
}

func (p *fakePage) record(format string, args ...any) {
	p.events = append(p.events, fmt.Sprintf(format, args...))
}

func (p *fakePage) count(event string) int {
	n := 0
	for _, e := range p.events {
		if e == event {
			n++
		}
	}
	return n
}

func (p *fakePage) has(event string) bool {
	return p.count(event) > 0
}

type fakeElement struct {
	page *fakePage
	name string

	text     string
	progress []string
	files    []string
	visible  bool
	enabled  bool
	clickErr error
	readErr  error

	// visibleAfter hides the element for the first n Visible calls.
	visibleAfter int
	visibleCalls int
	// visibleErrs are returned, in order, by the first Visible calls.
	visibleErrs []error
}

func ready() *fakeElement {
	return &fakeElement{visible: true, enabled: true}
}

func readyWithText(text string) *fakeElement {
	return &fakeElement{visible: true, enabled: true, text: text}
}

func (e *fakeElement) Click() error {
	if e.clickErr != nil {
		e.page.record("blocked:%s", e.name)
		return e.clickErr
	}
	e.page.record("click:%s", e.name)
	return nil
}

func (e *fakeElement) Clear() error {
	e.page.record("clear:%s", e.name)
	e.text = ""
	return nil
}

func (e *fakeElement) Type(text string) error {
	e.page.record("type:%s:%s", e.name, text)
	e.text += text
	return nil
}

func (e *fakeElement) Submit() error {
	e.page.record("submit:%s", e.name)
	return nil
}

func (e *fakeElement) SetFiles(paths ...string) error {
	e.page.record("files:%s:%s", e.name, strings.Join(paths, ","))
	e.files = append(e.files, paths...)
	return nil
}

func (e *fakeElement) Text() (string, error) {
	if e.readErr != nil {
		return "", e.readErr
	}
	return e.text, nil
}

func (e *fakeElement) TextContent() (string, error) {
	if e.readErr != nil {
		return "", e.readErr
	}
	if len(e.progress) == 0 {
		return e.text, nil
	}
	next := e.progress[0]
	if len(e.progress) > 1 {
		e.progress = e.progress[1:]
	}
	return next, nil
}

func (e *fakeElement) Visible() (bool, error) {
	e.visibleCalls++
	if len(e.visibleErrs) > 0 {
		err := e.visibleErrs[0]
		e.visibleErrs = e.visibleErrs[1:]
		return false, err
	}
	if e.visibleCalls <= e.visibleAfter {
		return false, nil
	}
	return e.visible, nil
}

func (e *fakeElement) Enabled() (bool, error) {
	return e.enabled, nil
}

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2021, 4, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return ctx.Err()
}

func (c *fakeClock) slept(d time.Duration) int {
	n := 0
	for _, s := range c.sleeps {
		if s == d {
			n++
		}
	}
	return n
}

type logBuffer struct {
	bytes.Buffer
}

func newTestLogger() (*slog.Logger, *logBuffer) {
	buf := &logBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func (b *logBuffer) countMessage(msg string) int {
	return strings.Count(b.String(), fmt.Sprintf("msg=%q", msg))
}

// wizardPage builds a page on which a full upload succeeds.
func wizardPage() *fakePage {
	p := newFakePage()

	p.add(locCreateButton, ready())
	p.add(locUploadMenuItem, ready())
	p.add(locVideoFileInput, ready())
	p.add(locTitleInput, readyWithText("my_video"))
	p.add(locDescription, ready())
	p.add(locThumbnailInput, ready())
	p.add(locAdvancedToggle, ready())
	p.add(locGameInput, ready())
	p.add(locGameSuggestion, ready())
	p.add(locMadeForKids, ready())
	p.add(locNotMadeForKids, ready())
	p.add(locNextButton, ready())
	p.add(locScheduleRadio, ready())
	p.add(locDatePicker, ready())
	p.add(locDateInput, readyWithText("Apr 1, 2021"))
	p.add(locTimePicker, ready())
	p.addList(locTimeOptions, "Time", "Timezone", "7:45 PM", "8:00 PM", "8:15 PM")
	p.add(locDoneButton, ready())
	p.add(locFirstStepBadge, ready())
	p.add(locEndScreenButton, ready())
	p.add(locEndScreenCard, ready())
	p.add(locEndScreenSave, ready())

	label := p.add(locProgressLabel, ready())
	label.progress = []string{"Uploading 10% ...", "Upload complete ... Processing will begin shortly"}

	return p
}

func newTestDriver(page *fakePage, opts Options) (*Driver, *fakeClock, *logBuffer) {
	clock := newFakeClock()
	logger, logs := newTestLogger()
	opts.Clock = clock
	opts.Logger = logger
	return NewDriver(page, opts), clock, logs
}
