package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"studioupload/internal/studio"
)

const actionTimeout = 15 * time.Second

const clearScript = `function () {
	if ('value' in this) {
		this.value = ''
	} else {
		this.textContent = ''
	}
	this.dispatchEvent(new Event('input', { bubbles: true }))
}`

var _ studio.Page = (*Page)(nil)

// Page adapts a rod tab to the studio wizard.
type Page struct {
	page *rod.Page
}

func (p *Page) Find(ctx context.Context, loc studio.Locator) (studio.Element, error) {
	page := p.page.Context(ctx)

	var (
		has bool
		el  *rod.Element
		err error
	)
	if loc.By == studio.ByXPath {
		has, el, err = page.HasX(loc.Query)
	} else {
		has, el, err = page.Has(loc.Selector())
	}
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", loc, err)
	}
	if !has {
		return nil, fmt.Errorf("%s: %w", loc, studio.ErrElementNotFound)
	}
	return &element{el: el}, nil
}

func (p *Page) FindAll(ctx context.Context, loc studio.Locator) ([]studio.Element, error) {
	page := p.page.Context(ctx)

	var (
		els rod.Elements
		err error
	)
	if loc.By == studio.ByXPath {
		els, err = page.ElementsX(loc.Query)
	} else {
		els, err = page.Elements(loc.Selector())
	}
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", loc, err)
	}

	out := make([]studio.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

type element struct {
	el *rod.Element
}

func (e *element) Click() error {
	el := e.el.Timeout(actionTimeout)
	defer el.CancelTimeout()

	// rod's Click waits while the target is covered; probe first so an
	// overlay is reported instead of waited out.
	if _, err := el.Interactable(); err != nil {
		return interactionError(err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return interactionError(err)
	}
	return nil
}

func (e *element) Clear() error {
	if _, err := e.el.Eval(clearScript); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (e *element) Type(text string) error {
	el := e.el.Timeout(actionTimeout)
	defer el.CancelTimeout()

	if err := el.Input(text); err != nil {
		return interactionError(err)
	}
	return nil
}

func (e *element) Submit() error {
	if err := e.el.Type(input.Enter); err != nil {
		return interactionError(err)
	}
	return nil
}

func (e *element) SetFiles(paths ...string) error {
	return e.el.SetFiles(paths)
}

func (e *element) Text() (string, error) {
	text, err := e.el.Text()
	if err != nil {
		return "", readError(err)
	}
	return text, nil
}

func (e *element) TextContent() (string, error) {
	v, err := e.el.Property("textContent")
	if err != nil {
		return "", readError(err)
	}
	return v.Str(), nil
}

func (e *element) Visible() (bool, error) {
	visible, err := e.el.Visible()
	if err != nil {
		return false, readError(err)
	}
	return visible, nil
}

func (e *element) Enabled() (bool, error) {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false, readError(err)
	}
	if disabled.Bool() {
		return false, nil
	}

	aria, err := e.el.Attribute("aria-disabled")
	if err != nil {
		return false, readError(err)
	}
	return aria == nil || *aria != "true", nil
}

// staleNode reports whether err means the node was detached or its
// execution context replaced, as happens when the studio re-renders.
func staleNode(err error) bool {
	return errors.As(err, new(*rod.ObjectNotFoundError)) ||
		errors.As(err, new(*rod.ElementNotFoundError)) ||
		errors.Is(err, cdp.ErrCtxNotFound) ||
		errors.Is(err, cdp.ErrCtxDestroyed) ||
		errors.Is(err, cdp.ErrObjNotFound)
}

func readError(err error) error {
	if staleNode(err) {
		return fmt.Errorf("%w: %v", studio.ErrElementNotFound, err)
	}
	return err
}

func interactionError(err error) error {
	if sentinel := interactionSentinel(err); sentinel != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return readError(err)
}

func interactionSentinel(err error) error {
	switch {
	case errors.As(err, new(*rod.CoveredError)):
		return studio.ErrClickIntercepted
	case errors.As(err, new(*rod.NoPointerEventsError)),
		errors.As(err, new(*rod.NotInteractableError)),
		errors.As(err, new(*rod.InvisibleShapeError)):
		return studio.ErrNotInteractable
	default:
		return nil
	}
}
