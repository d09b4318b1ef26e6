package studio

import (
	"context"
	"fmt"
)

type By int

const (
	ByCSS By = iota
	ByXPath
	ByName
	ByID
)

// Locator names one UI element. Name is used in logs and errors, Query is
// interpreted according to By.
type Locator struct {
	Name  string
	By    By
	Query string
}

func CSS(name, query string) Locator { return Locator{Name: name, By: ByCSS, Query: query} }
func XPath(name, query string) Locator { return Locator{Name: name, By: ByXPath, Query: query} }
func Name(name, value string) Locator { return Locator{Name: name, By: ByName, Query: value} }
func ID(name, id string) Locator { return Locator{Name: name, By: ByID, Query: id} }

// Selector returns the CSS selector for CSS, name and id locators.
func (l Locator) Selector() string {
	switch l.By {
	case ByName:
		return fmt.Sprintf("[name=%q]", l.Query)
	case ByID:
		return "#" + l.Query
	default:
		return l.Query
	}
}

func (l Locator) String() string {
	if l.Name == "" {
		return l.Query
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Query)
}

// Page is the slice of a browser session the wizard needs. Find does not
// wait: it returns ErrElementNotFound when nothing matches right now.
type Page interface {
	Find(ctx context.Context, loc Locator) (Element, error)
	FindAll(ctx context.Context, loc Locator) ([]Element, error)
}

type Element interface {
	// Click fails with ErrClickIntercepted when another element covers the
	// target and with ErrNotInteractable when it cannot receive input.
	Click() error
	Clear() error
	Type(text string) error
	Submit() error
	SetFiles(paths ...string) error
	Text() (string, error)
	TextContent() (string, error)
	Visible() (bool, error)
	Enabled() (bool, error)
}
