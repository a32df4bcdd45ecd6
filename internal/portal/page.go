package portal

import (
	"context"
	"errors"
	"fmt"
)

// By is the strategy used to find an element.
type By int

const (
	ByID By = iota
	ByName
	ByClass
	ByCSS
	ByXPath
)

func (b By) String() string {
	switch b {
	case ByID:
		return "id"
	case ByName:
		return "name"
	case ByClass:
		return "class"
	case ByCSS:
		return "css"
	case ByXPath:
		return "xpath"
	}
	return fmt.Sprintf("By(%d)", int(b))
}

// Locator finds a single element on the page.
type Locator struct {
	By    By
	Value string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

func ID(id string) Locator {
	return Locator{By: ByID, Value: id}
}

func Name(name string) Locator {
	return Locator{By: ByName, Value: name}
}

func Class(class string) Locator {
	return Locator{By: ByClass, Value: class}
}

func CSS(selector string) Locator {
	return Locator{By: ByCSS, Value: selector}
}

func XPath(xpath string) Locator {
	return Locator{By: ByXPath, Value: xpath}
}

// Page is the capability of reading and driving a rendered page.
// Every method blocks until it succeeds or ctx is done.
//
// note: fault injection point
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitPresent waits until the element exists in the DOM.
	WaitPresent(ctx context.Context, l Locator) error
	// WaitClickable waits until the element is visible and enabled.
	WaitClickable(ctx context.Context, l Locator) error
	Click(ctx context.Context, l Locator) error
	SendKeys(ctx context.Context, l Locator, text string) error
	// Evaluate runs a script in the page, discarding its result.
	Evaluate(ctx context.Context, script string) error
	// HTML returns the outer HTML of the document element.
	HTML(ctx context.Context) (string, error)
}

// FirstOf runs action with each locator in order and returns on the first
// success. If every locator fails, the errors are joined.
func FirstOf(ctx context.Context, action func(context.Context, Locator) error, locators ...Locator) (Locator, error) {
	var errs []error
	for _, l := range locators {
		err := action(ctx, l)
		if err == nil {
			return l, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", l, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return Locator{}, errors.New("no locators given")
	}
	return Locator{}, errors.Join(errs...)
}
