package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var errNotFound = errors.New("element not found")

// fakePage is an in-memory Page. Elements listed in present exist,
// elements in clickable can also be clicked.
type fakePage struct {
	mutex     sync.Mutex
	present   map[Locator]bool
	clickable map[Locator]bool
	// revealOnClick makes elements present once the key is clicked
	revealOnClick map[Locator][]Locator
	html          string
	navigateErr   error

	calls []string
	typed map[Locator]string
}

func newFakePage() *fakePage {
	return &fakePage{
		present:       map[Locator]bool{},
		clickable:     map[Locator]bool{},
		revealOnClick: map[Locator][]Locator{},
		typed:         map[Locator]string{},
	}
}

func (f *fakePage) add(l Locator, clickable bool) {
	f.present[l] = true
	if clickable {
		f.clickable[l] = true
	}
}

func (f *fakePage) log(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.log("navigate %s", url)
	return f.navigateErr
}

func (f *fakePage) WaitPresent(ctx context.Context, l Locator) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.log("wait-present %s", l)
	if !f.present[l] {
		return fmt.Errorf("%w: %s", errNotFound, l)
	}
	return nil
}

func (f *fakePage) WaitClickable(ctx context.Context, l Locator) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.log("wait-clickable %s", l)
	if !f.clickable[l] {
		return fmt.Errorf("%w: %s", errNotFound, l)
	}
	return nil
}

func (f *fakePage) Click(ctx context.Context, l Locator) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.log("click %s", l)
	if !f.present[l] {
		return fmt.Errorf("%w: %s", errNotFound, l)
	}
	for _, revealed := range f.revealOnClick[l] {
		f.present[revealed] = true
		f.clickable[revealed] = true
	}
	return nil
}

func (f *fakePage) SendKeys(ctx context.Context, l Locator, text string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.log("send-keys %s", l)
	if !f.present[l] {
		return fmt.Errorf("%w: %s", errNotFound, l)
	}
	f.typed[l] += text
	return nil
}

func (f *fakePage) Evaluate(ctx context.Context, script string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.log("evaluate")
	return nil
}

func (f *fakePage) HTML(ctx context.Context) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.log("html")
	return f.html, nil
}
