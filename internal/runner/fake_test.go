package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gnc-attendance/internal/attendance"
	"gnc-attendance/internal/portal"
)

var errNotFound = errors.New("element not found")

// fakeBrowser stands in for the portal: the login form is always there, the
// dashboard only appears once the login form is submitted.
type fakeBrowser struct {
	mutex    sync.Mutex
	signedIn bool
	html     string
	closed   bool
	typed    map[portal.Locator]string
	shots    int

	// launchCtx is the context the browser was started under, a real browser
	// dies with it.
	launchCtx context.Context
	onSubmit  func()
}

func newFakeBrowser(html string) *fakeBrowser {
	return &fakeBrowser{
		html:  html,
		typed: map[portal.Locator]string{},
	}
}

func (f *fakeBrowser) present(l portal.Locator) bool {
	switch l {
	case portal.UsernameField, portal.PasswordField, portal.SubmitButton:
		return true
	case portal.LoginMarker, portal.MastersMenu, portal.AttendanceItem[0], portal.AttendanceGrid:
		return f.signedIn
	}
	return false
}

func (f *fakeBrowser) check(l portal.Locator) error {
	if !f.present(l) {
		return fmt.Errorf("%w: %s", errNotFound, l)
	}
	return nil
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	return nil
}

func (f *fakeBrowser) WaitPresent(ctx context.Context, l portal.Locator) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.check(l)
}

func (f *fakeBrowser) WaitClickable(ctx context.Context, l portal.Locator) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.check(l)
}

func (f *fakeBrowser) Click(ctx context.Context, l portal.Locator) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	err := f.check(l)
	if err != nil {
		return err
	}
	if l == portal.SubmitButton {
		f.signedIn = true
		if f.onSubmit != nil {
			f.onSubmit()
		}
	}
	return nil
}

func (f *fakeBrowser) SendKeys(ctx context.Context, l portal.Locator, text string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	err := f.check(l)
	if err != nil {
		return err
	}
	f.typed[l] += text
	return nil
}

func (f *fakeBrowser) Evaluate(ctx context.Context, script string) error {
	return nil
}

func (f *fakeBrowser) HTML(ctx context.Context) (string, error) {
	return f.html, nil
}

func (f *fakeBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.launchCtx != nil && f.launchCtx.Err() != nil {
		return nil, fmt.Errorf("browser gone: %w", f.launchCtx.Err())
	}
	f.shots++
	return []byte("\x89PNG"), nil
}

func (f *fakeBrowser) Close() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.closed = true
}

type pushed struct {
	time   time.Time
	report attendance.Report
}

type fakeHistory struct {
	pushed []pushed
	err    error
}

func (h *fakeHistory) Push(ctx context.Context, t time.Time, r attendance.Report) error {
	h.pushed = append(h.pushed, pushed{time: t, report: r})
	return h.err
}

type fakeNotify struct {
	sent []string
	err  error
}

func (n *fakeNotify) Send(r attendance.Report, today string) error {
	n.sent = append(n.sent, today)
	return n.err
}
