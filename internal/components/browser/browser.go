package browser

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"gnc-attendance/internal/components/telemetry"
	"gnc-attendance/internal/portal"

	"github.com/chromedp/chromedp"
)

const (
	report_browser_start = "browser.start"
	report_browser_close = "browser.close"
)

type Options struct {
	Headless bool
	// ExecPath is the Chrome binary, empty means chromedp's lookup of the usual install locations.
	ExecPath string
	// Flags are extra command line switches passed to Chrome.
	Flags map[string]any
}

// Session is a running Chrome instance controlled over the DevTools protocol.
// It is only meant to be used by one goroutine at a time.
type Session struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closeOnce     sync.Once
	tel           telemetry.API
}

// Start launches Chrome. The caller must call Close on every path once done,
// which terminates the browser.
func Start(ctx context.Context, opts Options, tel telemetry.API) (*Session, error) {
	tel = telemetry.NewScopedAPI("browser", tel)

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	for name, value := range opts.Flags {
		allocOpts = append(allocOpts, chromedp.Flag(name, value))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			tel.ReportDebug(fmt.Sprintf(format, args...))
		}),
	)

	s := &Session{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		tel:           tel,
	}

	// the first Run is what actually launches the browser
	err := chromedp.Run(browserCtx)
	if err != nil {
		s.Close()
		tel.ReportBroken(report_browser_start, err)
		return nil, fmt.Errorf("start browser: %w", err)
	}
	tel.ReportDebug("browser started", "headless", opts.Headless)
	return s, nil
}

// Close terminates the browser, it is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		err := chromedp.Cancel(s.ctx)
		if err != nil {
			s.tel.ReportWarning(report_browser_close, err)
		}
		s.cancelBrowser()
		s.cancelAlloc()
		s.tel.ReportDebug("browser closed")
	})
}

// run executes actions on the browser tab, bounded by ctx's deadline and cancellation.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(runCtx, deadline)
		defer cancel()
	}
	runCtx, cancel := context.WithCancel(runCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// selector translates a locator into a chromedp selector, bySearch reports
// whether it must be run as a DOM search (XPath) instead of a CSS query.
// Ids and names go through attribute selectors since ExtJS ids contain
// characters like ':' that are not valid in a bare #id selector.
func selector(l portal.Locator) (sel string, bySearch bool) {
	switch l.By {
	case portal.ByID:
		return fmt.Sprintf("[id=%s]", strconv.Quote(l.Value)), false
	case portal.ByName:
		return fmt.Sprintf("[name=%s]", strconv.Quote(l.Value)), false
	case portal.ByClass:
		return "." + l.Value, false
	case portal.ByXPath:
		return l.Value, true
	}
	return l.Value, false
}

func query(l portal.Locator, extra ...chromedp.QueryOption) (string, []chromedp.QueryOption) {
	sel, bySearch := selector(l)
	by := chromedp.ByQuery
	if bySearch {
		by = chromedp.BySearch
	}
	return sel, append([]chromedp.QueryOption{by}, extra...)
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *Session) WaitPresent(ctx context.Context, l portal.Locator) error {
	sel, opts := query(l)
	return s.run(ctx, chromedp.WaitReady(sel, opts...))
}

func (s *Session) WaitClickable(ctx context.Context, l portal.Locator) error {
	sel, opts := query(l)
	return s.run(ctx,
		chromedp.WaitVisible(sel, opts...),
		chromedp.WaitEnabled(sel, opts...),
	)
}

func (s *Session) Click(ctx context.Context, l portal.Locator) error {
	sel, opts := query(l, chromedp.NodeVisible)
	return s.run(ctx, chromedp.Click(sel, opts...))
}

func (s *Session) SendKeys(ctx context.Context, l portal.Locator, text string) error {
	sel, opts := query(l)
	return s.run(ctx, chromedp.SendKeys(sel, text, opts...))
}

func (s *Session) Evaluate(ctx context.Context, script string) error {
	return s.run(ctx, chromedp.Evaluate(script, nil))
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Screenshot captures the visible viewport as a PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}
