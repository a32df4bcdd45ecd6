package portal

import (
	"context"
	"time"

	"gnc-attendance/internal/components/assert"
	"gnc-attendance/internal/components/chrono"
	"gnc-attendance/internal/components/telemetry"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("gnc-attendance/internal/portal")

const DefaultURL = "https://gnc-egovernance.com/student/"

// elements of the portal, ExtJS ids and classes
var (
	UsernameField = Name("username")
	PasswordField = ID("passwd")
	SubmitButton  = XPath("//input[@type='submit']")
	LoginMarker   = ID("admenu")

	MastersMenu = CSS("button.masters")
	// the menu id is tried first, the label is the fallback when menu ids shift
	AttendanceItem = []Locator{
		ID("mnu-18:1"),
		XPath("//span[contains(text(), 'Student Attendance')]"),
	}
	AttendanceGrid = Class("x-grid3-body")
)

// expandGroupsScript clicks the header of every collapsed grid group.
const expandGroupsScript = `document.querySelectorAll('.x-grid-group-hd').forEach(function(h) {
	if (h.parentElement.classList.contains('x-grid-group-collapsed')) {
		h.click();
	}
});`

type Options struct {
	URL string
	// WaitTimeout bounds every wait for an element.
	WaitTimeout time.Duration
	// MenuDelay is slept after opening the menu.
	MenuDelay time.Duration
	// RenderDelay is slept after the grid appears, for its rows to render.
	RenderDelay time.Duration
	// ExpandDelay is slept after expanding collapsed groups.
	ExpandDelay time.Duration
}

// DefaultOptions are the waits the portal needs in practice.
func DefaultOptions() Options {
	return Options{
		URL:         DefaultURL,
		WaitTimeout: 15 * time.Second,
		MenuDelay:   2 * time.Second,
		RenderDelay: 5 * time.Second,
		ExpandDelay: 3 * time.Second,
	}
}

// Portal drives the student portal through a Page.
type Portal struct {
	page Page
	opts Options
	tel  telemetry.API
}

func New(page Page, opts Options, tel telemetry.API) Portal {
	assert.NotNil(page)
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.URL)
	assert.NonNegative(opts.WaitTimeout)
	assert.NonNegative(opts.MenuDelay)
	assert.NonNegative(opts.RenderDelay)
	assert.NonNegative(opts.ExpandDelay)

	return Portal{
		page: page,
		opts: opts,
		tel:  telemetry.NewScopedAPI("portal", tel),
	}
}

func (p Portal) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opts.WaitTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.opts.WaitTimeout)
}

func (p Portal) waitPresent(ctx context.Context, l Locator) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.page.WaitPresent(ctx, l)
}

func (p Portal) sendKeys(ctx context.Context, l Locator, text string) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.page.SendKeys(ctx, l, text)
}

func (p Portal) click(ctx context.Context, l Locator) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.page.Click(ctx, l)
}

// clickWhenReady waits for the element to be clickable and clicks it, both
// within a single wait timeout.
func (p Portal) clickWhenReady(ctx context.Context, l Locator) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	err := p.page.WaitClickable(ctx, l)
	if err != nil {
		return err
	}
	return p.page.Click(ctx, l)
}

func (p Portal) sleep(ctx context.Context, d time.Duration) error {
	return chrono.Sleep(ctx, d)
}
