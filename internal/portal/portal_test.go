package portal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gnc-attendance/internal/components/telemetry"
	"gnc-attendance/internal/credentials"

	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.URL = "https://portal.test/student/"
	opts.WaitTimeout = time.Second
	opts.MenuDelay = 0
	opts.RenderDelay = 0
	opts.ExpandDelay = 0
	return opts
}

// loginPage is a fake portal where submitting the form reveals the admin menu.
func loginPage() *fakePage {
	page := newFakePage()
	page.add(UsernameField, true)
	page.add(PasswordField, true)
	page.add(SubmitButton, true)
	page.revealOnClick[SubmitButton] = []Locator{LoginMarker, MastersMenu}
	return page
}

func TestLogin(t *testing.T) {
	page := loginPage()
	tel := &telemetry.MemoryAPI{}
	p := New(page, testOptions(), tel)

	err := p.Login(context.Background(), credentials.Credentials{UserID: "22BCA101", Password: "hunter2"})
	require.NoError(t, err)

	require.Equal(t, "22BCA101", page.typed[UsernameField])
	require.Equal(t, "hunter2", page.typed[PasswordField])
	require.Equal(t, []string{
		"navigate https://portal.test/student/",
		"wait-present name=username",
		"send-keys name=username",
		"send-keys id=passwd",
		"click xpath=//input[@type='submit']",
		"wait-present id=admenu",
	}, page.calls)
	require.Empty(t, tel.Find(telemetry.LevelBroken, report_portal_login))
}

func TestLoginWithoutCredentials(t *testing.T) {
	page := loginPage()
	tel := &telemetry.MemoryAPI{}
	p := New(page, testOptions(), tel)

	err := p.Login(context.Background(), credentials.Credentials{})
	require.NoError(t, err)
	require.Empty(t, page.calls)
	require.Len(t, tel.Find(telemetry.LevelWarning, report_portal_login), 1)
}

func TestLoginMarkerNeverAppears(t *testing.T) {
	page := loginPage()
	page.revealOnClick = map[Locator][]Locator{}
	tel := &telemetry.MemoryAPI{}
	p := New(page, testOptions(), tel)

	err := p.Login(context.Background(), credentials.Credentials{UserID: "u", Password: "p"})
	require.ErrorIs(t, err, errNotFound)
	require.Len(t, tel.Find(telemetry.LevelBroken, report_portal_login), 1)
}

func TestLoginNavigateFails(t *testing.T) {
	page := loginPage()
	page.navigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	p := New(page, testOptions(), &telemetry.MemoryAPI{})

	err := p.Login(context.Background(), credentials.Credentials{UserID: "u", Password: "p"})
	require.ErrorIs(t, err, page.navigateErr)
}

// dashboardPage is a fake portal that is already signed in.
func dashboardPage(items ...Locator) *fakePage {
	page := newFakePage()
	page.add(LoginMarker, false)
	page.add(MastersMenu, true)
	page.revealOnClick[MastersMenu] = items
	for _, item := range items {
		page.revealOnClick[item] = []Locator{AttendanceGrid}
	}
	return page
}

func TestOpenAttendancePrimaryLocator(t *testing.T) {
	page := dashboardPage(AttendanceItem...)
	tel := &telemetry.MemoryAPI{}
	p := New(page, testOptions(), tel)

	err := p.OpenAttendance(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"wait-clickable css=button.masters",
		"click css=button.masters",
		"wait-clickable id=mnu-18:1",
		"click id=mnu-18:1",
		"wait-present class=x-grid3-body",
	}, page.calls)
	require.Empty(t, tel.Find(telemetry.LevelWarning, report_portal_open_attendance))
}

func TestOpenAttendanceFallbackLocator(t *testing.T) {
	page := dashboardPage(AttendanceItem[1])
	tel := &telemetry.MemoryAPI{}
	p := New(page, testOptions(), tel)

	err := p.OpenAttendance(context.Background())
	require.NoError(t, err)
	require.Contains(t, page.calls, "wait-clickable id=mnu-18:1")
	require.Contains(t, page.calls, "click xpath=//span[contains(text(), 'Student Attendance')]")
	require.Len(t, tel.Find(telemetry.LevelWarning, report_portal_open_attendance), 1)
}

func TestOpenAttendanceBothLocatorsFail(t *testing.T) {
	page := dashboardPage()
	tel := &telemetry.MemoryAPI{}
	p := New(page, testOptions(), tel)

	err := p.OpenAttendance(context.Background())
	require.ErrorIs(t, err, errNotFound)
	require.ErrorContains(t, err, "id=mnu-18:1")
	require.ErrorContains(t, err, "xpath=")
	require.Len(t, tel.Find(telemetry.LevelBroken, report_portal_open_attendance), 1)
}

func TestOpenAttendanceSignedOut(t *testing.T) {
	page := loginPage()
	p := New(page, testOptions(), &telemetry.MemoryAPI{})

	// login is skipped, so the menu never shows up
	require.NoError(t, p.Login(context.Background(), credentials.Credentials{}))
	err := p.OpenAttendance(context.Background())
	require.ErrorIs(t, err, errNotFound)
}

func TestSnapshotGrid(t *testing.T) {
	page := newFakePage()
	page.html = `<html><body><div class="x-grid3-body"></div></body></html>`
	p := New(page, testOptions(), &telemetry.MemoryAPI{})

	html, err := p.SnapshotGrid(context.Background())
	require.NoError(t, err)
	require.Equal(t, page.html, html)
	require.Equal(t, []string{"evaluate", "html"}, page.calls)
}

func TestFirstOf(t *testing.T) {
	_, err := FirstOf(context.Background(), func(context.Context, Locator) error { return nil })
	require.Error(t, err)

	var tried []Locator
	used, err := FirstOf(context.Background(), func(_ context.Context, l Locator) error {
		tried = append(tried, l)
		if l.By == ByXPath {
			return nil
		}
		return errNotFound
	}, ID("a"), XPath("//b"), CSS("c"))
	require.NoError(t, err)
	require.Equal(t, XPath("//b"), used)
	require.Equal(t, []Locator{ID("a"), XPath("//b")}, tried)
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	res, err := Check(context.Background(), server.URL+"/student/", time.Second*5)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Status)
	require.True(t, res.Reachable())

	res, err = Check(context.Background(), server.URL+"/down", time.Second*5)
	require.NoError(t, err)
	require.False(t, res.Reachable())
}
