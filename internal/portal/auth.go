package portal

import (
	"context"
	"fmt"

	"gnc-attendance/internal/credentials"

	"go.opentelemetry.io/otel/codes"
)

const (
	report_portal_login = "portal.login"
)

// Login signs into the portal. Without valid credentials it does nothing,
// the following steps then run against a signed-out page.
func (p Portal) Login(ctx context.Context, creds credentials.Credentials) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if !creds.Valid() {
		p.tel.ReportWarning(report_portal_login, "credentials not found, skipping login")
		return nil
	}

	loginError := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.tel.ReportBroken(report_portal_login, err)
		return fmt.Errorf("login: %w", err)
	}

	p.tel.ReportDebug("navigating to portal", p.opts.URL)
	err := p.page.Navigate(ctx, p.opts.URL)
	if err != nil {
		return loginError(fmt.Errorf("navigate: %w", err))
	}

	err = p.waitPresent(ctx, UsernameField)
	if err != nil {
		return loginError(fmt.Errorf("wait for username field: %w", err))
	}
	err = p.sendKeys(ctx, UsernameField, creds.UserID)
	if err != nil {
		return loginError(fmt.Errorf("fill username: %w", err))
	}
	err = p.sendKeys(ctx, PasswordField, creds.Password)
	if err != nil {
		return loginError(fmt.Errorf("fill password: %w", err))
	}
	err = p.click(ctx, SubmitButton)
	if err != nil {
		return loginError(fmt.Errorf("submit: %w", err))
	}

	err = p.waitPresent(ctx, LoginMarker)
	if err != nil {
		return loginError(fmt.Errorf("wait for menu after login: %w", err))
	}

	p.tel.ReportDebug("login successful")
	return nil
}
