package portal

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_portal_open_attendance = "portal.open-attendance"
	report_portal_snapshot_grid   = "portal.snapshot-grid"
)

// OpenAttendance goes from the dashboard to the rendered attendance grid.
func (p Portal) OpenAttendance(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "OpenAttendance")
	defer span.End()

	navError := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.tel.ReportBroken(report_portal_open_attendance, err)
		return fmt.Errorf("open attendance: %w", err)
	}

	p.tel.ReportDebug("opening masters menu")
	err := p.clickWhenReady(ctx, MastersMenu)
	if err != nil {
		return navError(fmt.Errorf("masters menu: %w", err))
	}
	err = p.sleep(ctx, p.opts.MenuDelay)
	if err != nil {
		return navError(err)
	}

	p.tel.ReportDebug("clicking student attendance")
	used, err := FirstOf(ctx, p.clickWhenReady, AttendanceItem...)
	if err != nil {
		return navError(fmt.Errorf("attendance menu item: %w", err))
	}
	if used != AttendanceItem[0] {
		p.tel.ReportWarning(report_portal_open_attendance, "primary attendance locator failed, used fallback", used.String())
	}
	span.AddEvent("attendance menu clicked", trace.WithAttributes(
		attribute.String("locator", used.String()),
		attribute.Bool("fallback", used != AttendanceItem[0]),
	))

	p.tel.ReportDebug("waiting for attendance grid")
	err = p.waitPresent(ctx, AttendanceGrid)
	if err != nil {
		return navError(fmt.Errorf("wait for grid: %w", err))
	}
	err = p.sleep(ctx, p.opts.RenderDelay)
	if err != nil {
		return navError(err)
	}
	return nil
}

// SnapshotGrid expands every collapsed month group and returns the rendered page.
func (p Portal) SnapshotGrid(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "SnapshotGrid")
	defer span.End()

	snapshotError := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.tel.ReportBroken(report_portal_snapshot_grid, err)
		return fmt.Errorf("snapshot grid: %w", err)
	}

	p.tel.ReportDebug("expanding month groups")
	err := p.page.Evaluate(ctx, expandGroupsScript)
	if err != nil {
		return "", snapshotError(fmt.Errorf("expand groups: %w", err))
	}
	err = p.sleep(ctx, p.opts.ExpandDelay)
	if err != nil {
		return "", snapshotError(err)
	}

	html, err := p.page.HTML(ctx)
	if err != nil {
		return "", snapshotError(fmt.Errorf("read page: %w", err))
	}
	span.AddEvent("grid captured", trace.WithAttributes(attribute.Int("html_bytes", len(html))))
	return html, nil
}
