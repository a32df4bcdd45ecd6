package runner

import (
	"context"
	"fmt"
	"time"

	"gnc-attendance/internal/attendance"
	"gnc-attendance/internal/components/assert"
	"gnc-attendance/internal/components/chrono"
	"gnc-attendance/internal/components/telemetry"
	"gnc-attendance/internal/credentials"
	"gnc-attendance/internal/diagnostics"
	"gnc-attendance/internal/portal"
	"gnc-attendance/internal/report"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("gnc-attendance/internal/runner")
	meter  = otel.Meter("gnc-attendance/internal/runner")
)

const (
	report_runner_credentials = "runner.credentials"
	report_runner_screenshots = "runner.screenshots"
	report_runner_failed      = "runner.failed"
	report_runner_history     = "runner.history"
	report_runner_notify      = "runner.notify"
	report_runner_gauge       = "runner.gauge"
	report_runner_months      = "runner.months"
)

const (
	checkpointAttendanceView = "attendance_view"
	checkpointFinalError     = "final_error"
)

// cleanupTimeout bounds the error screenshot and browser shutdown when the
// run's own context is already done.
const cleanupTimeout = 10 * time.Second

// Browser is a launched browser the pipeline drives.
type Browser interface {
	portal.Page
	diagnostics.Shooter
	Close()
}

type LaunchFunc func(ctx context.Context) (Browser, error)

// HistoryAPI keeps past reports.
type HistoryAPI interface {
	Push(ctx context.Context, t time.Time, r attendance.Report) error
}

// NotifyAPI delivers a finished report somewhere outside the console.
type NotifyAPI interface {
	Send(r attendance.Report, today string) error
}

type Options struct {
	Portal          portal.Options
	CredentialsFile string
	OutputFile      string
	// LingerDelay is slept before the browser is closed, on success and failure.
	LingerDelay time.Duration
	// RunTimeout bounds the whole run when positive.
	RunTimeout time.Duration

	Launch      LaunchFunc
	Screenshots diagnostics.Screenshots
	Console     report.Console
	Time        chrono.TimeAPI
	Tel         telemetry.API

	// History and Notify are optional.
	History HistoryAPI
	Notify  NotifyAPI
}

// Runner runs the whole scrape once per call to Run.
type Runner struct {
	opts  Options
	tel   telemetry.API
	gauge metric.Float64Gauge
}

func New(opts Options) Runner {
	assert.NotNil(opts.Launch)
	assert.NotNil(opts.Time)
	assert.NotNil(opts.Tel)
	assert.NotEmptyStr(opts.OutputFile)
	assert.NotEmptyStr(opts.Screenshots.Dir())
	assert.NonNegative(opts.LingerDelay)
	assert.NonNegative(opts.RunTimeout)

	tel := telemetry.NewScopedAPI("runner", opts.Tel)

	gauge, err := meter.Float64Gauge(
		"attendance.overall",
		metric.WithDescription("Overall attendance percentage of the last run."),
		metric.WithUnit("%"),
	)
	if err != nil {
		tel.ReportBroken(report_runner_gauge, err)
	}

	return Runner{
		opts:  opts,
		tel:   tel,
		gauge: gauge,
	}
}

// loadCredentials reads the credentials file, falling back to the environment.
// It returns the zero Credentials when neither has any.
func (r Runner) loadCredentials() credentials.Credentials {
	creds, err := credentials.Load(r.opts.CredentialsFile)
	if err == nil {
		return creds
	}
	env := credentials.FromEnv()
	if env.Valid() {
		r.tel.ReportDebug("using credentials from environment", err.Error())
		return env
	}
	r.tel.ReportWarning(report_runner_credentials, err)
	return credentials.Credentials{}
}

// Run logs in, reads the attendance grid and writes the report. Errors are
// reported and an error screenshot is attempted before returning.
func (r Runner) Run(ctx context.Context) (attendance.Report, error) {
	if r.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.RunTimeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	fail := func(err error) (attendance.Report, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.tel.ReportBroken(report_runner_failed, err)
		r.opts.Console.Error(err)
		return attendance.Report{}, err
	}

	r.opts.Console.Banner("GNC STUDENT ATTENDANCE")

	err := r.opts.Screenshots.Reset()
	if err != nil {
		r.tel.ReportWarning(report_runner_screenshots, err)
	}

	creds := r.loadCredentials()

	// the browser outlives ctx so the failure screenshot can still be taken,
	// close ends it on every path
	browser, err := r.opts.Launch(context.WithoutCancel(ctx))
	if err != nil {
		return fail(fmt.Errorf("launch browser: %w", err))
	}
	defer r.close(ctx, browser)

	today := r.opts.Time.Now().Format("2006-01-02")
	span.SetAttributes(attribute.String("today", today))

	result, err := r.scrape(ctx, browser, creds, today)
	if err != nil {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		_, shotErr := r.opts.Screenshots.Capture(cleanupCtx, browser, checkpointFinalError)
		if shotErr != nil {
			r.tel.ReportWarning(report_runner_screenshots, shotErr)
		}
		return fail(err)
	}

	r.publish(ctx, result, today)
	return result, nil
}

func (r Runner) scrape(ctx context.Context, browser Browser, creds credentials.Credentials, today string) (attendance.Report, error) {
	p := portal.New(browser, r.opts.Portal, r.opts.Tel)

	r.opts.Console.Section("LOGGING IN")
	err := p.Login(ctx, creds)
	if err != nil {
		return attendance.Report{}, err
	}

	r.opts.Console.Section("OPENING ATTENDANCE")
	err = p.OpenAttendance(ctx)
	if err != nil {
		return attendance.Report{}, err
	}
	_, err = r.opts.Screenshots.Capture(ctx, browser, checkpointAttendanceView)
	if err != nil {
		r.tel.ReportWarning(report_runner_screenshots, err)
	}

	r.opts.Console.Section("EXTRACTING DATA")
	html, err := p.SnapshotGrid(ctx)
	if err != nil {
		return attendance.Report{}, err
	}
	groups, err := attendance.ParseGroups(html, today)
	if err != nil {
		return attendance.Report{}, fmt.Errorf("parse grid: %w", err)
	}
	result := attendance.Aggregate(groups, r.opts.Tel)
	r.tel.ReportCount(report_runner_months, int64(len(result.Monthly)))

	r.opts.Console.Summary(result, today)

	err = report.WriteFile(r.opts.OutputFile, result)
	if err != nil {
		return attendance.Report{}, err
	}
	r.tel.ReportDebug("report written", r.opts.OutputFile)
	return result, nil
}

// publish records a finished report in history, metrics and notifications.
// None of them can fail the run.
func (r Runner) publish(ctx context.Context, result attendance.Report, today string) {
	if r.gauge != nil && result.TotalInstructional > 0 {
		overall := float64(result.TotalPresent) / float64(result.TotalInstructional) * 100
		r.gauge.Record(ctx, overall, metric.WithAttributes(attribute.Bool("today_posted", result.Today.Posted)))
	}

	if r.opts.History != nil {
		err := r.opts.History.Push(ctx, r.opts.Time.Now(), result)
		if err != nil {
			r.tel.ReportWarning(report_runner_history, err)
		}
	}
	if r.opts.Notify != nil {
		err := r.opts.Notify.Send(result, today)
		if err != nil {
			r.tel.ReportWarning(report_runner_notify, err)
		}
	}
}

// close keeps the browser open for LingerDelay, then shuts it down.
func (r Runner) close(ctx context.Context, browser Browser) {
	r.tel.ReportDebug("closing browser", r.opts.LingerDelay.String())
	_ = chrono.Sleep(ctx, r.opts.LingerDelay)
	browser.Close()
}
