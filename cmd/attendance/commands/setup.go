package commands

import (
	"context"
	"database/sql"
	"os"

	"gnc-attendance/internal/components/browser"
	"gnc-attendance/internal/components/chrono"
	"gnc-attendance/internal/components/db"
	"gnc-attendance/internal/components/telemetry"
	"gnc-attendance/internal/diagnostics"
	"gnc-attendance/internal/history"
	"gnc-attendance/internal/notify"
	"gnc-attendance/internal/report"
	"gnc-attendance/internal/runner"
)

// app is everything a command needs, built from the loaded config.
type app struct {
	time     chrono.StandardTime
	tel      telemetry.API
	database *sql.DB
	runner   runner.Runner
}

func (a app) Close() {
	if a.database != nil {
		a.database.Close()
	}
}

func openHistory(c Config) (*sql.DB, error) {
	return db.Open(c.History.Database, history.Schema)
}

func newApp() (app, error) {
	clock, err := chrono.NewStandardTime(cfg.Timezone)
	if err != nil {
		return app{}, err
	}
	tel := telemetry.SlogAPI{}
	out := app{time: clock, tel: tel}

	var hist runner.HistoryAPI
	if cfg.History.Enabled {
		out.database, err = openHistory(cfg)
		if err != nil {
			return app{}, err
		}
		hist = history.NewStore(out.database)
	}

	var notifier runner.NotifyAPI
	if cfg.Smtp.Enabled() {
		notifier = notify.NewEmailer(cfg.Smtp)
	}

	browserOpts, err := cfg.browserOptions()
	if err != nil {
		return app{}, err
	}
	out.runner = runner.New(runner.Options{
		Portal:          cfg.portalOptions(),
		CredentialsFile: cfg.CredentialsFile,
		OutputFile:      cfg.OutputFile,
		LingerDelay:     seconds(cfg.Waits.Linger),
		RunTimeout:      seconds(cfg.Waits.Run),
		Launch: func(ctx context.Context) (runner.Browser, error) {
			session, err := browser.Start(ctx, browserOpts, tel)
			if err != nil {
				return nil, err
			}
			return session, nil
		},
		Screenshots: diagnostics.NewScreenshots(cfg.ScreenshotDir, clock, tel),
		Console:     report.NewConsole(os.Stdout),
		Time:        clock,
		Tel:         tel,
		History:     hist,
		Notify:      notifier,
	})
	return out, nil
}
