package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gnc-attendance/internal/components/browser"
	"gnc-attendance/internal/components/configutil"
	"gnc-attendance/internal/components/db"
	"gnc-attendance/internal/components/telemetry"
	"gnc-attendance/internal/notify"
	"gnc-attendance/internal/portal"

	"dario.cat/mergo"
)

const defaultConfigName = "attendance.json5"

// WaitConfig holds every wait in seconds.
type WaitConfig struct {
	Timeout float64 `json:"timeout"`
	Menu    float64 `json:"menu"`
	Expand  float64 `json:"expand"`
	Render  float64 `json:"render"`
	Linger  float64 `json:"linger"`
	// Run bounds a whole run, 0 means unbounded.
	Run float64 `json:"run"`
}

type BrowserConfig struct {
	Headless   bool   `json:"headless"`
	ChromePath string `json:"chrome_path"`
	// Flags are Chrome switches layered over defaultBrowserFlags, true adds
	// a switch, false removes it and a string sets its value.
	Flags map[string]any `json:"flags"`
}

var defaultBrowserFlags = map[string]any{
	"start-maximized": true,
}

type HistoryConfig struct {
	Enabled  bool      `json:"enabled"`
	Database db.Config `json:"database"`
}

type Config struct {
	PortalURL string `json:"portal_url"`
	// Timezone decides what "today" is, empty means the system's.
	Timezone        string `json:"timezone"`
	CredentialsFile string `json:"credentials_file"`
	OutputFile      string `json:"output_file"`
	ScreenshotDir   string `json:"screenshot_dir"`
	// Schedule is a cron spec used by the schedule command.
	Schedule string `json:"schedule"`

	Browser   BrowserConfig        `json:"browser"`
	Waits     WaitConfig           `json:"waits"`
	History   HistoryConfig        `json:"history"`
	Smtp      notify.SmtpConfig    `json:"smtp"`
	Telemetry telemetry.OtlpConfig `json:"telemetry"`
}

func defaultConfig() Config {
	waits := portal.DefaultOptions()
	return Config{
		PortalURL:       portal.DefaultURL,
		CredentialsFile: "credentails.txt",
		OutputFile:      "attendance_final.json",
		ScreenshotDir:   "screenshots",
		Schedule:        "0 17 * * 1-6",
		Waits: WaitConfig{
			Timeout: waits.WaitTimeout.Seconds(),
			Menu:    waits.MenuDelay.Seconds(),
			Expand:  waits.ExpandDelay.Seconds(),
			Render:  waits.RenderDelay.Seconds(),
			Linger:  5,
		},
		History: HistoryConfig{
			Database: db.Config{File: "attendance.db"},
		},
	}
}

// loadConfig reads path, or searches upward for attendance.json5 when path
// is empty. Without any config file the defaults are used.
func loadConfig(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	if path == "" {
		cfg, err = configutil.ReadRecursively(defaultConfigName, defaultConfig())
	} else {
		cfg, err = configutil.ReadConfig(path, defaultConfig())
	}
	if os.IsNotExist(err) && path == "" {
		slog.Debug("no config file found, using defaults", "name", defaultConfigName)
		return defaultConfig(), nil
	}
	return cfg, err
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c Config) portalOptions() portal.Options {
	return portal.Options{
		URL:         c.PortalURL,
		WaitTimeout: seconds(c.Waits.Timeout),
		MenuDelay:   seconds(c.Waits.Menu),
		RenderDelay: seconds(c.Waits.Render),
		ExpandDelay: seconds(c.Waits.Expand),
	}
}

func (c Config) browserOptions() (browser.Options, error) {
	flags := map[string]any{}
	err := mergo.Merge(&flags, defaultBrowserFlags)
	if err != nil {
		return browser.Options{}, err
	}
	err = mergo.Merge(&flags, c.Browser.Flags, mergo.WithOverride)
	if err != nil {
		return browser.Options{}, fmt.Errorf("browser flags: %w", err)
	}
	return browser.Options{
		Headless: c.Browser.Headless,
		ExecPath: c.Browser.ChromePath,
		Flags:    flags,
	}, nil
}
