package diagnostics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gnc-attendance/internal/components/assert"
	"gnc-attendance/internal/components/chrono"
	"gnc-attendance/internal/components/telemetry"
)

const (
	report_screenshots_reset   = "screenshots.reset"
	report_screenshots_capture = "screenshots.capture"
)

// timestampLayout is YYYYMMDD_HHMMSS
const timestampLayout = "20060102_150405"

// Shooter is anything that can capture a PNG of what it is displaying.
type Shooter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Screenshots writes labelled, timestamped screenshots into a directory.
type Screenshots struct {
	dir  string
	time chrono.TimeAPI
	tel  telemetry.API
}

func NewScreenshots(dir string, time chrono.TimeAPI, tel telemetry.API) Screenshots {
	assert.NotEmptyStr(dir)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Screenshots{
		dir:  dir,
		time: time,
		tel:  telemetry.NewScopedAPI("diagnostics", tel),
	}
}

func (s Screenshots) Dir() string {
	return s.dir
}

// Reset removes every previous screenshot and recreates the directory.
func (s Screenshots) Reset() error {
	err := os.RemoveAll(s.dir)
	if err != nil {
		s.tel.ReportBroken(report_screenshots_reset, err, s.dir)
		return fmt.Errorf("reset screenshots: %w", err)
	}
	err = os.MkdirAll(s.dir, 0777)
	if err != nil {
		s.tel.ReportBroken(report_screenshots_reset, err, s.dir)
		return fmt.Errorf("reset screenshots: %w", err)
	}
	return nil
}

// Path returns where a screenshot with the given label taken now would be written.
func (s Screenshots) Path(label string) string {
	name := fmt.Sprintf("%s_%s.png", label, s.time.Now().Format(timestampLayout))
	return filepath.Join(s.dir, name)
}

// Capture takes a screenshot and writes it as <dir>/<label>_<YYYYMMDD_HHMMSS>.png.
func (s Screenshots) Capture(ctx context.Context, shooter Shooter, label string) (string, error) {
	path := s.Path(label)

	buf, err := shooter.Screenshot(ctx)
	if err != nil {
		s.tel.ReportBroken(report_screenshots_capture, err, label)
		return "", fmt.Errorf("capture screenshot %s: %w", label, err)
	}
	err = os.WriteFile(path, buf, 0666)
	if err != nil {
		s.tel.ReportBroken(report_screenshots_capture, err, path)
		return "", fmt.Errorf("write screenshot %s: %w", label, err)
	}

	s.tel.ReportDebug("screenshot saved", path)
	return path, nil
}
