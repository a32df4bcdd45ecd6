package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gnc-attendance/internal/attendance"
)

// WriteFile writes the report as indented JSON, replacing any previous file.
func WriteFile(path string, r attendance.Report) error {
	contents, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	dir := filepath.Dir(path)
	if dir != "." {
		err = os.MkdirAll(dir, 0777)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	err = os.WriteFile(path, append(contents, '\n'), 0666)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadFile reads a report written by WriteFile.
func ReadFile(path string) (attendance.Report, error) {
	var r attendance.Report
	contents, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read report: %w", err)
	}
	err = json.Unmarshal(contents, &r)
	if err != nil {
		return r, fmt.Errorf("parse report %s: %w", path, err)
	}
	return r, nil
}
