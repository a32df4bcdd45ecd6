package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gnc-attendance/internal/attendance"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleReport() attendance.Report {
	return attendance.Report{
		Monthly: []attendance.MonthRecord{
			{Month: "August 2026", Percent: "90.00%", Present: 18, Total: 20},
			{Month: "September 2026", Percent: "100.00%", Present: 10, Total: 10},
		},
		Overall:            "93.33%",
		TotalPresent:       28,
		TotalInstructional: 30,
		Today: attendance.TodayStatus{
			Posted: true,
			Hours:  5,
			P1:     "P",
			P2:     "A",
			P3:     "P",
			P4:     "P",
			P5:     "-",
			Found:  true,
		},
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance_final.json")

	// an older, longer file must be fully replaced
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 4096), 0666))

	for _, r := range []attendance.Report{
		sampleReport(),
		{Monthly: []attendance.MonthRecord{}, Overall: "0%", Today: attendance.NewTodayStatus()},
	} {
		require.NoError(t, WriteFile(path, r))
		parsed, err := ReadFile(path)
		require.NoError(t, err)
		if diff := cmp.Diff(r, parsed); diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestWriteFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "attendance_final.json")
	require.NoError(t, WriteFile(path, sampleReport()))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "\n  \"monthly\": [\n")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(contents, &doc))

	require.ElementsMatch(t, []string{"monthly", "overall", "total_p", "total_i", "today"}, mapKeys(doc))

	today := doc["today"].(map[string]any)
	require.ElementsMatch(t,
		[]string{"posted", "hours", "p1", "p2", "p3", "p4", "p5", "found"},
		mapKeys(today),
	)
	month := doc["monthly"].([]any)[0].(map[string]any)
	require.ElementsMatch(t, []string{"month", "perc", "pres", "total"}, mapKeys(month))
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestConsoleSummary(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(&out)
	console.Summary(sampleReport(), "2026-10-18")

	text := out.String()
	require.Contains(t, text, "OVERALL ATTENDANCE: 93.33%")
	require.Contains(t, text, "Total: 28 / 30 hours")
	require.Contains(t, text, "August 2026")
	require.Contains(t, text, "90.00%")
	require.Contains(t, text, "TODAY (2026-10-18) CHECK:")
	require.Contains(t, text, "Status: YES, 5 hours posted! [OK]")
	require.Contains(t, text, "Period 5: -")
}

func TestConsoleSummaryNotFound(t *testing.T) {
	var out bytes.Buffer
	r := attendance.Report{Monthly: []attendance.MonthRecord{}, Overall: "0%", Today: attendance.NewTodayStatus()}
	NewConsole(&out).Summary(r, "2026-10-18")

	text := out.String()
	require.Contains(t, text, "(no months found)")
	require.Contains(t, text, "Status: [X] - DATE NOT FOUND IN TABLE")
	require.NotContains(t, text, "Period 1")
}

func TestConsoleNotPosted(t *testing.T) {
	var out bytes.Buffer
	r := sampleReport()
	r.Today.Hours = 4
	r.Today.Posted = false
	NewConsole(&out).Summary(r, "2026-10-18")
	require.Contains(t, out.String(), "Status: NO, 5 hours not fully posted yet. [X]")
	require.Contains(t, out.String(), "Hours recorded: 4")
}
