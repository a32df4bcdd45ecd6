package report

import (
	"fmt"
	"io"
	"strings"

	"gnc-attendance/internal/attendance"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Console prints progress banners and the final summary. Its output is for
// people, nothing should parse it.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) Console {
	return Console{w: w}
}

// NewTable returns a table that renders into the console.
func (c Console) NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(c.w)
	return t
}

func (c Console) Banner(title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(c.w, rule)
	fmt.Fprintln(c.w, title)
	fmt.Fprintln(c.w, rule)
}

func (c Console) Section(title string) {
	fmt.Fprintf(c.w, "\n=== %s ===\n", title)
}

func (c Console) Error(err error) {
	fmt.Fprintf(c.w, "\n[ERROR] %s\n", err)
}

// Summary prints overall stats, the monthly breakdown and today's status.
// today is the date that was searched for, formatted as YYYY-MM-DD.
func (c Console) Summary(r attendance.Report, today string) {
	fmt.Fprintf(c.w, "\nOVERALL ATTENDANCE: %s\n", r.Overall)
	fmt.Fprintf(c.w, "Total: %d / %d hours\n\n", r.TotalPresent, r.TotalInstructional)

	fmt.Fprintln(c.w, "MONTHLY DETAILS:")
	if len(r.Monthly) == 0 {
		fmt.Fprintln(c.w, " (no months found)")
	} else {
		t := c.NewTable()
		t.AppendHeader(table.Row{"Month", "Attendance", "Present", "Total"})
		for _, m := range r.Monthly {
			t.AppendRow(table.Row{m.Month, m.Percent, m.Present, m.Total})
		}
		t.Render()
	}

	rule := strings.Repeat("*", 40)
	fmt.Fprintln(c.w, "\n"+rule)
	fmt.Fprintf(c.w, "TODAY (%s) CHECK:\n", today)
	if !r.Today.Found {
		fmt.Fprintln(c.w, "Status: [X] - DATE NOT FOUND IN TABLE")
	} else {
		status := "NO, 5 hours not fully posted yet. [X]"
		if r.Today.Posted {
			status = "YES, 5 hours posted! [OK]"
		}
		fmt.Fprintf(c.w, "Status: %s\n", status)
		fmt.Fprintf(c.w, "Hours recorded: %d\n", r.Today.Hours)
		for i, p := range r.Today.Periods() {
			fmt.Fprintf(c.w, "Period %d: %s\n", i+1, p)
		}
	}
	fmt.Fprintln(c.w, rule)
}
