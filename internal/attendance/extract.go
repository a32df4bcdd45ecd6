package attendance

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gnc-attendance/internal/components/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// css classes of the ExtJS grouping grid
const (
	classGroup       = ".x-grid-group"
	classGroupTitle  = ".x-grid-group-title"
	classSummaryRow  = ".x-grid3-summary-row"
	classRow         = ".x-grid3-row"
	classCellInner   = ".x-grid3-cell-inner"
	minimumRowCells  = 7
	minimumHourTotal = 3
)

var (
	hoursRegex   = regexp.MustCompile(`(\d+)\s+hours`)
	integerRegex = regexp.MustCompile(`\d+`)
)

var (
	ErrMissingTitle      = errors.New("group title not found")
	ErrMissingSummaryRow = errors.New("group summary row not found")
)

// GroupResult is the outcome of reading one grid group.
//
// Month is nil when the summary row had fewer than 3 hour totals or the group
// failed before its summary was read. Today is the last row in the group that
// matched today's date. Err is set when the group could not be read completely,
// whatever was read before the failure is kept.
type GroupResult struct {
	Title string
	// HourTotals is the amount of "<N> hours" tokens found in the summary row.
	HourTotals int
	Month      *MonthRecord
	Today      *TodayStatus
	// TodayMatches counts the rows whose date contained today's date.
	TodayMatches int
	Err          error
}

// Skipped reports whether the group contributes nothing to the monthly totals.
func (g GroupResult) Skipped() bool {
	return g.Month == nil
}

// ParseGroups reads every grid group out of a rendered attendance page.
// today is matched as a substring of each row's date cell, it is expected
// to be formatted as YYYY-MM-DD.
func ParseGroups(html string, today string) ([]GroupResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse attendance page: %w", err)
	}

	var results []GroupResult
	doc.Find(classGroup).Each(func(_ int, group *goquery.Selection) {
		results = append(results, parseGroup(group, today))
	})
	return results, nil
}

// text is the element's textContent with surrounding whitespace trimmed.
func text(sel *goquery.Selection) string {
	return htmlutil.Strip(htmlutil.TextContent(sel))
}

// searchableText is text with whitespace runs collapsed, for regex matching.
func searchableText(sel *goquery.Selection) string {
	return htmlutil.Normalize(htmlutil.TextContent(sel))
}

func parseGroup(group *goquery.Selection, today string) GroupResult {
	var result GroupResult

	title := group.Find(classGroupTitle).First()
	if title.Length() == 0 {
		result.Err = ErrMissingTitle
		return result
	}
	result.Title = text(title)

	summary := group.Find(classSummaryRow).First()
	if summary.Length() == 0 {
		result.Err = ErrMissingSummaryRow
		return result
	}
	month, totals, err := parseSummary(result.Title, searchableText(summary))
	result.HourTotals = totals
	if err != nil {
		result.Err = err
		return result
	}
	result.Month = month

	group.Find(classRow).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find(classCellInner)
		if cells.Length() == 0 {
			return true
		}
		date := text(cells.Eq(0))
		if !strings.Contains(date, today) {
			return true
		}

		status, err := parseTodayRow(cells)
		if err != nil {
			result.Err = fmt.Errorf("row %q: %w", date, err)
			return false
		}
		result.Today = &status
		result.TodayMatches++
		return true
	})

	return result
}

// parseSummary reads (total, absent, present) out of the first three
// "<N> hours" tokens. A nil month with a nil error means there were too few tokens.
func parseSummary(title, summary string) (*MonthRecord, int, error) {
	matches := hoursRegex.FindAllStringSubmatch(summary, -1)
	if len(matches) < minimumHourTotal {
		return nil, len(matches), nil
	}

	total, err := strconv.Atoi(matches[0][1])
	if err != nil {
		return nil, len(matches), fmt.Errorf("total hours: %w", err)
	}
	present, err := strconv.Atoi(matches[2][1])
	if err != nil {
		return nil, len(matches), fmt.Errorf("present hours: %w", err)
	}

	return &MonthRecord{
		Month:   title,
		Percent: FormatPercent(present, total),
		Present: present,
		Total:   total,
	}, len(matches), nil
}

func period(cells *goquery.Selection, idx int) string {
	value := text(cells.Eq(idx))
	if value == "" {
		return NotAvailable
	}
	return value
}

func parseTodayRow(cells *goquery.Selection) (TodayStatus, error) {
	if cells.Length() < minimumRowCells {
		return TodayStatus{}, fmt.Errorf("expected at least %d cells, got %d", minimumRowCells, cells.Length())
	}

	hours := 0
	if token := integerRegex.FindString(searchableText(cells.Eq(6))); token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil {
			return TodayStatus{}, fmt.Errorf("hours: %w", err)
		}
		hours = parsed
	}

	return TodayStatus{
		P1:     period(cells, 1),
		P2:     period(cells, 2),
		P3:     period(cells, 3),
		P4:     period(cells, 4),
		P5:     period(cells, 5),
		Hours:  hours,
		Found:  true,
		Posted: hours >= PostedHours,
	}, nil
}
