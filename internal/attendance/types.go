package attendance

import "fmt"

// PostedHours is the number of recorded hours after which a day counts as posted.
const PostedHours = 5

// NotAvailable is the placeholder for a period without a status.
const NotAvailable = "N/A"

// MonthRecord is the summary of one grid group.
type MonthRecord struct {
	Month   string `json:"month"`
	Percent string `json:"perc"`
	Present int    `json:"pres"`
	Total   int    `json:"total"`
}

// TodayStatus is the period-level status of the row matching today's date.
type TodayStatus struct {
	Posted bool   `json:"posted"`
	Hours  int    `json:"hours"`
	P1     string `json:"p1"`
	P2     string `json:"p2"`
	P3     string `json:"p3"`
	P4     string `json:"p4"`
	P5     string `json:"p5"`
	Found  bool   `json:"found"`
}

// NewTodayStatus returns the not-found status with every period set to N/A.
func NewTodayStatus() TodayStatus {
	return TodayStatus{
		P1: NotAvailable,
		P2: NotAvailable,
		P3: NotAvailable,
		P4: NotAvailable,
		P5: NotAvailable,
	}
}

// Periods returns P1 through P5 in order.
func (t TodayStatus) Periods() []string {
	return []string{t.P1, t.P2, t.P3, t.P4, t.P5}
}

// Report is everything scraped in one run.
type Report struct {
	Monthly            []MonthRecord `json:"monthly"`
	Overall            string        `json:"overall"`
	TotalPresent       int           `json:"total_p"`
	TotalInstructional int           `json:"total_i"`
	Today              TodayStatus   `json:"today"`
}

// FormatPercent renders present/total as "NN.NN%", or "0%" when total is 0.
func FormatPercent(present, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(present)/float64(total)*100)
}
