package attendance

import (
	"fmt"
	"strings"
)

const testToday = "2026-10-18"

type fixtureGroup struct {
	title     string
	noTitle   bool
	summary   string
	noSummary bool
	rows      [][]string
	collapsed bool
}

// renderPage renders the markup an ExtJS grouping grid produces, reduced to
// the classes the extractor reads.
func renderPage(groups ...fixtureGroup) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="x-grid3"><div class="x-grid3-body">`)
	for _, g := range groups {
		class := "x-grid-group"
		if g.collapsed {
			class += " x-grid-group-collapsed"
		}
		fmt.Fprintf(&b, `<div class="%s">`, class)
		if !g.noTitle {
			fmt.Fprintf(&b, `<div class="x-grid-group-hd"><div class="x-grid-group-title"> %s </div></div>`, g.title)
		}
		b.WriteString(`<div class="x-grid-group-body">`)
		for _, row := range g.rows {
			b.WriteString(`<div class="x-grid3-row"><table><tr>`)
			for i, cell := range row {
				fmt.Fprintf(&b, `<td class="x-grid3-col x-grid3-cell x-grid3-td-%d"><div class="x-grid3-cell-inner x-grid3-col-%d">%s</div></td>`, i, i, cell)
			}
			b.WriteString(`</tr></table></div>`)
		}
		if !g.noSummary {
			fmt.Fprintf(&b, `<div class="x-grid3-summary-row"><table><tr><td>%s</td></tr></table></div>`, g.summary)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div></div></body></html>`)
	return b.String()
}

func summaryOf(total, absent, present int) string {
	return fmt.Sprintf(
		`<div class="x-grid3-cell-inner">Total</div><div>%d hours</div><div>%d hours</div><div>%d hours</div>`,
		total, absent, present,
	)
}
