// Package report renders finalized aggregation totals into the tab-separated
// output contract and writes the result files. Rendering is pure; writing is
// a thin layer on top.
package report

import (
	"strconv"
	"strings"

	"awardstats/internal/aggregate"
	"awardstats/internal/core"
)

// Column order of the per-state summary. The grand-total file uses the same
// order minus NonProfit: non-profit totals are state-year-local only and are
// never rolled into the multi-year file.
var (
	stateSummaryCategories = []core.Category{
		core.SmallBusiness,
		core.WomanOwned,
		core.MinorityOwned,
		core.Educational,
		core.StateUniversity,
		core.HBCU,
		core.NonProfit,
		core.Grant,
	}

	grandTotalCategories = []core.Category{
		core.SmallBusiness,
		core.WomanOwned,
		core.MinorityOwned,
		core.Educational,
		core.StateUniversity,
		core.HBCU,
		core.Grant,
	}

	categoryTitles = map[core.Category]string{
		core.SmallBusiness:   "Small Business",
		core.WomanOwned:      "Woman Owned",
		core.MinorityOwned:   "Minority Owned",
		core.Educational:     "Educational",
		core.StateUniversity: "Public University",
		core.HBCU:            "HBCU",
		core.NonProfit:       "Non-Profit",
		core.Grant:           "Research Grant",
	}
)

// FormatDollars renders an obligation sum as "$<integer>": no thousands
// separators, no decimals, truncated rather than rounded.
func FormatDollars(v int64) string {
	if v < 0 {
		return "-$" + strconv.FormatInt(-v, 10)
	}
	return "$" + strconv.FormatInt(v, 10)
}

// StateSummaryHeader returns the header row of a per-fiscal-year state
// summary file.
func StateSummaryHeader() []string {
	return summaryHeader("State", stateSummaryCategories)
}

// GrandTotalHeader returns the header row of the multi-year totals file.
func GrandTotalHeader() []string {
	return summaryHeader("Fiscal Years", grandTotalCategories)
}

func summaryHeader(first string, cats []core.Category) []string {
	row := []string{first, "Recipients", "Obligations"}
	for _, cat := range cats {
		title := categoryTitles[cat]
		row = append(row, title, title+" Obligations")
	}
	return row
}

// StateSummaryRow renders one state's closed totals in the fixed column
// order of the summary contract.
func StateSummaryRow(state string, t aggregate.Totals) []string {
	return summaryRow(state, t, stateSummaryCategories)
}

// GrandTotalRow renders the multi-year totals, labeled with the covered
// fiscal-year span.
func GrandTotalRow(span string, t aggregate.Totals) []string {
	return summaryRow(span, t, grandTotalCategories)
}

func summaryRow(label string, t aggregate.Totals, cats []core.Category) []string {
	row := []string{
		label,
		strconv.Itoa(t.Recipients[core.AllRecipients]),
		FormatDollars(t.Obligations[core.AllRecipients]),
	}
	for _, cat := range cats {
		row = append(row,
			strconv.Itoa(t.Recipients[cat]),
			FormatDollars(t.Obligations[cat]))
	}
	return row
}

// RenderTSV joins rows into tab-separated text with one trailing newline
// per row.
func RenderTSV(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}
