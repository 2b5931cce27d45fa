package attribution

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RankedEntry is one line of the final report.
type RankedEntry struct {
	Key     KeywordAttribution
	Revenue float64
}

// Ranked orders totals by revenue descending. Ties break deterministically by engine
// domain, then keyword, so repeated runs over the same input render identical reports.
func Ranked(totals map[KeywordAttribution]float64) []RankedEntry {
	entries := make([]RankedEntry, 0, len(totals))
	for k, v := range totals {
		entries = append(entries, RankedEntry{Key: k, Revenue: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Revenue != entries[j].Revenue {
			return entries[i].Revenue > entries[j].Revenue
		}
		if entries[i].Key.EngineDomain != entries[j].Key.EngineDomain {
			return entries[i].Key.EngineDomain < entries[j].Key.EngineDomain
		}
		return entries[i].Key.Keyword < entries[j].Key.Keyword
	})
	return entries
}

// RenderTSV renders ranked entries as the tab-separated report, revenue formatted to
// two decimal places.
func RenderTSV(ranked []RankedEntry) string {
	var b strings.Builder
	b.WriteString("Search Engine Domain\tSearch Keyword\tRevenue\n")
	for _, e := range ranked {
		fmt.Fprintf(&b, "%s\t%s\t%.2f\n", e.Key.EngineDomain, e.Key.Keyword, e.Revenue)
	}
	return b.String()
}

// DefaultOutputFilename builds the dated report filename, e.g.
// "2026-02-15_SearchKeywordPerformance.tab", using the date of now in the given
// timezone. The clock is an explicit input so callers stay testable.
func DefaultOutputFilename(tz string, now time.Time) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("loading report timezone %q: %w", tz, err)
	}
	return now.In(loc).Format("2006-01-02") + "_SearchKeywordPerformance.tab", nil
}
