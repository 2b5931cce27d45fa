package attribution

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ignite/search-attribution/internal/hitdata"
	"github.com/ignite/search-attribution/internal/pkg/logger"
)

// requiredFields must be present in the source schema before any row is processed.
var requiredFields = []string{
	hitdata.FieldIP,
	hitdata.FieldUserAgent,
	hitdata.FieldReferrer,
	hitdata.FieldEventList,
	hitdata.FieldProductList,
}

// Analyzer is the streaming attribution engine.
//
//   - Visitor identity = ip + "|" + user_agent.
//   - Last-touch attribution: a purchase is credited to the most recent external
//     search seen for that visitor, in arrival order.
//   - Internal hosts are excluded from search.
//   - Purchase = event_list contains event "1".
//   - Revenue is summed from the 4th semicolon field of each product_list item.
//
// The analyzer exclusively owns its maps and counters; all mutation happens through
// ProcessRow, so a single-goroutine run needs no locking. State lives for one run only.
type Analyzer struct {
	classifier *Classifier
	lastTouch  map[string]KeywordAttribution
	totals     map[KeywordAttribution]float64
	stats      Counters
}

// NewAnalyzer returns an analyzer that treats internalHosts (and their subdomains) as
// non-attributable internal traffic.
func NewAnalyzer(internalHosts []string) *Analyzer {
	return &Analyzer{
		classifier: NewClassifier(internalHosts),
		lastTouch:  make(map[string]KeywordAttribution),
		totals:     make(map[KeywordAttribution]float64),
	}
}

// Run validates the source schema, consumes every row in arrival order, and returns a
// snapshot of the accumulated totals. A missing schema column is the only condition
// that fails the run; every per-row anomaly is absorbed into the counters.
func (a *Analyzer) Run(src hitdata.RowSource) (map[KeywordAttribution]float64, error) {
	if err := ValidateSchema(src.Fields()); err != nil {
		return nil, err
	}

	logger.Info("starting keyword attribution run")

	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", a.stats.RowsSeen+1, err)
		}
		a.ProcessRow(row)
	}

	a.logSummary()
	return a.Totals(), nil
}

// ProcessRow applies one row to the engine state. Rows must be supplied in arrival
// order: last-touch correctness depends on it.
func (a *Analyzer) ProcessRow(row hitdata.Row) {
	a.stats.RowsSeen++
	visitor := visitorKey(row)

	// A search referrer updates last touch before the purchase check, so a purchase
	// row whose own referrer qualifies is attributed to itself.
	referrer := strings.TrimSpace(row.Field(hitdata.FieldReferrer))
	if referrer != "" {
		if hit, ok := a.classifier.Classify(referrer); ok {
			a.lastTouch[visitor] = hit
			a.stats.SearchReferrersSeen++
		}
	}

	eventList := strings.TrimSpace(row.Field(hitdata.FieldEventList))
	if !IsPurchase(eventList) {
		return
	}
	a.stats.PurchasesSeen++

	revenue, malformed := PurchaseRevenue(strings.TrimSpace(row.Field(hitdata.FieldProductList)))
	a.stats.BadRevenueValues += malformed
	if revenue <= 0 {
		return
	}

	last, ok := a.lastTouch[visitor]
	if !ok {
		a.stats.PurchasesMissingPriorSearch++
		return
	}

	a.totals[last] += revenue
	a.stats.PurchasesAttributed++
	a.stats.RevenueAttributed += revenue
}

// Totals returns a copy of the accumulated (engine, keyword) -> revenue map.
func (a *Analyzer) Totals() map[KeywordAttribution]float64 {
	out := make(map[KeywordAttribution]float64, len(a.totals))
	for k, v := range a.totals {
		out[k] = v
	}
	return out
}

// Stats returns the run counters accumulated so far.
func (a *Analyzer) Stats() Counters {
	return a.stats
}

// ValidateSchema checks that all required hit columns are declared. The error names
// every missing column.
func ValidateSchema(fields []string) error {
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f] = true
	}

	var missing []string
	for _, f := range requiredFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("hit data missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func visitorKey(row hitdata.Row) string {
	ip := strings.TrimSpace(row.Field(hitdata.FieldIP))
	ua := strings.TrimSpace(row.Field(hitdata.FieldUserAgent))
	return ip + "|" + ua
}

func (a *Analyzer) logSummary() {
	logger.Info("completed keyword attribution run",
		"rows_seen", a.stats.RowsSeen,
		"search_referrers_seen", a.stats.SearchReferrersSeen,
		"purchases_seen", a.stats.PurchasesSeen,
		"purchases_attributed", a.stats.PurchasesAttributed,
		"revenue_attributed", fmt.Sprintf("%.2f", a.stats.RevenueAttributed),
		"bad_revenue_values", a.stats.BadRevenueValues,
		"purchases_missing_prior_search", a.stats.PurchasesMissingPriorSearch,
	)
}
