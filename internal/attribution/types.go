package attribution

// KeywordAttribution identifies a (search engine, keyword) pair. EngineDomain is the
// canonical base domain ("google.com") when the referrer host matched a known engine,
// otherwise the normalized host. Keyword is lowercase, URL-decoded, whitespace-collapsed.
type KeywordAttribution struct {
	EngineDomain string
	Keyword      string
}

// Counters aggregates per-run statistics used for logging, monitoring, and validating
// each run. They never influence processing; callers read them to judge data quality.
type Counters struct {
	RowsSeen                    int64   `json:"rows_seen"`
	SearchReferrersSeen         int64   `json:"search_referrers_seen"`
	PurchasesSeen               int64   `json:"purchases_seen"`
	PurchasesAttributed         int64   `json:"purchases_attributed"`
	RevenueAttributed           float64 `json:"revenue_attributed"`
	BadRevenueValues            int64   `json:"bad_revenue_values"`
	PurchasesMissingPriorSearch int64   `json:"purchases_missing_prior_search"`
}
