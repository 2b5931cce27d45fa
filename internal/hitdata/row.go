// Package hitdata reads tab-separated clickstream hit files. The analyzer depends only
// on field lookup by name, so any source that yields Row values in arrival order works.
package hitdata

// Required column names every hit source must expose.
const (
	FieldIP          = "ip"
	FieldUserAgent   = "user_agent"
	FieldReferrer    = "referrer"
	FieldEventList   = "event_list"
	FieldProductList = "product_list"
)

// Row is a single hit keyed by column name. Rows are never mutated after creation.
type Row map[string]string

// Field returns the named column value, empty when absent.
func (r Row) Field(name string) string {
	return r[name]
}

// RowSource is a finite, ordered stream of hit rows. Fields is available before the
// first Next call so schema validation can run before any row is consumed. Next
// returns io.EOF when the stream is exhausted.
type RowSource interface {
	Fields() []string
	Next() (Row, error)
}
