// Package records defines the raw record type shared by parsers,
// the cleaning engine, and storage adapters.
package records

// Record is an untyped row keyed by canonical column name. Values coming
// out of the CSV parser are either string or nil (missing/empty cell).
type Record map[string]any
