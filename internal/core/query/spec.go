// Package query defines the data model shared by the request pipeline stages:
// the canonical parsed spec emitted by format parsers, the validation report,
// the type-coerced intent, the sealed execution plan, and the pagination
// cursor codec. Everything here is a pure value type; no I/O happens in this
// package
package query

// GroupOp is the boolean combinator applied within or across filter groups
type GroupOp string

// Supported group combinators
const (
	GroupAnd GroupOp = "and"
	GroupOr  GroupOp = "or"
)

// RawFilter is one pre-validation filter clause as a parser produced it.
// Values are untyped strings; Group 0 means top-level, higher numbers tag
// clauses that arrived inside an explicit boolean group
type RawFilter struct {
	Field   string
	Op      string
	Values  []string
	Group   int
	GroupOp GroupOp
}

// RawSort is one pre-validation sort clause in client priority order
type RawSort struct {
	Field string
	Desc  bool
}

// RawSearch is a pre-validation full-text request.
// Empty Fields means "all searchable fields of the entity"
type RawSearch struct {
	Term   string
	Fields []string
}

// RawPage is the pre-validation pagination request. Pointers distinguish
// absent parameters from explicit zero values so bounds checks can reject
// rather than silently clamp
type RawPage struct {
	Page     *int
	PageSize *int
	StartRow *int
	EndRow   *int
	Cursor   string
}

// ParsedSpec is the canonical output every format parser converges on
type ParsedSpec struct {
	Filters  []RawFilter
	FilterOp GroupOp
	Search   *RawSearch
	Sort     []RawSort
	Page     RawPage

	// Format carries an explicit responseFormat override, if the client sent one
	Format string

	// Defects are structural findings a parser could not express in the
	// canonical shape (e.g. a boolean group nested too deep). The validator
	// folds them into its aggregate
	Defects []ValidationError
}
