package query

import "listgate/internal/core/schema"

// FilterClause is one validated, type-coerced filter. Values hold native Go
// representations of the field's data kind; no raw request strings survive
// into this stage
type FilterClause struct {
	Field   string
	Column  string
	Kind    schema.DataKind
	Op      schema.Operator
	Values  []any
	Group   int
	GroupOp GroupOp
}

// SearchField names one searchable field together with its storage column
type SearchField struct {
	Name   string
	Column string
}

// SearchSpec is a validated full-text request over resolved searchable fields
type SearchSpec struct {
	Term   string
	Fields []SearchField
}

// SortClause is one validated sort key in priority order
type SortClause struct {
	Field  string
	Column string
	Kind   schema.DataKind
	Desc   bool
}

// PageSpec is the validated pagination request. Exactly one of the offset
// inputs (page/pageSize or startRow/endRow) or the cursor continuation is
// populated; the pagination builder turns it into a window
type PageSpec struct {
	Page     int
	PageSize int

	// Row-range style echoes, set when the client paged by startRow/endRow
	StartRow int
	EndRow   int
	HasRange bool

	// Cursor continuation: the raw token plus its decoded sort key values,
	// aligned with the effective sort order
	Cursor string
	After  []any
}

// Intent is the fully validated, type-coerced representation of a request.
// Every referenced field exists in the registry and passed its capability
// checks before this value was constructed
type Intent struct {
	Entity   string
	Filters  []FilterClause
	FilterOp GroupOp
	Search   *SearchSpec
	Sort     []SortClause
	Page     PageSpec
	Format   string
}
