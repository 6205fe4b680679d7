package query

// Scope classifies which concern of the request a validation error belongs to
type Scope string

// Validation scopes
const (
	ScopeFilter     Scope = "filter"
	ScopeSearch     Scope = "search"
	ScopeSort       Scope = "sort"
	ScopePagination Scope = "pagination"
)

// Stable machine-facing validation codes
const (
	CodeUnknownField          = "UNKNOWN_FIELD"
	CodeFieldNotFilterable    = "FIELD_NOT_FILTERABLE"
	CodeOperatorNotAllowed    = "OPERATOR_NOT_ALLOWED"
	CodeValueTypeMismatch     = "VALUE_TYPE_MISMATCH"
	CodeTooManyFilterValues   = "TOO_MANY_FILTER_VALUES"
	CodeNoSearchableFields    = "NO_SEARCHABLE_FIELDS"
	CodeFieldNotSortable      = "FIELD_NOT_SORTABLE"
	CodeTooManySortKeys       = "TOO_MANY_SORT_KEYS"
	CodePageOutOfRange        = "PAGE_OUT_OF_RANGE"
	CodePageSizeOutOfRange    = "PAGE_SIZE_OUT_OF_RANGE"
	CodeInvalidCursor         = "INVALID_CURSOR"
	CodeUnsupportedGroupDepth = "UNSUPPORTED_GROUP_NESTING"
)

// ValidationError is one semantic rejection, addressed to the client
type ValidationError struct {
	Scope        Scope  `json:"scope"`
	Field        string `json:"fieldName,omitempty"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	SuggestedFix string `json:"suggestedFix,omitempty"`
}

// Summary counts errors by scope
type Summary struct {
	FilterErrors     int `json:"filterErrors"`
	SearchErrors     int `json:"searchErrors"`
	SortErrors       int `json:"sortErrors"`
	PaginationErrors int `json:"paginationErrors"`
}

// Report aggregates every validation error of one request. Errors keep their
// discovery order; the report is terminal once the validator returns it
type Report struct {
	Errors  []ValidationError `json:"errors"`
	Summary Summary           `json:"summary"`
}

// Add appends an error and bumps the matching summary counter
func (r *Report) Add(e ValidationError) {
	r.Errors = append(r.Errors, e)
	switch e.Scope {
	case ScopeFilter:
		r.Summary.FilterErrors++
	case ScopeSearch:
		r.Summary.SearchErrors++
	case ScopeSort:
		r.Summary.SortErrors++
	case ScopePagination:
		r.Summary.PaginationErrors++
	}
}

// Empty reports whether the request validated cleanly
func (r *Report) Empty() bool { return len(r.Errors) == 0 }
