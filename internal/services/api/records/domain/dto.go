// Package domain holds DTOs for records http and service contracts
package domain

// QueryInput carries one list request exactly as it arrived on the wire.
// RawQuery keeps parameter order; Body is the optional JSON payload of the
// POST form of the endpoint
type QueryInput struct {
	Entity   string
	RawQuery string
	Body     []byte
}

// QueryBody documents the JSON body accepted by the POST query endpoint.
// The handler forwards raw bytes; this type exists for the API docs only
// swagger:model
type QueryBody struct {
	// Grid row-range dialect
	StartRow *int `json:"startRow,omitempty" example:"0"`
	EndRow   *int `json:"endRow,omitempty" example:"100"`

	// Grid page dialect
	FilterModel map[string]any   `json:"filterModel,omitempty"`
	SortModel   []map[string]any `json:"sortModel,omitempty"`
	Page        *int             `json:"page,omitempty" example:"0"`
	PageSize    *int             `json:"pageSize,omitempty" example:"50"`

	// Advanced dialect
	AdvancedFilter map[string]any   `json:"advancedFilter,omitempty"`
	AdvancedSort   []map[string]any `json:"advancedSort,omitempty"`

	Search         string   `json:"search,omitempty" example:"jane"`
	SearchFields   []string `json:"searchFields,omitempty" example:"name,email"`
	Cursor         string   `json:"cursor,omitempty"`
	ResponseFormat string   `json:"responseFormat,omitempty" example:"cursor"`
}

// OffsetEnvelope is the page-numbered response family
// swagger:model
type OffsetEnvelope struct {
	Data       []map[string]any `json:"data"`
	Page       int              `json:"page" example:"1"`
	PageSize   int              `json:"pageSize" example:"20"`
	TotalCount int64            `json:"totalCount" example:"137"`
	TotalPages int64            `json:"totalPages" example:"7"`
}

// RowRangeEnvelope is the row-windowed response family
// swagger:model
type RowRangeEnvelope struct {
	Data     []map[string]any `json:"data"`
	StartRow int              `json:"startRow" example:"0"`
	EndRow   int              `json:"endRow" example:"100"`
	LastRow  int64            `json:"lastRow" example:"-1"`
}

// CursorEnvelope is the keyset-continuation response family
// swagger:model
type CursorEnvelope struct {
	Data       []map[string]any `json:"data"`
	NextCursor string           `json:"nextCursor,omitempty"`
	HasMore    bool             `json:"hasMore" example:"true"`
}

// ValidationFailure documents the 400 error detail payload
// swagger:model
type ValidationFailure struct {
	Errors []struct {
		Scope        string `json:"scope" example:"filter"`
		FieldName    string `json:"fieldName,omitempty" example:"price"`
		Code         string `json:"code" example:"OPERATOR_NOT_ALLOWED"`
		Message      string `json:"message"`
		SuggestedFix string `json:"suggestedFix,omitempty"`
	} `json:"errors"`
	Summary struct {
		FilterErrors     int `json:"filterErrors" example:"1"`
		SearchErrors     int `json:"searchErrors" example:"0"`
		SortErrors       int `json:"sortErrors" example:"0"`
		PaginationErrors int `json:"paginationErrors" example:"0"`
	} `json:"summary"`
}
