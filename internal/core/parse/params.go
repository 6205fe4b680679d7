package parse

import (
	"strconv"
	"strings"

	"listgate/internal/core/query"
)

// ensureSearch returns the spec's search block, creating it on first use
func ensureSearch(spec *query.ParsedSpec) *query.RawSearch {
	if spec.Search == nil {
		spec.Search = &query.RawSearch{}
	}
	return spec.Search
}

// consumeReserved handles one structural query parameter. Returns true when
// the key is reserved, whether or not its value was usable. Unusable values
// of bounded parameters are recorded as defects so the validator can surface
// them; nothing is silently clamped
func consumeReserved(spec *query.ParsedSpec, key, value string) bool {
	if !reserved[key] {
		return false
	}
	switch key {
	case "page":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			spec.Defects = append(spec.Defects, query.ValidationError{
				Scope:   query.ScopePagination,
				Code:    query.CodePageOutOfRange,
				Message: "page must be an integer",
			})
			return true
		}
		spec.Page.Page = &n
	case "pageSize":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			spec.Defects = append(spec.Defects, query.ValidationError{
				Scope:   query.ScopePagination,
				Code:    query.CodePageSizeOutOfRange,
				Message: "pageSize must be an integer",
			})
			return true
		}
		spec.Page.PageSize = &n
	case "sort":
		spec.Sort = append(spec.Sort, parseSortList(value)...)
	case "search":
		if term := strings.TrimSpace(value); term != "" {
			ensureSearch(spec).Term = term
		}
	case "searchFields":
		if fields := splitFieldList(value); len(fields) > 0 {
			s := ensureSearch(spec)
			s.Fields = append(s.Fields, fields...)
		}
	case "cursor":
		if v := strings.TrimSpace(value); v != "" {
			spec.Page.Cursor = v
		}
	case "responseFormat":
		spec.Format = strings.TrimSpace(value)
	case "advancedFilter", "advancedSort":
		// owned by the advanced parser; reserved so they never become filters
	}
	return true
}
