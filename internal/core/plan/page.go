package plan

import "listgate/internal/core/query"

// window resolves the mutually exclusive pagination inputs. A verified
// cursor continuation wins, then an explicit row range, then page arithmetic
func window(p query.PageSpec) query.Window {
	switch {
	case p.Cursor != "":
		return query.Window{Kind: query.WindowCursor, Limit: p.PageSize, After: p.After}
	case p.HasRange:
		return query.Window{Kind: query.WindowOffset, Offset: p.StartRow, Limit: p.EndRow - p.StartRow}
	default:
		return query.Window{Kind: query.WindowOffset, Offset: (p.Page - 1) * p.PageSize, Limit: p.PageSize}
	}
}
