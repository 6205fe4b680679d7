package envelope

import "listgate/internal/core/query"

// OffsetPayload is the page-number envelope
type OffsetPayload struct {
	Data       []map[string]any `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalCount int64            `json:"totalCount"`
	TotalPages int64            `json:"totalPages"`
}

// RowRangePayload is the grid row-range envelope. LastRow is -1 until the
// final row index is known
type RowRangePayload struct {
	Data     []map[string]any `json:"data"`
	StartRow int              `json:"startRow"`
	EndRow   int              `json:"endRow"`
	LastRow  int64            `json:"lastRow"`
}

// CursorPayload is the keyset continuation envelope
type CursorPayload struct {
	Data       []map[string]any `json:"data"`
	NextCursor string           `json:"nextCursor,omitempty"`
	HasMore    bool             `json:"hasMore"`
}

// Render shapes an executed result for its family. The window is the one the
// plan ran with; nextCursor is only consulted by the cursor family
func Render(f Family, res query.Result, w query.Window, nextCursor string) any {
	data := res.Records
	if data == nil {
		data = []map[string]any{}
	}

	switch f {
	case FamilyRowRange:
		last := int64(-1)
		switch {
		case res.Total != nil:
			last = *res.Total
		case !res.HasMore:
			last = int64(w.Offset + len(data))
		}
		return RowRangePayload{
			Data:     data,
			StartRow: w.Offset,
			EndRow:   w.Offset + len(data),
			LastRow:  last,
		}

	case FamilyCursor:
		out := CursorPayload{Data: data, HasMore: res.HasMore}
		if res.HasMore {
			out.NextCursor = nextCursor
		}
		return out

	default:
		var total int64
		if res.Total != nil {
			total = *res.Total
		}
		page, size := 1, w.Limit
		if w.Limit > 0 {
			page = w.Offset/w.Limit + 1
		}
		pages := int64(0)
		if size > 0 && total > 0 {
			pages = (total + int64(size) - 1) / int64(size)
		}
		return OffsetPayload{
			Data:       data,
			Page:       page,
			PageSize:   size,
			TotalCount: total,
			TotalPages: pages,
		}
	}
}
