package plan

import "listgate/internal/core/query"

// orderKey resolves one sort clause. Nulls always sort last so a null sort
// value cannot float between pages
func orderKey(sc query.SortClause) query.OrderKey {
	return query.OrderKey{
		Field:     sc.Field,
		Column:    sc.Column,
		Kind:      sc.Kind,
		Desc:      sc.Desc,
		NullsLast: true,
	}
}
