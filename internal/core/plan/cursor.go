package plan

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

const dateLayout = "2006-01-02"

// NextCursor issues the continuation token for the last row delivered under
// p's order. Execution keys records by wire-facing field name; the column
// name is accepted as a fallback for unaliased projections
func NextCursor(codec query.CursorCodec, p *query.Plan, last map[string]any) (string, error) {
	keys := make([]string, len(p.OrderBy))
	for i, k := range p.OrderBy {
		v, ok := last[k.Field]
		if !ok {
			v, ok = last[k.Column]
		}
		if !ok {
			return "", fmt.Errorf("plan: last row has no sort key %q", k.Field)
		}
		keys[i] = keyString(k.Kind, v)
	}
	return codec.Encode(query.Cursor{
		Entity: p.Entity,
		Sort:   query.FingerprintOrder(p.OrderBy),
		Keys:   keys,
	})
}

// keyString renders one sort key value in the form the validator's kind
// coercion accepts back
func keyString(kind schema.DataKind, v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if kind == schema.KindDate {
			return t.UTC().Format(dateLayout)
		}
		return t.UTC().Format(time.RFC3339Nano)
	case uuid.UUID:
		return t.String()
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
