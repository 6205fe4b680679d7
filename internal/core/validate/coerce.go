package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"listgate/internal/core/schema"
)

const dateLayout = "2006-01-02"

// coerceKind converts one raw value string to the native representation of a
// data kind. Enum values stay strings; membership is the caller's check
func coerceKind(k schema.DataKind, s string) (any, error) {
	switch k {
	case schema.KindText, schema.KindEnum:
		return s, nil
	case schema.KindInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer")
		}
		return n, nil
	case schema.KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number")
		}
		return f, nil
	case schema.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("not a boolean")
		}
		return b, nil
	case schema.KindDate:
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("not a date (want YYYY-MM-DD)")
		}
		return t.UTC(), nil
	case schema.KindDateTime:
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t.UTC(), nil
		}
		return nil, fmt.Errorf("not a timestamp (want RFC 3339)")
	case schema.KindID, schema.KindRelation:
		if id, err := uuid.Parse(s); err == nil {
			return id, nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		return nil, fmt.Errorf("not an identifier")
	default:
		return nil, fmt.Errorf("unknown data kind %q", k)
	}
}

// coerceValue converts a raw filter value for a field, enforcing enum
// membership on top of kind coercion
func coerceValue(f *schema.Field, s string) (any, error) {
	if f.Kind == schema.KindEnum && !f.EnumMember(s) {
		return nil, fmt.Errorf("not one of: %s", strings.Join(f.Enum, ", "))
	}
	return coerceKind(f.Kind, s)
}

func opNames(ops []schema.Operator) string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

func fieldNames(fs []*schema.Field) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
