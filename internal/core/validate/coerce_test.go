package validate

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"listgate/internal/core/schema"
)

func TestCoerceDatetimeAcceptsDateOnly(t *testing.T) {
	v, err := coerceKind(schema.KindDateTime, "2024-06-01")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	ts := v.(time.Time)
	if !ts.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", ts)
	}
}

func TestCoerceDateRejectsTimestamp(t *testing.T) {
	if _, err := coerceKind(schema.KindDate, "2024-06-01T10:00:00Z"); err == nil {
		t.Fatalf("expected error for timestamp in date field")
	}
}

func TestCoerceIdentifierForms(t *testing.T) {
	v, err := coerceKind(schema.KindID, "550e8400-e29b-41d4-a716-446655440000")
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	if _, ok := v.(uuid.UUID); !ok {
		t.Fatalf("uuid coerced to %T", v)
	}

	v, err = coerceKind(schema.KindRelation, "42")
	if err != nil {
		t.Fatalf("int id: %v", err)
	}
	if v != int64(42) {
		t.Fatalf("int id coerced to %#v", v)
	}

	if _, err := coerceKind(schema.KindID, "neither"); err == nil {
		t.Fatalf("expected error for malformed identifier")
	}
}

func TestCoerceTimestampNormalizesToUTC(t *testing.T) {
	v, err := coerceKind(schema.KindDateTime, "2024-01-02T10:00:00+02:00")
	if err != nil {
		t.Fatalf("coerce: %v", err)
	}
	ts := v.(time.Time)
	if ts.Location() != time.UTC || ts.Hour() != 8 {
		t.Fatalf("got %v", ts)
	}
}
