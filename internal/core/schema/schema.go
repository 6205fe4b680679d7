// Package schema holds the field capability registry: per entity, per field
// metadata describing which data kind a field has and which filter, search,
// and sort capabilities it supports. Built once at startup and read-only for
// the process lifetime, so concurrent lookups need no locking
package schema

import "strings"

// DataKind classifies a field's native value type for coercion
type DataKind string

// Supported data kinds
const (
	KindText     DataKind = "text"
	KindInteger  DataKind = "integer"
	KindFloat    DataKind = "float"
	KindBool     DataKind = "boolean"
	KindDate     DataKind = "date"
	KindDateTime DataKind = "datetime"
	KindEnum     DataKind = "enum"
	KindRelation DataKind = "relation"
	KindID       DataKind = "id"
)

// KnownKind reports whether k is a recognized data kind
func KnownKind(k DataKind) bool {
	switch k {
	case KindText, KindInteger, KindFloat, KindBool, KindDate, KindDateTime, KindEnum, KindRelation, KindID:
		return true
	default:
		return false
	}
}

// Operator is a canonical comparison/match operation
type Operator string

// Canonical operators
const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpBetween     Operator = "between"
	OpIn          Operator = "in"
	OpNotIn       Operator = "notIn"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"
	OpIsNull      Operator = "isNull"
	OpIsNotNull   Operator = "isNotNull"
)

// KnownOperator reports whether op is a recognized canonical operator
func KnownOperator(op Operator) bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpBetween, OpIn, OpNotIn,
		OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpIsNull, OpIsNotNull:
		return true
	default:
		return false
	}
}

// CanonicalOp resolves a wire operator spelling to its canonical form,
// matching case-insensitively. Returns false for unknown spellings
func CanonicalOp(s string) (Operator, bool) {
	all := []Operator{
		OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpBetween, OpIn, OpNotIn,
		OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpIsNull, OpIsNotNull,
	}
	for _, op := range all {
		if strings.EqualFold(string(op), s) {
			return op, true
		}
	}
	return "", false
}

// Arity returns the number of values an operator consumes.
// -1 means one-or-more (set membership)
func Arity(op Operator) int {
	switch op {
	case OpIsNull, OpIsNotNull:
		return 0
	case OpBetween:
		return 2
	case OpIn, OpNotIn:
		return -1
	default:
		return 1
	}
}

// DefaultOperators returns the allowed operator set for a data kind when the
// schema does not pin one explicitly
func DefaultOperators(k DataKind) []Operator {
	switch k {
	case KindText:
		return []Operator{OpEq, OpNeq, OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpIn, OpNotIn, OpIsNull, OpIsNotNull}
	case KindInteger, KindFloat, KindDate, KindDateTime:
		return []Operator{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpBetween, OpIn, OpNotIn, OpIsNull, OpIsNotNull}
	case KindBool:
		return []Operator{OpEq, OpNeq, OpIsNull, OpIsNotNull}
	case KindEnum:
		return []Operator{OpEq, OpNeq, OpIn, OpNotIn, OpIsNull, OpIsNotNull}
	case KindRelation, KindID:
		return []Operator{OpEq, OpNeq, OpIn, OpNotIn}
	default:
		return nil
	}
}

// Storage names the backend an entity's records live in
type Storage string

// Supported storage backends
const (
	StoragePostgres   Storage = "postgres"
	StorageClickhouse Storage = "clickhouse"
)

// Field describes one queryable field of an entity
type Field struct {
	Name       string
	Column     string
	Kind       DataKind
	Filterable bool
	Searchable bool
	Sortable   bool
	Operators  []Operator
	Enum       []string

	ops  map[Operator]struct{}
	enum map[string]struct{}
}

// Allows reports whether op is in the field's allowed operator set
func (f *Field) Allows(op Operator) bool {
	_, ok := f.ops[op]
	return ok
}

// EnumMember reports whether v is a declared enum value.
// Always true for non-enum kinds or enums without a pinned value list
func (f *Field) EnumMember(v string) bool {
	if len(f.enum) == 0 {
		return true
	}
	_, ok := f.enum[v]
	return ok
}

// SortKey is one entry of a deterministic default sort order
type SortKey struct {
	Field string
	Desc  bool
}

// Entity describes one queryable record type
type Entity struct {
	Name    string
	Table   string
	Storage Storage
	Fields  []*Field

	byName map[string]*Field
}

// Field looks up a field by name
func (e *Entity) Field(name string) (*Field, bool) {
	f, ok := e.byName[name]
	return f, ok
}

// Searchable returns the entity's searchable fields in declaration order
func (e *Entity) Searchable() []*Field {
	var out []*Field
	for _, f := range e.Fields {
		if f.Searchable {
			out = append(out, f)
		}
	}
	return out
}

// DefaultSortKeys synthesizes the deterministic fallback sort for unsorted
// requests: the first available of id ascending, created_at descending,
// updated_at descending, whichever exists and is sortable
func (e *Entity) DefaultSortKeys() []SortKey {
	candidates := []SortKey{
		{Field: "id", Desc: false},
		{Field: "created_at", Desc: true},
		{Field: "updated_at", Desc: true},
	}
	for _, c := range candidates {
		if f, ok := e.byName[c.Field]; ok && f.Sortable {
			return []SortKey{c}
		}
	}
	return nil
}

// Registry is the process-lifetime capability table keyed by entity name
type Registry struct {
	Version int

	entities map[string]*Entity
	names    []string
}

// Entity looks up an entity by name
func (r *Registry) Entity(name string) (*Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Entities returns all entities in declaration order
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.entities[n])
	}
	return out
}

// Lookup resolves a field descriptor by (entity, field) pair
func (r *Registry) Lookup(entity, field string) (*Field, bool) {
	e, ok := r.entities[entity]
	if !ok {
		return nil, false
	}
	return e.Field(field)
}
