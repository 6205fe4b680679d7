package query

import (
	"errors"

	"listgate/internal/core/schema"
)

// WindowKind selects between offset and cursor pagination
type WindowKind string

// Window kinds
const (
	WindowOffset WindowKind = "offset"
	WindowCursor WindowKind = "cursor"
)

// Predicate is one executable-agnostic filter condition. Values are bound as
// parameters by the execution layer; no query text is carried here
type Predicate struct {
	Field   string
	Column  string
	Kind    schema.DataKind
	Op      schema.Operator
	Values  []any
	Group   int
	GroupOp GroupOp
}

// FullText is the multi-field pattern predicate built from a search spec.
// Patterns are escaped LIKE patterns, one per search token; every pattern
// must match at least one of the fields
type FullText struct {
	Fields   []SearchField
	Patterns []string
}

// OrderKey is one resolved sort key
type OrderKey struct {
	Field     string
	Column    string
	Kind      schema.DataKind
	Desc      bool
	NullsLast bool
}

// SelectColumn is one projected column with its wire-facing field name
type SelectColumn struct {
	Field  string
	Column string
}

// Window is the pagination window handed to execution. For cursor windows,
// After carries the last row's sort key values aligned with OrderBy
type Window struct {
	Kind   WindowKind
	Offset int
	Limit  int
	After  []any
}

// Plan is the sealed, execution-ready query structure. It is built once via
// Builder, consumed exactly once by the execution layer, and never mutated
// after sealing
type Plan struct {
	Entity  string
	Table   string
	Storage schema.Storage

	Columns     []SelectColumn
	Predicates  []Predicate
	PredicateOp GroupOp
	FullText    *FullText
	OrderBy     []OrderKey
	Window      Window
	WantTotal   bool
}

// ErrPlanSealed is returned by builder mutators after Seal
var ErrPlanSealed = errors.New("query: plan already sealed")

// Builder assembles a Plan incrementally. Zero value is not usable; construct
// with NewBuilder
type Builder struct {
	p      Plan
	sealed bool
}

// NewBuilder starts a plan for one entity
func NewBuilder(entity, table string, storage schema.Storage) *Builder {
	return &Builder{p: Plan{Entity: entity, Table: table, Storage: storage, PredicateOp: GroupAnd}}
}

// SetColumns sets the projected column list
func (b *Builder) SetColumns(cols []SelectColumn) error {
	if b.sealed {
		return ErrPlanSealed
	}
	b.p.Columns = cols
	return nil
}

// AddPredicate appends one predicate
func (b *Builder) AddPredicate(p Predicate) error {
	if b.sealed {
		return ErrPlanSealed
	}
	b.p.Predicates = append(b.p.Predicates, p)
	return nil
}

// SetPredicateOp sets the top-level boolean combinator
func (b *Builder) SetPredicateOp(op GroupOp) error {
	if b.sealed {
		return ErrPlanSealed
	}
	b.p.PredicateOp = op
	return nil
}

// SetFullText attaches the full-text predicate
func (b *Builder) SetFullText(ft *FullText) error {
	if b.sealed {
		return ErrPlanSealed
	}
	b.p.FullText = ft
	return nil
}

// AddOrder appends one sort key
func (b *Builder) AddOrder(k OrderKey) error {
	if b.sealed {
		return ErrPlanSealed
	}
	b.p.OrderBy = append(b.p.OrderBy, k)
	return nil
}

// SetWindow sets the pagination window
func (b *Builder) SetWindow(w Window) error {
	if b.sealed {
		return ErrPlanSealed
	}
	b.p.Window = w
	return nil
}

// SetWantTotal asks execution to compute a total count alongside the page
func (b *Builder) SetWantTotal(v bool) error {
	if b.sealed {
		return ErrPlanSealed
	}
	b.p.WantTotal = v
	return nil
}

// Seal finalizes the plan. The builder rejects every mutation afterwards,
// including a second Seal
func (b *Builder) Seal() (*Plan, error) {
	if b.sealed {
		return nil, ErrPlanSealed
	}
	b.sealed = true
	p := b.p
	return &p, nil
}
