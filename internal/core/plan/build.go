// Package plan turns a validated query intent into a sealed execution plan.
// The four builders are pure transforms: filter clauses become tagged
// predicates, the search spec becomes a multi-field pattern predicate, sort
// clauses become resolved order keys, and pagination becomes an offset or
// cursor window. No query text is produced here; the execution layer binds
// every carried value as a parameter
package plan

import (
	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

// Build assembles and seals the plan for a validated intent. wantTotal asks
// execution for a total count alongside the page, which offset-style
// envelopes need and cursor-style ones skip
func Build(ent *schema.Entity, intent query.Intent, wantTotal bool) (*query.Plan, error) {
	b := query.NewBuilder(intent.Entity, ent.Table, ent.Storage)

	if err := b.SetColumns(projection(ent)); err != nil {
		return nil, err
	}
	if err := b.SetPredicateOp(intent.FilterOp); err != nil {
		return nil, err
	}
	for _, fc := range intent.Filters {
		if err := b.AddPredicate(predicate(fc)); err != nil {
			return nil, err
		}
	}
	if intent.Search != nil {
		if err := b.SetFullText(fullText(*intent.Search)); err != nil {
			return nil, err
		}
	}
	for _, sc := range intent.Sort {
		if err := b.AddOrder(orderKey(sc)); err != nil {
			return nil, err
		}
	}
	if err := b.SetWindow(window(intent.Page)); err != nil {
		return nil, err
	}
	if err := b.SetWantTotal(wantTotal); err != nil {
		return nil, err
	}
	return b.Seal()
}

// projection lists every declared field of the entity so execution selects
// columns under their wire-facing names
func projection(ent *schema.Entity) []query.SelectColumn {
	if len(ent.Fields) == 0 {
		return nil
	}
	cols := make([]query.SelectColumn, 0, len(ent.Fields))
	for _, f := range ent.Fields {
		cols = append(cols, query.SelectColumn{Field: f.Name, Column: f.Column})
	}
	return cols
}
