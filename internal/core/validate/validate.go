// Package validate checks a parsed query spec against an entity's field
// capabilities, producing either a fully coerced intent or an aggregate
// report of every rejection found. The validator never stops at the first
// error: every clause of every scope is checked and the report returned
// whole, so one round trip shows the client all of its problems
package validate

import (
	"fmt"
	"slices"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

// Limits bound the cost a single request can ask for. They come from config,
// not hardcoded policy
type Limits struct {
	MaxPageSize     int
	DefaultPageSize int
	MaxSortKeys     int
	MaxFilterValues int
}

const (
	defaultMaxPageSize     = 200
	defaultPageSize        = 20
	defaultMaxSortKeys     = 4
	defaultMaxFilterValues = 100
)

// Validator holds the request-independent pieces of validation: cost limits
// and the cursor codec. Safe for concurrent use
type Validator struct {
	limits Limits
	codec  query.CursorCodec
}

// New builds a validator. Zero limit fields fall back to package defaults
func New(limits Limits, codec query.CursorCodec) *Validator {
	if limits.MaxPageSize <= 0 {
		limits.MaxPageSize = defaultMaxPageSize
	}
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = defaultPageSize
	}
	if limits.MaxSortKeys <= 0 {
		limits.MaxSortKeys = defaultMaxSortKeys
	}
	if limits.MaxFilterValues <= 0 {
		limits.MaxFilterValues = defaultMaxFilterValues
	}
	return &Validator{limits: limits, codec: codec}
}

// Validate checks every clause of spec against ent's capabilities. On success
// the returned report is nil and the intent carries coerced native values and
// a non-empty effective sort; on failure the intent is zero and the report
// lists every rejection in discovery order
func (v *Validator) Validate(ent *schema.Entity, spec query.ParsedSpec) (query.Intent, *query.Report) {
	rep := &query.Report{}
	for _, d := range spec.Defects {
		rep.Add(d)
	}

	intent := query.Intent{Entity: ent.Name, FilterOp: spec.FilterOp, Format: spec.Format}
	if intent.FilterOp == "" {
		intent.FilterOp = query.GroupAnd
	}

	v.checkFilters(ent, spec.Filters, &intent, rep)
	v.checkSearch(ent, spec.Search, &intent, rep)
	sortOK := v.checkSort(ent, spec.Sort, &intent, rep)
	v.checkPage(ent, spec.Page, &intent, rep, sortOK)

	if !rep.Empty() {
		return query.Intent{}, rep
	}
	return intent, nil
}

// checkFilters emits at most one error per clause: the first failing check
// wins and the validator moves on to the next clause
func (v *Validator) checkFilters(ent *schema.Entity, raws []query.RawFilter, intent *query.Intent, rep *query.Report) {
	for _, rf := range raws {
		f, ok := ent.Field(rf.Field)
		if !ok {
			rep.Add(query.ValidationError{
				Scope:   query.ScopeFilter,
				Field:   rf.Field,
				Code:    query.CodeUnknownField,
				Message: fmt.Sprintf("entity %q has no field %q", ent.Name, rf.Field),
			})
			continue
		}
		if !f.Filterable {
			rep.Add(query.ValidationError{
				Scope:   query.ScopeFilter,
				Field:   rf.Field,
				Code:    query.CodeFieldNotFilterable,
				Message: fmt.Sprintf("field %q cannot be filtered", rf.Field),
			})
			continue
		}
		op, known := schema.CanonicalOp(rf.Op)
		if !known || !f.Allows(op) {
			rep.Add(query.ValidationError{
				Scope:        query.ScopeFilter,
				Field:        rf.Field,
				Code:         query.CodeOperatorNotAllowed,
				Message:      fmt.Sprintf("operator %q is not allowed on field %q", rf.Op, rf.Field),
				SuggestedFix: "allowed operators: " + opNames(f.Operators),
			})
			continue
		}

		vals := rf.Values
		bad := false
		switch ar := schema.Arity(op); ar {
		case 0:
			vals = nil
		case -1:
			if len(vals) == 0 {
				rep.Add(query.ValidationError{
					Scope:   query.ScopeFilter,
					Field:   rf.Field,
					Code:    query.CodeValueTypeMismatch,
					Message: fmt.Sprintf("operator %q takes at least one value", op),
				})
				bad = true
			} else if len(vals) > v.limits.MaxFilterValues {
				rep.Add(query.ValidationError{
					Scope:   query.ScopeFilter,
					Field:   rf.Field,
					Code:    query.CodeTooManyFilterValues,
					Message: fmt.Sprintf("operator %q takes at most %d values, got %d", op, v.limits.MaxFilterValues, len(vals)),
				})
				bad = true
			}
		default:
			if len(vals) != ar {
				rep.Add(query.ValidationError{
					Scope:   query.ScopeFilter,
					Field:   rf.Field,
					Code:    query.CodeValueTypeMismatch,
					Message: fmt.Sprintf("operator %q takes exactly %d value(s), got %d", op, ar, len(vals)),
				})
				bad = true
			}
		}
		if bad {
			continue
		}

		coerced := make([]any, 0, len(vals))
		for _, s := range vals {
			nv, err := coerceValue(f, s)
			if err != nil {
				rep.Add(query.ValidationError{
					Scope:   query.ScopeFilter,
					Field:   rf.Field,
					Code:    query.CodeValueTypeMismatch,
					Message: fmt.Sprintf("value %q for field %q: %v", s, rf.Field, err),
				})
				bad = true
				break
			}
			coerced = append(coerced, nv)
		}
		if bad {
			continue
		}

		intent.Filters = append(intent.Filters, query.FilterClause{
			Field:   f.Name,
			Column:  f.Column,
			Kind:    f.Kind,
			Op:      op,
			Values:  coerced,
			Group:   rf.Group,
			GroupOp: rf.GroupOp,
		})
	}
}

// checkSearch resolves the searched fields: the requested subset when given,
// otherwise every searchable field of the entity. Requested fields that are
// unknown or unsearchable are dropped; only when nothing remains does the
// request fail
func (v *Validator) checkSearch(ent *schema.Entity, raw *query.RawSearch, intent *query.Intent, rep *query.Report) {
	if raw == nil || raw.Term == "" {
		return
	}

	var fields []query.SearchField
	if len(raw.Fields) > 0 {
		for _, name := range raw.Fields {
			if f, ok := ent.Field(name); ok && f.Searchable {
				fields = append(fields, query.SearchField{Name: f.Name, Column: f.Column})
			}
		}
	} else {
		for _, f := range ent.Searchable() {
			fields = append(fields, query.SearchField{Name: f.Name, Column: f.Column})
		}
	}

	if len(fields) == 0 {
		e := query.ValidationError{
			Scope:   query.ScopeSearch,
			Code:    query.CodeNoSearchableFields,
			Message: fmt.Sprintf("no searchable field matches the request on entity %q", ent.Name),
		}
		if s := ent.Searchable(); len(s) > 0 {
			e.SuggestedFix = "searchable fields: " + fieldNames(s)
		}
		rep.Add(e)
		return
	}
	intent.Search = &query.SearchSpec{Term: raw.Term, Fields: fields}
}

// checkSort validates client sort keys in priority order, or synthesizes the
// deterministic default when the client sent none. Returns whether the sort
// scope is trustworthy enough to check a cursor fingerprint against
func (v *Validator) checkSort(ent *schema.Entity, raws []query.RawSort, intent *query.Intent, rep *query.Report) bool {
	ok := true
	if len(raws) > v.limits.MaxSortKeys {
		rep.Add(query.ValidationError{
			Scope:   query.ScopeSort,
			Code:    query.CodeTooManySortKeys,
			Message: fmt.Sprintf("at most %d sort keys allowed, got %d", v.limits.MaxSortKeys, len(raws)),
		})
		ok = false
	}
	for _, rs := range raws {
		f, found := ent.Field(rs.Field)
		if !found {
			rep.Add(query.ValidationError{
				Scope:   query.ScopeSort,
				Field:   rs.Field,
				Code:    query.CodeUnknownField,
				Message: fmt.Sprintf("entity %q has no field %q", ent.Name, rs.Field),
			})
			ok = false
			continue
		}
		if !f.Sortable {
			rep.Add(query.ValidationError{
				Scope:   query.ScopeSort,
				Field:   rs.Field,
				Code:    query.CodeFieldNotSortable,
				Message: fmt.Sprintf("field %q cannot be sorted", rs.Field),
			})
			ok = false
			continue
		}
		intent.Sort = append(intent.Sort, query.SortClause{Field: f.Name, Column: f.Column, Kind: f.Kind, Desc: rs.Desc})
	}

	if len(intent.Sort) == 0 && ok {
		for _, k := range ent.DefaultSortKeys() {
			f, _ := ent.Field(k.Field)
			intent.Sort = append(intent.Sort, query.SortClause{Field: f.Name, Column: f.Column, Kind: f.Kind, Desc: k.Desc})
		}
	}

	// append an id tie-break so equal sort values cannot reorder across
	// pages; cursor fingerprints include it
	if ok && !sortsInclude(intent.Sort, "id") {
		if f, found := ent.Field("id"); found && f.Sortable {
			intent.Sort = append(intent.Sort, query.SortClause{Field: f.Name, Column: f.Column, Kind: f.Kind})
		}
	}
	return ok
}

func sortsInclude(sorts []query.SortClause, field string) bool {
	for _, s := range sorts {
		if s.Field == field {
			return true
		}
	}
	return false
}

// checkPage validates offset inputs, row-range inputs, and the cursor token.
// Bounds reject rather than clamp. A well-formed cursor takes precedence over
// page at build time; both may validate here
func (v *Validator) checkPage(ent *schema.Entity, raw query.RawPage, intent *query.Intent, rep *query.Report, sortOK bool) {
	p := &intent.Page

	if raw.PageSize != nil {
		ps := *raw.PageSize
		if ps < 1 || ps > v.limits.MaxPageSize {
			rep.Add(query.ValidationError{
				Scope:   query.ScopePagination,
				Code:    query.CodePageSizeOutOfRange,
				Message: fmt.Sprintf("pageSize must be between 1 and %d, got %d", v.limits.MaxPageSize, ps),
			})
		} else {
			p.PageSize = ps
		}
	} else {
		p.PageSize = v.limits.DefaultPageSize
	}

	if raw.Page != nil {
		if *raw.Page < 1 {
			rep.Add(query.ValidationError{
				Scope:   query.ScopePagination,
				Code:    query.CodePageOutOfRange,
				Message: fmt.Sprintf("page must be at least 1, got %d", *raw.Page),
			})
		} else {
			p.Page = *raw.Page
		}
	} else {
		p.Page = 1
	}

	if raw.StartRow != nil || raw.EndRow != nil {
		sr := 0
		if raw.StartRow != nil {
			sr = *raw.StartRow
		}
		er := sr + v.limits.DefaultPageSize
		if raw.EndRow != nil {
			er = *raw.EndRow
		}
		switch {
		case sr < 0:
			rep.Add(query.ValidationError{
				Scope:   query.ScopePagination,
				Code:    query.CodePageOutOfRange,
				Message: fmt.Sprintf("startRow must be at least 0, got %d", sr),
			})
		case er <= sr:
			rep.Add(query.ValidationError{
				Scope:   query.ScopePagination,
				Code:    query.CodePageOutOfRange,
				Message: fmt.Sprintf("endRow must be greater than startRow, got %d..%d", sr, er),
			})
		case er-sr > v.limits.MaxPageSize:
			rep.Add(query.ValidationError{
				Scope:   query.ScopePagination,
				Code:    query.CodePageSizeOutOfRange,
				Message: fmt.Sprintf("row window must span at most %d rows, got %d", v.limits.MaxPageSize, er-sr),
			})
		default:
			p.StartRow, p.EndRow, p.HasRange = sr, er, true
		}
	}

	if raw.Cursor == "" {
		return
	}
	invalid := func(msg string) {
		rep.Add(query.ValidationError{
			Scope:   query.ScopePagination,
			Code:    query.CodeInvalidCursor,
			Message: msg,
		})
	}
	cur, err := v.codec.Decode(raw.Cursor)
	if err != nil {
		invalid("cursor token failed integrity check")
		return
	}
	if cur.Entity != ent.Name {
		invalid("cursor was issued for a different entity")
		return
	}
	if !sortOK {
		return
	}
	if !slices.Equal(cur.Sort, query.SortFingerprint(intent.Sort)) {
		invalid("cursor was issued under a different sort order")
		return
	}
	if len(cur.Keys) != len(intent.Sort) {
		invalid("cursor continuation keys do not match the sort order")
		return
	}
	after := make([]any, len(cur.Keys))
	for i, s := range cur.Keys {
		nv, cerr := coerceKind(intent.Sort[i].Kind, s)
		if cerr != nil {
			invalid("cursor continuation keys do not match the sort order")
			return
		}
		after[i] = nv
	}
	p.Cursor = raw.Cursor
	p.After = after
}
