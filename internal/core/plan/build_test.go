package plan

import (
	"reflect"
	"testing"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

func usersEntity() *schema.Entity {
	return &schema.Entity{Name: "users", Table: "users", Storage: schema.StoragePostgres}
}

func offsetIntent() query.Intent {
	return query.Intent{
		Entity:   "users",
		FilterOp: query.GroupAnd,
		Filters: []query.FilterClause{
			{Field: "status", Column: "status", Kind: schema.KindEnum, Op: schema.OpEq, Values: []any{"active"}},
		},
		Sort: []query.SortClause{{Field: "id", Column: "id", Kind: schema.KindID}},
		Page: query.PageSpec{Page: 2, PageSize: 10},
	}
}

func TestBuildOffsetPlan(t *testing.T) {
	p, err := Build(usersEntity(), offsetIntent(), true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if p.Table != "users" || p.Storage != schema.StoragePostgres {
		t.Fatalf("plan target = %q/%q", p.Table, p.Storage)
	}
	if len(p.Predicates) != 1 || p.Predicates[0].Op != schema.OpEq || p.Predicates[0].Values[0] != "active" {
		t.Fatalf("predicates = %+v", p.Predicates)
	}
	if len(p.OrderBy) != 1 || p.OrderBy[0].Field != "id" || p.OrderBy[0].Desc || !p.OrderBy[0].NullsLast {
		t.Fatalf("orderBy = %+v", p.OrderBy)
	}
	w := p.Window
	if w.Kind != query.WindowOffset || w.Offset != 10 || w.Limit != 10 {
		t.Fatalf("window = %+v", w)
	}
	if !p.WantTotal {
		t.Fatalf("wantTotal not carried")
	}
}

func TestBuildProjectsDeclaredFields(t *testing.T) {
	ent := usersEntity()
	ent.Fields = []*schema.Field{
		{Name: "id", Column: "id", Kind: schema.KindID},
		{Name: "display_name", Column: "displayname", Kind: schema.KindText},
	}
	p, err := Build(ent, offsetIntent(), false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []query.SelectColumn{
		{Field: "id", Column: "id"},
		{Field: "display_name", Column: "displayname"},
	}
	if !reflect.DeepEqual(p.Columns, want) {
		t.Fatalf("columns = %+v", p.Columns)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build(usersEntity(), offsetIntent(), true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := Build(usersEntity(), offsetIntent(), true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same intent built different plans:\n%+v\n%+v", a, b)
	}
}

func TestBuildCursorWindow(t *testing.T) {
	intent := offsetIntent()
	intent.Page = query.PageSpec{PageSize: 25, Cursor: "tok", After: []any{int64(7)}}

	p, err := Build(usersEntity(), intent, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	w := p.Window
	if w.Kind != query.WindowCursor || w.Limit != 25 || len(w.After) != 1 || w.After[0] != int64(7) {
		t.Fatalf("window = %+v", w)
	}
	if w.Offset != 0 {
		t.Fatalf("cursor window carries offset %d", w.Offset)
	}
	if p.WantTotal {
		t.Fatalf("cursor plan wants total")
	}
}

func TestBuildRowRangeWindow(t *testing.T) {
	intent := offsetIntent()
	intent.Page = query.PageSpec{Page: 1, PageSize: 20, StartRow: 25, EndRow: 75, HasRange: true}

	p, err := Build(usersEntity(), intent, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	w := p.Window
	if w.Kind != query.WindowOffset || w.Offset != 25 || w.Limit != 50 {
		t.Fatalf("window = %+v", w)
	}
}

func TestBuildGroupedPredicates(t *testing.T) {
	intent := query.Intent{
		Entity:   "users",
		FilterOp: query.GroupOr,
		Filters: []query.FilterClause{
			{Field: "c", Column: "c", Kind: schema.KindInteger, Op: schema.OpEq, Values: []any{int64(3)}},
			{Field: "a", Column: "a", Kind: schema.KindInteger, Op: schema.OpEq, Values: []any{int64(1)}, Group: 1, GroupOp: query.GroupAnd},
			{Field: "b", Column: "b", Kind: schema.KindInteger, Op: schema.OpEq, Values: []any{int64(2)}, Group: 1, GroupOp: query.GroupAnd},
		},
		Page: query.PageSpec{Page: 1, PageSize: 20},
	}
	p, err := Build(usersEntity(), intent, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.PredicateOp != query.GroupOr {
		t.Fatalf("predicateOp = %q", p.PredicateOp)
	}
	if p.Predicates[1].Group != 1 || p.Predicates[1].GroupOp != query.GroupAnd {
		t.Fatalf("group tags lost: %+v", p.Predicates[1])
	}
}

func TestBuildSearchAttached(t *testing.T) {
	intent := offsetIntent()
	intent.Search = &query.SearchSpec{
		Term:   "jane",
		Fields: []query.SearchField{{Name: "name", Column: "name"}},
	}
	p, err := Build(usersEntity(), intent, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.FullText == nil || len(p.FullText.Patterns) != 1 || p.FullText.Patterns[0] != "%jane%" {
		t.Fatalf("fullText = %+v", p.FullText)
	}
}
