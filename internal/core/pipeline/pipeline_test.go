package pipeline

import (
	"encoding/base64"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"listgate/internal/core/envelope"
	"listgate/internal/core/parse"
	"listgate/internal/core/query"
	"listgate/internal/core/schema"
	"listgate/internal/core/validate"
)

const regYAML = `
version: 1
entities:
  - name: users
    fields:
      - name: id
        kind: id
        sortable: true
      - name: name
        kind: text
        searchable: true
        sortable: true
      - name: status
        kind: enum
        values: [active, suspended]
      - name: created_at
        kind: datetime
        sortable: true
  - name: tickets
    fields:
      - name: id
        kind: id
        sortable: true
      - name: price
        kind: float
        operators: [eq, neq, gt, lt]
        sortable: true
`

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	reg, err := schema.Parse([]byte(regYAML))
	if err != nil {
		t.Fatalf("parse registry: %v", err)
	}
	return New(reg, validate.Limits{MaxPageSize: 100, DefaultPageSize: 20, MaxSortKeys: 3, MaxFilterValues: 10}, "pipeline-test-secret")
}

func mustPlan(t *testing.T, pl *Pipeline, entity string, env parse.Envelope) Output {
	t.Helper()
	out, rep, err := pl.Plan(entity, env)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if rep != nil {
		t.Fatalf("unexpected report: %+v", rep)
	}
	return out
}

func TestPlanSimpleRequest(t *testing.T) {
	pl := testPipeline(t)
	out := mustPlan(t, pl, "users", parse.Envelope{Query: "status=active&page=2&pageSize=10"})

	if out.Kind != parse.KindSimple || out.Family != envelope.FamilyOffset || out.FellBack {
		t.Fatalf("output = %+v", out)
	}
	p := out.Plan
	if len(p.Predicates) != 1 || p.Predicates[0].Op != schema.OpEq || p.Predicates[0].Values[0] != "active" {
		t.Fatalf("predicates = %+v", p.Predicates)
	}
	if len(p.OrderBy) != 1 || p.OrderBy[0].Field != "id" || p.OrderBy[0].Desc {
		t.Fatalf("orderBy = %+v", p.OrderBy)
	}
	if p.Window.Kind != query.WindowOffset || p.Window.Offset != 10 || p.Window.Limit != 10 {
		t.Fatalf("window = %+v", p.Window)
	}
	if !p.WantTotal {
		t.Fatalf("offset family must want a total")
	}
}

func TestPlanOperatorNotAllowed(t *testing.T) {
	pl := testPipeline(t)
	out, rep, err := pl.Plan("tickets", parse.Envelope{Query: "filter[price][between]=10,50"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if rep == nil || len(rep.Errors) != 1 {
		t.Fatalf("report = %+v", rep)
	}
	e := rep.Errors[0]
	if e.Code != query.CodeOperatorNotAllowed || e.Field != "price" {
		t.Fatalf("error = %+v", e)
	}
	if !strings.Contains(e.SuggestedFix, "eq, neq, gt, lt") {
		t.Fatalf("suggestedFix = %q", e.SuggestedFix)
	}
	if out.Plan != nil {
		t.Fatalf("plan built despite validation failure")
	}
}

func TestPlanGridUnknownField(t *testing.T) {
	pl := testPipeline(t)
	body := `{"startRow":0,"endRow":25,"filterModel":{"foo":{"filterType":"text","type":"contains","filter":"x"}}}`
	out, rep, err := pl.Plan("users", parse.Envelope{Body: []byte(body)})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if rep == nil || len(rep.Errors) != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.Errors[0].Code != query.CodeUnknownField || rep.Errors[0].Field != "foo" {
		t.Fatalf("error = %+v", rep.Errors[0])
	}
	if out.Kind != parse.KindGridRange || out.Plan != nil {
		t.Fatalf("output = %+v", out)
	}
}

func TestPlanAdvancedGroupFlattening(t *testing.T) {
	pl := testPipeline(t)
	body := `{
		"advancedFilter": {
			"operator": "or",
			"conditions": [{"field": "status", "operator": "eq", "value": "active"}],
			"groups": [{
				"operator": "and",
				"conditions": [
					{"field": "name", "operator": "startsWith", "value": "a"},
					{"field": "name", "operator": "endsWith", "value": "z"}
				]
			}]
		}
	}`
	out := mustPlan(t, pl, "users", parse.Envelope{Body: []byte(body)})

	p := out.Plan
	if p.PredicateOp != query.GroupOr {
		t.Fatalf("predicateOp = %q", p.PredicateOp)
	}
	if len(p.Predicates) != 3 {
		t.Fatalf("predicates = %+v", p.Predicates)
	}
	if p.Predicates[0].Group != 0 || p.Predicates[1].Group != 1 || p.Predicates[2].Group != 1 {
		t.Fatalf("group tags = %+v", p.Predicates)
	}
	if p.Predicates[1].GroupOp != query.GroupAnd {
		t.Fatalf("group op = %+v", p.Predicates[1])
	}
	if p.Predicates[1].Values[0] != "a%" {
		t.Fatalf("startsWith pattern = %+v", p.Predicates[1].Values)
	}
}

func TestPlanCrossFormatEquivalence(t *testing.T) {
	pl := testPipeline(t)

	envs := map[string]parse.Envelope{
		"simple":     {Query: "status=active&sort=-created_at&page=2&pageSize=10"},
		"structured": {Query: "filter[status][eq]=active&sort=-created_at&page=2&pageSize=10"},
		"gridRange": {Body: []byte(`{
			"startRow": 10, "endRow": 20,
			"filterModel": {"status": {"filterType": "text", "type": "equals", "filter": "active"}},
			"sortModel": [{"colId": "created_at", "sort": "desc"}]
		}`)},
		"gridPage": {Body: []byte(`{
			"page": 1, "pageSize": 10,
			"filterModel": {"items": [{"field": "status", "operator": "equals", "value": "active"}]},
			"sortModel": [{"field": "created_at", "sort": "desc"}]
		}`)},
		"advanced": {Body: []byte(`{
			"advancedFilter": {"operator": "and", "conditions": [{"field": "status", "operator": "eq", "value": "active"}]},
			"advancedSort": [{"field": "created_at", "direction": "desc"}],
			"page": 2, "pageSize": 10
		}`)},
	}

	var ref *query.Plan
	for name, env := range envs {
		out := mustPlan(t, pl, "users", env)
		p := *out.Plan
		p.WantTotal = false // family-dependent, not part of the intent
		if ref == nil {
			ref = &p
			continue
		}
		if !reflect.DeepEqual(&p, ref) {
			t.Fatalf("%s plan differs:\n%+v\nwant\n%+v", name, &p, ref)
		}
	}

	if len(ref.OrderBy) != 2 || ref.OrderBy[0].Field != "created_at" || !ref.OrderBy[0].Desc || ref.OrderBy[1].Field != "id" {
		t.Fatalf("orderBy = %+v", ref.OrderBy)
	}
	if ref.Window.Offset != 10 || ref.Window.Limit != 10 {
		t.Fatalf("window = %+v", ref.Window)
	}
}

func TestPlanIdempotent(t *testing.T) {
	pl := testPipeline(t)
	env := parse.Envelope{Query: "status=active&sort=-created_at&page=3&pageSize=25"}

	a := mustPlan(t, pl, "users", env)
	b := mustPlan(t, pl, "users", env)
	if !reflect.DeepEqual(a.Plan, b.Plan) {
		t.Fatalf("plans differ:\n%+v\n%+v", a.Plan, b.Plan)
	}
}

func TestPlanFallsBackToSimple(t *testing.T) {
	pl := testPipeline(t)
	out := mustPlan(t, pl, "users", parse.Envelope{Query: "advancedFilter=notjson&status=active"})

	if !out.FellBack || out.Kind != parse.KindSimple {
		t.Fatalf("output = %+v", out)
	}
	if len(out.Plan.Predicates) != 1 || out.Plan.Predicates[0].Field != "status" {
		t.Fatalf("predicates = %+v", out.Plan.Predicates)
	}
}

func TestPlanUnknownEntity(t *testing.T) {
	pl := testPipeline(t)
	_, _, err := pl.Plan("ghosts", parse.Envelope{})
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("err = %v", err)
	}
}

func TestPlanCursorContinuation(t *testing.T) {
	pl := testPipeline(t)

	first := mustPlan(t, pl, "users", parse.Envelope{Query: "pageSize=2&responseFormat=cursor"})
	if first.Family != envelope.FamilyCursor {
		t.Fatalf("family = %s", first.Family)
	}
	if first.Plan.Window.Kind != query.WindowOffset || first.Plan.Window.Offset != 0 {
		t.Fatalf("first window = %+v", first.Plan.Window)
	}

	lastID := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	token, err := pl.NextCursor(first.Plan, map[string]any{"id": lastID})
	if err != nil {
		t.Fatalf("next cursor: %v", err)
	}

	second := mustPlan(t, pl, "users", parse.Envelope{Query: "pageSize=2&cursor=" + token})
	if second.Family != envelope.FamilyCursor {
		t.Fatalf("family = %s", second.Family)
	}
	w := second.Plan.Window
	if w.Kind != query.WindowCursor || w.Limit != 2 {
		t.Fatalf("second window = %+v", w)
	}
	if len(w.After) != 1 || w.After[0] != lastID {
		t.Fatalf("continuation keys = %#v", w.After)
	}
}

func TestPlanTamperedCursorRejected(t *testing.T) {
	pl := testPipeline(t)

	first := mustPlan(t, pl, "users", parse.Envelope{Query: "pageSize=2&responseFormat=cursor"})
	token, err := pl.NextCursor(first.Plan, map[string]any{"id": uuid.New()})
	if err != nil {
		t.Fatalf("next cursor: %v", err)
	}
	raw, _ := base64.RawURLEncoding.DecodeString(token)
	raw[2] ^= 0x01
	forged := base64.RawURLEncoding.EncodeToString(raw)

	_, rep, err := pl.Plan("users", parse.Envelope{Query: "cursor=" + forged})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if rep == nil || rep.Errors[0].Code != query.CodeInvalidCursor {
		t.Fatalf("report = %+v", rep)
	}
}
