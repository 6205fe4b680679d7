package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

// advancedParser decodes the verbose format: an advancedFilter tree of
// boolean condition groups plus an advancedSort list, carried either in a
// JSON body or JSON-encoded in the equally named query parameters. One level
// of grouping is flattened into group-tagged clauses; anything nested deeper
// is recorded as a defect rather than guessed at
type advancedParser struct{}

type advancedBody struct {
	AdvancedFilter *advGroup  `json:"advancedFilter"`
	AdvancedSort   []advSort  `json:"advancedSort"`
	Search         *advSearch `json:"search"`
	Page           *int       `json:"page"`
	PageSize       *int       `json:"pageSize"`
	Cursor         string     `json:"cursor"`
	ResponseFormat string     `json:"responseFormat"`
}

type advGroup struct {
	Operator   string     `json:"operator"`
	Conditions []advCond  `json:"conditions"`
	Groups     []advGroup `json:"groups"`
}

type advCond struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
	Values   []any  `json:"values"`
}

type advSort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type advSearch struct {
	Term   string   `json:"term"`
	Fields []string `json:"fields"`
}

func (advancedParser) Kind() Kind { return KindAdvanced }

func (advancedParser) Parse(env Envelope) (query.ParsedSpec, error) {
	spec := query.ParsedSpec{FilterOp: query.GroupAnd}

	var body advancedBody
	if len(env.Body) > 0 {
		if err := decodeBody(env.Body, &body); err != nil {
			return query.ParsedSpec{}, fmt.Errorf("parse: advanced body: %w", err)
		}
		spec.Page.Page = body.Page
		spec.Page.PageSize = body.PageSize
		spec.Page.Cursor = strings.TrimSpace(body.Cursor)
		spec.Format = strings.TrimSpace(body.ResponseFormat)
		if body.Search != nil {
			if term := strings.TrimSpace(body.Search.Term); term != "" {
				s := ensureSearch(&spec)
				s.Term = term
				for _, f := range body.Search.Fields {
					if name := CleanFieldName(f); name != "" {
						s.Fields = append(s.Fields, name)
					}
				}
			}
		}
	} else {
		// query-parameter carriage: advancedFilter/advancedSort hold JSON
		for _, p := range Pairs(env.Query) {
			switch p.Key {
			case "advancedFilter":
				var g advGroup
				if err := json.Unmarshal([]byte(p.Value), &g); err != nil {
					return query.ParsedSpec{}, fmt.Errorf("parse: advancedFilter param: %w", err)
				}
				body.AdvancedFilter = &g
			case "advancedSort":
				var s []advSort
				if err := json.Unmarshal([]byte(p.Value), &s); err != nil {
					return query.ParsedSpec{}, fmt.Errorf("parse: advancedSort param: %w", err)
				}
				body.AdvancedSort = s
			default:
				consumeReserved(&spec, p.Key, p.Value)
			}
		}
	}

	if body.AdvancedFilter != nil {
		flattenGroup(&spec, body.AdvancedFilter)
	}
	for _, s := range body.AdvancedSort {
		if name := CleanFieldName(s.Field); name != "" {
			spec.Sort = append(spec.Sort, query.RawSort{Field: name, Desc: strings.EqualFold(s.Direction, "desc")})
		}
	}
	return spec, nil
}

// flattenGroup lowers the advanced filter tree into tagged clauses: the root
// combinator becomes the spec's FilterOp, root conditions join group 0, and
// each first-level subgroup gets the next group id with its own combinator.
// Deeper nesting is not lowered; each offending subgroup leaves one defect
func flattenGroup(spec *query.ParsedSpec, root *advGroup) {
	spec.FilterOp = groupOp(root.Operator)

	for _, c := range root.Conditions {
		if rf, ok := condClause(c, 0, ""); ok {
			spec.Filters = append(spec.Filters, rf)
		}
	}

	for i, sub := range root.Groups {
		id := i + 1
		op := groupOp(sub.Operator)
		if len(sub.Groups) > 0 {
			spec.Defects = append(spec.Defects, query.ValidationError{
				Scope:        query.ScopeFilter,
				Code:         query.CodeUnsupportedGroupDepth,
				Message:      "filter groups nest deeper than one level",
				SuggestedFix: "flatten the filter tree to a single level of groups",
			})
		}
		for _, c := range sub.Conditions {
			if rf, ok := condClause(c, id, op); ok {
				spec.Filters = append(spec.Filters, rf)
			}
		}
	}
}

func condClause(c advCond, group int, op query.GroupOp) (query.RawFilter, bool) {
	name := CleanFieldName(c.Field)
	if name == "" {
		return query.RawFilter{}, false
	}
	vals := stringifyValue(c.Value)
	if len(c.Values) > 0 {
		vals = nil
		for _, v := range c.Values {
			vals = append(vals, stringifyScalar(v))
		}
	}
	wireOp := normalizeOp(c.Operator)
	if canon, ok := schema.CanonicalOp(wireOp); ok && schema.Arity(canon) == 0 {
		vals = nil
	}
	return query.RawFilter{Field: name, Op: wireOp, Values: vals, Group: group, GroupOp: op}, true
}

func groupOp(s string) query.GroupOp {
	if strings.EqualFold(s, "or") {
		return query.GroupOr
	}
	return query.GroupAnd
}
