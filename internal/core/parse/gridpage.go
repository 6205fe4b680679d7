package parse

import (
	"fmt"
	"strings"

	"listgate/internal/core/query"
)

// gridPageParser decodes the page-number grid dialect: a JSON body paging by
// a zero-based page plus pageSize, filtering through filterModel.items with
// an optional logicOperator, and sorting by a field-based sortModel
type gridPageParser struct{}

type gridPageBody struct {
	Page     *int `json:"page"`
	PageSize *int `json:"pageSize"`

	FilterModel *gridPageFilterModel `json:"filterModel"`
	SortModel   []gridPageSort       `json:"sortModel"`

	QuickFilterValues []any  `json:"quickFilterValues"`
	Cursor            string `json:"cursor"`
	ResponseFormat    string `json:"responseFormat"`
}

type gridPageFilterModel struct {
	LogicOperator string         `json:"logicOperator"`
	Items         []gridPageItem `json:"items"`
}

type gridPageItem struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type gridPageSort struct {
	Field string `json:"field"`
	Sort  string `json:"sort"`
}

func (gridPageParser) Kind() Kind { return KindGridPage }

func (gridPageParser) Parse(env Envelope) (query.ParsedSpec, error) {
	var body gridPageBody
	if err := decodeBody(env.Body, &body); err != nil {
		return query.ParsedSpec{}, fmt.Errorf("parse: grid page body: %w", err)
	}

	spec := query.ParsedSpec{FilterOp: query.GroupAnd}

	// this dialect counts pages from zero; the canonical spec counts from one
	if body.Page != nil {
		page := *body.Page + 1
		spec.Page.Page = &page
	}
	spec.Page.PageSize = body.PageSize
	spec.Page.Cursor = strings.TrimSpace(body.Cursor)
	spec.Format = strings.TrimSpace(body.ResponseFormat)

	if body.FilterModel != nil {
		if strings.EqualFold(body.FilterModel.LogicOperator, "or") {
			spec.FilterOp = query.GroupOr
		}
		for _, item := range body.FilterModel.Items {
			name := gridFieldName(item.Field)
			if name == "" {
				continue
			}
			op, vals := translateItemOperator(item.Operator, item.Value)
			spec.Filters = append(spec.Filters, query.RawFilter{Field: name, Op: op, Values: vals})
		}
	}

	for _, s := range body.SortModel {
		name := gridFieldName(s.Field)
		if name == "" {
			continue
		}
		spec.Sort = append(spec.Sort, query.RawSort{Field: name, Desc: strings.EqualFold(s.Sort, "desc")})
	}

	if len(body.QuickFilterValues) > 0 {
		terms := make([]string, 0, len(body.QuickFilterValues))
		for _, v := range body.QuickFilterValues {
			if t := strings.TrimSpace(stringifyScalar(v)); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) > 0 {
			spec.Search = &query.RawSearch{Term: strings.Join(terms, " ")}
		}
	}
	return spec, nil
}

// translateItemOperator maps the page-number grid operator vocabulary onto
// the canonical operator set. Unknown spellings pass through for the
// validator to reject by name
func translateItemOperator(op string, value any) (string, []string) {
	switch op {
	case "=", "equals", "is":
		return "eq", stringifyValue(value)
	case "!=", "not":
		return "neq", stringifyValue(value)
	case ">", "after":
		return "gt", stringifyValue(value)
	case ">=", "onOrAfter":
		return "gte", stringifyValue(value)
	case "<", "before":
		return "lt", stringifyValue(value)
	case "<=", "onOrBefore":
		return "lte", stringifyValue(value)
	case "contains":
		return "contains", stringifyValue(value)
	case "doesNotContain":
		return "notContains", stringifyValue(value)
	case "startsWith":
		return "startsWith", stringifyValue(value)
	case "endsWith":
		return "endsWith", stringifyValue(value)
	case "isEmpty":
		return "isNull", nil
	case "isNotEmpty":
		return "isNotNull", nil
	case "isAnyOf":
		return "in", stringifyValue(value)
	default:
		return op, stringifyValue(value)
	}
}
