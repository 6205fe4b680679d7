package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"listgate/internal/core/query"
)

// gridRangeParser decodes the row-range grid dialect: a JSON body paging by
// startRow/endRow with a per-column filterModel and a colId-based sortModel.
// Column filters arrive as an unordered map, so clauses are emitted in
// alphabetical column order to keep plans reproducible
type gridRangeParser struct{}

type gridRangeBody struct {
	StartRow *int `json:"startRow"`
	EndRow   *int `json:"endRow"`

	FilterModel map[string]gridColFilter `json:"filterModel"`
	SortModel   []gridRangeSort          `json:"sortModel"`

	QuickFilter    string `json:"quickFilter"`
	ResponseFormat string `json:"responseFormat"`
}

type gridRangeSort struct {
	ColID string `json:"colId"`
	Sort  string `json:"sort"`
}

type gridColFilter struct {
	FilterType string `json:"filterType"`
	Type       string `json:"type"`
	Filter     any    `json:"filter"`
	FilterTo   any    `json:"filterTo"`
	DateFrom   string `json:"dateFrom"`
	DateTo     string `json:"dateTo"`
	Values     []any  `json:"values"`
}

func (gridRangeParser) Kind() Kind { return KindGridRange }

func (gridRangeParser) Parse(env Envelope) (query.ParsedSpec, error) {
	var body gridRangeBody
	if err := decodeBody(env.Body, &body); err != nil {
		return query.ParsedSpec{}, fmt.Errorf("parse: grid range body: %w", err)
	}

	spec := query.ParsedSpec{FilterOp: query.GroupAnd}
	spec.Page.StartRow = body.StartRow
	spec.Page.EndRow = body.EndRow
	spec.Format = strings.TrimSpace(body.ResponseFormat)

	cols := make([]string, 0, len(body.FilterModel))
	for col := range body.FilterModel {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		name := gridFieldName(col)
		if name == "" {
			continue
		}
		cf := body.FilterModel[col]
		op, vals := translateColFilter(cf)
		spec.Filters = append(spec.Filters, query.RawFilter{Field: name, Op: op, Values: vals})
	}

	for _, s := range body.SortModel {
		name := gridFieldName(s.ColID)
		if name == "" {
			continue
		}
		spec.Sort = append(spec.Sort, query.RawSort{Field: name, Desc: strings.EqualFold(s.Sort, "desc")})
	}

	if term := strings.TrimSpace(body.QuickFilter); term != "" {
		spec.Search = &query.RawSearch{Term: term}
	}
	return spec, nil
}

// gridFieldName sanitizes a grid column id and converts its camelCase
// convention to the registry's snake_case field names
func gridFieldName(col string) string {
	name := CleanFieldName(col)
	if name == "" {
		return ""
	}
	return strcase.ToSnake(name)
}

// translateColFilter maps the row-range grid operator vocabulary onto the
// canonical operator set. Unknown spellings pass through for the validator
// to reject by name
func translateColFilter(cf gridColFilter) (string, []string) {
	// set filters carry their values directly
	if strings.EqualFold(cf.FilterType, "set") || len(cf.Values) > 0 {
		vals := make([]string, 0, len(cf.Values))
		for _, v := range cf.Values {
			vals = append(vals, stringifyScalar(v))
		}
		return "in", vals
	}

	first := stringifyScalar(cf.Filter)
	second := stringifyScalar(cf.FilterTo)
	if cf.DateFrom != "" {
		first = cf.DateFrom
	}
	if cf.DateTo != "" {
		second = cf.DateTo
	}

	switch cf.Type {
	case "equals":
		return "eq", []string{first}
	case "notEqual":
		return "neq", []string{first}
	case "contains":
		return "contains", []string{first}
	case "notContains":
		return "notContains", []string{first}
	case "startsWith":
		return "startsWith", []string{first}
	case "endsWith":
		return "endsWith", []string{first}
	case "lessThan":
		return "lt", []string{first}
	case "lessThanOrEqual":
		return "lte", []string{first}
	case "greaterThan":
		return "gt", []string{first}
	case "greaterThanOrEqual":
		return "gte", []string{first}
	case "inRange":
		return "between", []string{first, second}
	case "blank":
		return "isNull", nil
	case "notBlank":
		return "isNotNull", nil
	default:
		return cf.Type, stringifyValue(cf.Filter)
	}
}
