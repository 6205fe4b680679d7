package parse

import "listgate/internal/core/query"

// simpleParser treats every non-reserved query parameter as an equality
// filter. A key repeated with multiple values becomes a set-membership
// clause instead. It is the detector's fallback and never fails
type simpleParser struct{}

func (simpleParser) Kind() Kind { return KindSimple }

func (simpleParser) Parse(env Envelope) (query.ParsedSpec, error) {
	spec := query.ParsedSpec{FilterOp: query.GroupAnd}

	// first-seen order of filter keys defines clause order
	var order []string
	values := make(map[string][]string)

	for _, p := range Pairs(env.Query) {
		if consumeReserved(&spec, p.Key, p.Value) {
			continue
		}
		name := CleanFieldName(p.Key)
		if name == "" {
			continue
		}
		if _, seen := values[name]; !seen {
			order = append(order, name)
		}
		values[name] = append(values[name], p.Value)
	}

	for _, name := range order {
		vs := values[name]
		op := "eq"
		if len(vs) > 1 {
			op = "in"
		}
		spec.Filters = append(spec.Filters, query.RawFilter{Field: name, Op: op, Values: vs})
	}
	return spec, nil
}
