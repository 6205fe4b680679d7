package parse

import (
	"regexp"
	"strings"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

// clauseKeyRe captures field and operator from filter[field][op];
// shorthandKeyRe captures filter[field], an equality shorthand
var (
	clauseKeyRe    = regexp.MustCompile(`^filter\[([^\]]+)\]\[([^\]]+)\]$`)
	shorthandKeyRe = regexp.MustCompile(`^filter\[([^\]]+)\]$`)
)

// structuredParser decodes bracketed filter[field][operator]=value keys.
// Repeated keys accumulate values on the same (field, operator) clause, and
// multi-value operators additionally split each value on commas. Plain
// non-reserved keys still act as simple equality filters so the two query
// string styles can mix
type structuredParser struct{}

func (structuredParser) Kind() Kind { return KindStructured }

func (structuredParser) Parse(env Envelope) (query.ParsedSpec, error) {
	spec := query.ParsedSpec{FilterOp: query.GroupAnd}

	type clauseKey struct{ field, op string }
	var order []clauseKey
	values := make(map[clauseKey][]string)

	add := func(field, op, raw string) {
		k := clauseKey{field: field, op: op}
		if _, seen := values[k]; !seen {
			order = append(order, k)
		}
		if multiValueOp(op) {
			for _, part := range strings.Split(raw, ",") {
				values[k] = append(values[k], strings.TrimSpace(part))
			}
			return
		}
		values[k] = append(values[k], raw)
	}

	for _, p := range Pairs(env.Query) {
		if m := clauseKeyRe.FindStringSubmatch(p.Key); m != nil {
			field := CleanFieldName(m[1])
			if field == "" {
				continue
			}
			add(field, normalizeOp(m[2]), p.Value)
			continue
		}
		if m := shorthandKeyRe.FindStringSubmatch(p.Key); m != nil {
			field := CleanFieldName(m[1])
			if field == "" {
				continue
			}
			add(field, "eq", p.Value)
			continue
		}
		if consumeReserved(&spec, p.Key, p.Value) {
			continue
		}
		if name := CleanFieldName(p.Key); name != "" {
			add(name, "eq", p.Value)
		}
	}

	for _, k := range order {
		vs := values[k]
		// zero-arity operators carry no values even when the wire had one
		if op, ok := schema.CanonicalOp(k.op); ok && schema.Arity(op) == 0 {
			vs = nil
		}
		spec.Filters = append(spec.Filters, query.RawFilter{Field: k.field, Op: k.op, Values: vs})
	}
	return spec, nil
}

// normalizeOp maps a wire operator spelling onto its canonical form when
// recognized; unknown spellings pass through for the validator to reject
func normalizeOp(s string) string {
	if op, ok := schema.CanonicalOp(strings.TrimSpace(s)); ok {
		return string(op)
	}
	return strings.TrimSpace(s)
}

// multiValueOp reports whether an operator accepts a comma-joined value list
func multiValueOp(s string) bool {
	op, ok := schema.CanonicalOp(s)
	if !ok {
		return false
	}
	return schema.Arity(op) == -1 || op == schema.OpBetween
}
