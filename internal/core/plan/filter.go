package plan

import (
	"strings"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

// likeEscaper makes user input match literally inside a LIKE pattern.
// The compiled SQL pairs every pattern with ESCAPE '\'
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// predicate maps one coerced filter clause onto its executable predicate.
// Pattern operators get their LIKE pattern built here so the execution layer
// only ever binds values
func predicate(fc query.FilterClause) query.Predicate {
	p := query.Predicate{
		Field:   fc.Field,
		Column:  fc.Column,
		Kind:    fc.Kind,
		Op:      fc.Op,
		Values:  fc.Values,
		Group:   fc.Group,
		GroupOp: fc.GroupOp,
	}
	switch fc.Op {
	case schema.OpContains, schema.OpNotContains:
		p.Values = patternValues(fc.Values, true, true)
	case schema.OpStartsWith:
		p.Values = patternValues(fc.Values, false, true)
	case schema.OpEndsWith:
		p.Values = patternValues(fc.Values, true, false)
	}
	return p
}

func patternValues(vals []any, pre, post bool) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		s, _ := v.(string)
		p := likeEscaper.Replace(s)
		if pre {
			p = "%" + p
		}
		if post {
			p += "%"
		}
		out[i] = p
	}
	return out
}
