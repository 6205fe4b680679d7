package repo

import (
	"fmt"
	"strconv"
	"strings"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
)

// dialect captures the syntax differences between the two backends: bind
// placeholder style and whether pattern matches need an explicit escape
// clause. ClickHouse escapes LIKE metacharacters with backslash natively
type dialect struct {
	placeholder func(n int) string
	escape      string
}

var (
	pgDialect = dialect{
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		escape:      ` ESCAPE '\'`,
	}
	chDialect = dialect{
		placeholder: func(n int) string { return "?" },
	}
)

// compiler renders one sealed plan into a parameterized statement. Every
// request-derived value travels as a bind argument; the only identifiers
// spliced into the text come from registry metadata. The error is sticky:
// the first failure wins and the output is discarded
type compiler struct {
	d    dialect
	sb   strings.Builder
	args []any
	err  error
}

// compileSelect renders the page query. When the plan skips the total count
// the limit probes one row past the page so the caller learns hasMore
func compileSelect(d dialect, p *query.Plan) (string, []any, error) {
	c := &compiler{d: d}
	c.sb.WriteString("SELECT ")
	c.sb.WriteString(projection(p.Columns))
	c.sb.WriteString(" FROM ")
	c.sb.WriteString(p.Table)
	c.writeWhere(p, true)
	c.writeOrder(p.OrderBy)

	limit := p.Window.Limit
	if !p.WantTotal {
		limit++
	}
	c.sb.WriteString(" LIMIT ")
	c.sb.WriteString(c.bind(limit))
	if p.Window.Kind == query.WindowOffset && p.Window.Offset > 0 {
		c.sb.WriteString(" OFFSET ")
		c.sb.WriteString(c.bind(p.Window.Offset))
	}
	return c.sb.String(), c.args, c.err
}

// compileCount renders the exact count over the same filtered set. The
// cursor continuation predicate is not part of the set, so it is skipped
func compileCount(d dialect, p *query.Plan) (string, []any, error) {
	c := &compiler{d: d}
	c.sb.WriteString("SELECT count(*) FROM ")
	c.sb.WriteString(p.Table)
	c.writeWhere(p, false)
	return c.sb.String(), c.args, c.err
}

// bind registers v as the next argument and returns its placeholder
func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return c.d.placeholder(len(c.args))
}

func (c *compiler) match(col string, v any) string {
	return col + " ILIKE " + c.bind(v) + c.d.escape
}

// writeWhere combines the filter block, the full-text block, and (for page
// queries on a cursor window) the keyset continuation, all conjoined
func (c *compiler) writeWhere(p *query.Plan, keyset bool) {
	var conj []string
	if f := c.filterBlock(p); f != "" {
		conj = append(conj, f)
	}
	if ft := c.fullTextBlock(p.FullText); ft != "" {
		conj = append(conj, ft)
	}
	if keyset && p.Window.Kind == query.WindowCursor && len(p.Window.After) > 0 {
		conj = append(conj, c.keysetBlock(p.OrderBy, p.Window.After))
	}
	if len(conj) == 0 {
		return
	}
	c.sb.WriteString(" WHERE ")
	c.sb.WriteString(strings.Join(conj, " AND "))
}

// filterBlock joins top-level filter units with the plan combinator. Each
// ungrouped predicate is its own unit; a tagged group renders once, at its
// first clause's position, as a parenthesized run joined by the group's own
// connector
func (c *compiler) filterBlock(p *query.Plan) string {
	if len(p.Predicates) == 0 {
		return ""
	}
	byGroup := make(map[int][]query.Predicate)
	for _, pr := range p.Predicates {
		if pr.Group != 0 {
			byGroup[pr.Group] = append(byGroup[pr.Group], pr)
		}
	}

	var units []string
	emitted := make(map[int]bool)
	for _, pr := range p.Predicates {
		if pr.Group == 0 {
			units = append(units, c.predicate(pr))
			continue
		}
		if emitted[pr.Group] {
			continue
		}
		emitted[pr.Group] = true
		run := byGroup[pr.Group]
		frags := make([]string, 0, len(run))
		for _, gp := range run {
			frags = append(frags, c.predicate(gp))
		}
		units = append(units, "("+strings.Join(frags, connector(run[0].GroupOp))+")")
	}

	joined := strings.Join(units, connector(p.PredicateOp))
	if len(units) > 1 {
		return "(" + joined + ")"
	}
	return joined
}

// predicate renders one condition. Pattern operators receive pre-escaped
// LIKE patterns from the plan; everything else binds coerced native values
func (c *compiler) predicate(pr query.Predicate) string {
	col := pr.Column
	switch pr.Op {
	case schema.OpEq:
		return col + " = " + c.bind(pr.Values[0])
	case schema.OpNeq:
		return col + " <> " + c.bind(pr.Values[0])
	case schema.OpGt:
		return col + " > " + c.bind(pr.Values[0])
	case schema.OpGte:
		return col + " >= " + c.bind(pr.Values[0])
	case schema.OpLt:
		return col + " < " + c.bind(pr.Values[0])
	case schema.OpLte:
		return col + " <= " + c.bind(pr.Values[0])
	case schema.OpBetween:
		return col + " BETWEEN " + c.bind(pr.Values[0]) + " AND " + c.bind(pr.Values[1])
	case schema.OpIn:
		return col + " IN (" + c.bindList(pr.Values) + ")"
	case schema.OpNotIn:
		return col + " NOT IN (" + c.bindList(pr.Values) + ")"
	case schema.OpContains, schema.OpStartsWith, schema.OpEndsWith:
		return c.match(col, pr.Values[0])
	case schema.OpNotContains:
		return "NOT " + c.match(col, pr.Values[0])
	case schema.OpIsNull:
		return col + " IS NULL"
	case schema.OpIsNotNull:
		return col + " IS NOT NULL"
	default:
		if c.err == nil {
			c.err = fmt.Errorf("repo: unsupported operator %q in sealed plan", pr.Op)
		}
		return "1=0"
	}
}

func (c *compiler) bindList(vals []any) string {
	phs := make([]string, 0, len(vals))
	for _, v := range vals {
		phs = append(phs, c.bind(v))
	}
	return strings.Join(phs, ", ")
}

// fullTextBlock requires every search pattern to match at least one of the
// searchable fields
func (c *compiler) fullTextBlock(ft *query.FullText) string {
	if ft == nil || len(ft.Patterns) == 0 || len(ft.Fields) == 0 {
		return ""
	}
	pats := make([]string, 0, len(ft.Patterns))
	for _, pat := range ft.Patterns {
		fields := make([]string, 0, len(ft.Fields))
		for _, f := range ft.Fields {
			fields = append(fields, c.match(f.Column, pat))
		}
		block := strings.Join(fields, " OR ")
		if len(fields) > 1 {
			block = "(" + block + ")"
		}
		pats = append(pats, block)
	}
	if len(pats) == 1 {
		return pats[0]
	}
	return "(" + strings.Join(pats, " AND ") + ")"
}

// keysetBlock renders the continuation predicate for a cursor window: the
// strict-progress OR chain over the order keys, honoring per-key direction
func (c *compiler) keysetBlock(keys []query.OrderKey, after []any) string {
	n := len(keys)
	if len(after) < n {
		n = len(after)
	}
	var alts []string
	for i := 0; i < n; i++ {
		var terms []string
		for j := 0; j < i; j++ {
			terms = append(terms, keys[j].Column+" = "+c.bind(after[j]))
		}
		cmp := " > "
		if keys[i].Desc {
			cmp = " < "
		}
		terms = append(terms, keys[i].Column+cmp+c.bind(after[i]))
		alt := strings.Join(terms, " AND ")
		if len(terms) > 1 {
			alt = "(" + alt + ")"
		}
		alts = append(alts, alt)
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return "(" + strings.Join(alts, " OR ") + ")"
}

func (c *compiler) writeOrder(keys []query.OrderKey) {
	if len(keys) == 0 {
		return
	}
	c.sb.WriteString(" ORDER BY ")
	for i, k := range keys {
		if i > 0 {
			c.sb.WriteString(", ")
		}
		c.sb.WriteString(k.Column)
		if k.Desc {
			c.sb.WriteString(" DESC")
		} else {
			c.sb.WriteString(" ASC")
		}
		if k.NullsLast {
			c.sb.WriteString(" NULLS LAST")
		}
	}
}

// projection lists plan columns under their wire-facing field names, falling
// back to a bare star when the plan carries no projection
func projection(cols []query.SelectColumn) string {
	if len(cols) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(cols))
	for _, sc := range cols {
		if sc.Field != "" && sc.Field != sc.Column {
			parts = append(parts, sc.Column+" AS "+sc.Field)
			continue
		}
		parts = append(parts, sc.Column)
	}
	return strings.Join(parts, ", ")
}

func connector(op query.GroupOp) string {
	if op == query.GroupOr {
		return " OR "
	}
	return " AND "
}
