package plan

import (
	"strings"
	"unicode"

	"listgate/internal/core/query"
)

// fullText folds and tokenizes the search term, then wraps each token in an
// escaped LIKE pattern over the resolved searchable fields. A term that
// folds away to nothing yields no predicate
func fullText(s query.SearchSpec) *query.FullText {
	toks := tokenize(foldTerm(s.Term))
	if len(toks) == 0 {
		return nil
	}
	pats := make([]string, len(toks))
	for i, tok := range toks {
		pats[i] = "%" + likeEscaper.Replace(tok) + "%"
	}
	return &query.FullText{Fields: s.Fields, Patterns: pats}
}

// tokenize splits a search term on whitespace; double-quoted runs stay
// together as exact phrases. Duplicate tokens collapse, first occurrence wins
func tokenize(term string) []string {
	var (
		out     []string
		seen    = map[string]struct{}{}
		cur     strings.Builder
		inQuote bool
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := cur.String()
		cur.Reset()
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	for _, r := range term {
		switch {
		case r == '"':
			if inQuote {
				flush()
			}
			inQuote = !inQuote
		case !inQuote && unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
