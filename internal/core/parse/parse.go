// Package parse converts the mutually incompatible wire formats a list
// request may arrive in (simple key=value, bracketed structured filters,
// two JSON grid payload dialects, and the verbose advanced format) into one
// canonical query.ParsedSpec. Detection is a pure function of the request's
// key set; parsing is forgiving and defers semantic rejection to the
// validator
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"listgate/internal/core/query"
)

// Kind names one wire format parser
type Kind string

// Parser kinds
const (
	KindSimple     Kind = "simple"
	KindStructured Kind = "structured"
	KindGridRange  Kind = "gridRange"
	KindGridPage   Kind = "gridPage"
	KindAdvanced   Kind = "advanced"
)

// Envelope is the raw request handed in by the HTTP layer: the unparsed
// query string (order preserved) and the optional JSON body. Read-only to
// this package
type Envelope struct {
	Query string
	Body  []byte
}

// Parser converts one wire format into the canonical spec. A non-nil error
// means a structural/syntax failure; the caller falls back to the simple
// parser rather than failing the request
type Parser interface {
	Kind() Kind
	Parse(env Envelope) (query.ParsedSpec, error)
}

// For returns the parser implementation for a kind
func For(k Kind) Parser {
	switch k {
	case KindStructured:
		return structuredParser{}
	case KindGridRange:
		return gridRangeParser{}
	case KindGridPage:
		return gridPageParser{}
	case KindAdvanced:
		return advancedParser{}
	default:
		return simpleParser{}
	}
}

// bracketKeyRe matches filter[field] and filter[field][op] query keys
var bracketKeyRe = regexp.MustCompile(`^filter\[[^\]]+\](\[[^\]]+\])?$`)

// Detect selects the parser for an envelope. First match wins; the simple
// parser is the unconditional fallback, so detection never errors
func Detect(env Envelope) Kind {
	keys := bodyKeys(env.Body)
	if keys != nil {
		if keys["startRow"] || keys["endRow"] {
			return KindGridRange
		}
		if keys["filterModel"] || keys["sortModel"] {
			return KindGridPage
		}
	}
	for _, p := range Pairs(env.Query) {
		if bracketKeyRe.MatchString(p.Key) {
			return KindStructured
		}
	}
	if keys != nil && (keys["advancedFilter"] || keys["advancedSort"]) {
		return KindAdvanced
	}
	for _, p := range Pairs(env.Query) {
		if p.Key == "advancedFilter" || p.Key == "advancedSort" {
			return KindAdvanced
		}
	}
	return KindSimple
}

// bodyKeys returns the top-level key set of a JSON object body, or nil when
// the body is absent or not a JSON object
func bodyKeys(body []byte) map[string]bool {
	if len(body) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	keys := make(map[string]bool, len(raw))
	for k := range raw {
		keys[k] = true
	}
	return keys
}

// reserved are the structural parameter names no parser treats as a field
var reserved = map[string]bool{
	"page":           true,
	"pageSize":       true,
	"sort":           true,
	"search":         true,
	"searchFields":   true,
	"cursor":         true,
	"responseFormat": true,
	"advancedFilter": true,
	"advancedSort":   true,
}

// CleanFieldName strips every character outside the field-name allow-list
// (letters, digits, underscore). Applied identically by all parsers before
// any downstream lookup, so a hostile key can never reach the registry or
// the execution layer intact
func CleanFieldName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseSortList decodes a comma-separated sort parameter where a leading
// dash marks descending order, e.g. "-created_at,name"
func parseSortList(v string) []query.RawSort {
	var out []query.RawSort
	for _, seg := range strings.Split(v, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		desc := false
		if seg[0] == '-' {
			desc = true
			seg = seg[1:]
		}
		name := CleanFieldName(seg)
		if name == "" {
			continue
		}
		out = append(out, query.RawSort{Field: name, Desc: desc})
	}
	return out
}

// splitFieldList decodes a comma-separated field name list
func splitFieldList(v string) []string {
	var out []string
	for _, seg := range strings.Split(v, ",") {
		name := CleanFieldName(strings.TrimSpace(seg))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
