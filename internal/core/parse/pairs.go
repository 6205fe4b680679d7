package parse

import (
	"net/url"
	"strings"
)

// Pair is one decoded query-string parameter
type Pair struct {
	Key   string
	Value string
}

// Pairs decodes a raw query string into key/value pairs preserving the
// client's parameter order, which url.Values would lose. Pairs that fail
// percent-decoding are dropped rather than failing the request
func Pairs(rawQuery string) []Pair {
	if rawQuery == "" {
		return nil
	}
	var out []Pair
	for _, chunk := range strings.Split(rawQuery, "&") {
		if chunk == "" {
			continue
		}
		key, val, _ := strings.Cut(chunk, "=")
		k, err := url.QueryUnescape(key)
		if err != nil || k == "" {
			continue
		}
		v, err := url.QueryUnescape(val)
		if err != nil {
			continue
		}
		out = append(out, Pair{Key: k, Value: v})
	}
	return out
}
