package parse

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// decodeBody unmarshals a JSON body keeping numbers as json.Number so that
// integer values survive stringification without a float round trip
func decodeBody(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(dst)
}

// stringifyScalar renders one JSON value the way a query string would have
// carried it
func stringifyScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// stringifyValue flattens a scalar or array JSON value into value strings.
// nil yields no values
func stringifyValue(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			out = append(out, stringifyScalar(el))
		}
		return out
	default:
		return []string{stringifyScalar(v)}
	}
}
