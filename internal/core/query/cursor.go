package query

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
)

// ErrCursorInvalid covers every cursor rejection: wrong encoding, truncated
// token, bad signature, or unparseable payload. Callers must not distinguish
// the cases, so a tampered token looks the same as a garbled one
var ErrCursorInvalid = errors.New("query: invalid cursor")

// Cursor is the continuation point of a keyset-paginated result. Sort holds
// the effective order fingerprint ("field:asc"), Keys the stringified sort
// key values of the last row delivered
type Cursor struct {
	Entity string   `json:"e"`
	Sort   []string `json:"s"`
	Keys   []string `json:"k"`
}

// SortFingerprint renders sort clauses as "field:asc"/"field:desc" entries.
// Cursors embed the fingerprint of the order they were issued under, so a
// continuation under a different order is detectable
func SortFingerprint(sorts []SortClause) []string {
	out := make([]string, len(sorts))
	for i, s := range sorts {
		out[i] = fingerprint(s.Field, s.Desc)
	}
	return out
}

// FingerprintOrder is SortFingerprint for resolved plan order keys
func FingerprintOrder(keys []OrderKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fingerprint(k.Field, k.Desc)
	}
	return out
}

func fingerprint(field string, desc bool) string {
	if desc {
		return field + ":desc"
	}
	return field + ":asc"
}

// CursorCodec signs and verifies opaque cursor tokens.
// Tokens are base64url(payload || HMAC-SHA256(payload))
type CursorCodec struct {
	secret []byte
}

// NewCursorCodec builds a codec from the configured secret
func NewCursorCodec(secret string) CursorCodec {
	return CursorCodec{secret: []byte(secret)}
}

// Encode serializes and signs a cursor
func (c CursorCodec) Encode(cur Cursor) (string, error) {
	payload, err := json.Marshal(cur)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	token := append(payload, mac.Sum(nil)...)
	return base64.RawURLEncoding.EncodeToString(token), nil
}

// Decode verifies and deserializes a token
func (c CursorCodec) Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrCursorInvalid
	}
	if len(raw) <= sha256.Size {
		return Cursor{}, ErrCursorInvalid
	}
	payload, sig := raw[:len(raw)-sha256.Size], raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return Cursor{}, ErrCursorInvalid
	}

	var cur Cursor
	if err := json.Unmarshal(payload, &cur); err != nil {
		return Cursor{}, ErrCursorInvalid
	}
	return cur, nil
}
