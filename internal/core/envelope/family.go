// Package envelope maps executed results into the response shape a client
// expects: the family follows the wire format the request arrived in, so a
// grid component gets row ranges back and a cursor client gets continuation
// tokens, with an explicit responseFormat override on top
package envelope

import (
	"strings"

	"listgate/internal/core/parse"
)

// Family names one response envelope shape
type Family string

// Envelope families
const (
	FamilyOffset   Family = "offset"
	FamilyRowRange Family = "rowRange"
	FamilyCursor   Family = "cursor"
)

// FamilyFor selects the envelope family for a request: a recognized
// responseFormat override wins, then a present cursor continuation, then the
// detected format's native family. Unknown overrides are ignored
func FamilyFor(kind parse.Kind, override string, hasCursor bool) Family {
	switch {
	case strings.EqualFold(override, string(FamilyOffset)):
		return FamilyOffset
	case strings.EqualFold(override, string(FamilyRowRange)):
		return FamilyRowRange
	case strings.EqualFold(override, string(FamilyCursor)):
		return FamilyCursor
	}
	if hasCursor {
		return FamilyCursor
	}
	if kind == parse.KindGridRange {
		return FamilyRowRange
	}
	return FamilyOffset
}

// NeedsTotal reports whether the family's payload requires a total count
// from execution
func (f Family) NeedsTotal() bool { return f == FamilyOffset }
