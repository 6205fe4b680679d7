// Package pipeline composes the request stages: detect the wire format,
// parse it into the canonical spec, validate against the entity's field
// capabilities, and build the sealed execution plan. The whole run is pure
// transformation; execution and rendering stay with the caller
package pipeline

import (
	"errors"

	"listgate/internal/core/envelope"
	"listgate/internal/core/parse"
	"listgate/internal/core/plan"
	"listgate/internal/core/query"
	"listgate/internal/core/schema"
	"listgate/internal/core/validate"
)

// ErrUnknownEntity means the routed entity has no registry entry
var ErrUnknownEntity = errors.New("pipeline: unknown entity")

// Output is a planned request, ready for execution
type Output struct {
	Plan   *query.Plan
	Family envelope.Family

	// Kind is the parser that produced the plan; FellBack marks a request
	// whose detected format failed to parse and degraded to Simple
	Kind     parse.Kind
	FellBack bool
}

// Pipeline plans requests against one capability registry. Stateless across
// requests; safe for concurrent use
type Pipeline struct {
	reg   *schema.Registry
	val   *validate.Validator
	codec query.CursorCodec
}

// New wires a pipeline from its process-lifetime pieces
func New(reg *schema.Registry, limits validate.Limits, cursorSecret string) *Pipeline {
	codec := query.NewCursorCodec(cursorSecret)
	return &Pipeline{reg: reg, val: validate.New(limits, codec), codec: codec}
}

// Registry exposes the capability table for metadata surfaces
func (pl *Pipeline) Registry() *schema.Registry { return pl.reg }

// Plan runs one request envelope through the full pipeline. A non-nil report
// means validation rejected the request; err covers unknown entities and
// internal build failures only. Malformed wire syntax never errors: the
// request degrades to the Simple parser instead
func (pl *Pipeline) Plan(entity string, env parse.Envelope) (Output, *query.Report, error) {
	ent, ok := pl.reg.Entity(entity)
	if !ok {
		return Output{}, nil, ErrUnknownEntity
	}

	kind := parse.Detect(env)
	out := Output{Kind: kind}

	spec, err := parse.For(kind).Parse(env)
	if err != nil && kind != parse.KindSimple {
		out.Kind, out.FellBack = parse.KindSimple, true
		spec, err = parse.For(parse.KindSimple).Parse(env)
	}
	if err != nil {
		return Output{}, nil, err
	}

	intent, rep := pl.val.Validate(ent, spec)
	if rep != nil {
		return out, rep, nil
	}

	out.Family = envelope.FamilyFor(out.Kind, intent.Format, intent.Page.Cursor != "")
	p, err := plan.Build(ent, intent, out.Family.NeedsTotal())
	if err != nil {
		return Output{}, nil, err
	}
	out.Plan = p
	return out, nil, nil
}

// NextCursor issues the continuation token for the last delivered row of a
// planned request
func (pl *Pipeline) NextCursor(p *query.Plan, last map[string]any) (string, error) {
	return plan.NextCursor(pl.codec, p, last)
}
