// Package service implements the records query facade: one call runs the
// whole parse, validate, plan, execute, render pipeline for a wire request
package service

import (
	"context"
	"errors"

	"listgate/internal/core/envelope"
	"listgate/internal/core/parse"
	"listgate/internal/core/pipeline"
	"listgate/internal/core/query"
	"listgate/internal/modkit/repokit"
	perr "listgate/internal/platform/errors"
	"listgate/internal/platform/logger"
	"listgate/internal/services/api/records/domain"
	rrepo "listgate/internal/services/api/records/repo"
)

// Service defines the service contract for records
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	DB   repokit.TxRunner
	Repo repokit.Binder[rrepo.Repo]

	pipe *pipeline.Pipeline
}

// New creates a new records service
func New(db repokit.TxRunner, binder repokit.Binder[rrepo.Repo], pipe *pipeline.Pipeline) *Svc {
	if db == nil {
		panic("records.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("records.Service requires a non nil Repo binder")
	}
	if pipe == nil {
		panic("records.Service requires a non nil pipeline")
	}
	return &Svc{DB: db, Repo: binder, pipe: pipe}
}

// Query plans one wire request, executes it, and renders the family-shaped
// payload. Validation failures come back as one atomic 400-class error
// carrying the aggregate report; execution failures stay opaque to clients
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) (any, error) {
	out, rep, err := s.pipe.Plan(in.Entity, parse.Envelope{Query: in.RawQuery, Body: in.Body})
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownEntity) {
			return nil, perr.NotFoundf("unknown entity %q", in.Entity)
		}
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "records: plan")
	}
	if rep != nil {
		return nil, perr.WithDetails(perr.New(perr.ErrorCodeValidation, "query validation failed"), rep)
	}
	if out.FellBack {
		logger.C(ctx).Debug().
			Str("entity", in.Entity).
			Msg("records: structural parse failed, fell back to simple format")
	}

	var res query.Result
	err = s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var e error
		res, e = s.Repo.Bind(q).Search(ctx, out.Plan)
		return e
	})
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("entity", in.Entity).Msg("records: search failed")
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "query execution failed")
	}

	next := ""
	if out.Family == envelope.FamilyCursor && res.HasMore && len(res.Records) > 0 {
		last := res.Records[len(res.Records)-1]
		next, err = s.pipe.NextCursor(out.Plan, last)
		if err != nil {
			logger.C(ctx).Error().Err(err).Str("entity", in.Entity).Msg("records: cursor issue failed")
			return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "query execution failed")
		}
	}
	return envelope.Render(out.Family, res, out.Plan.Window, next), nil
}
