// Package repo executes sealed query plans against the record stores.
// Postgres entities run through the bound Queryer; clickhouse-backed
// entities go through the CH seam with the same plan compiled for the
// other dialect
package repo

import (
	"context"
	"errors"

	"listgate/internal/core/query"
	"listgate/internal/core/schema"
	"listgate/internal/modkit/repokit"
	"listgate/internal/platform/store"
)

// Repo executes sealed plans and returns raw field-keyed records
type Repo interface {
	Search(ctx context.Context, p *query.Plan) (query.Result, error)
}

// ErrClickhouseDisabled is returned for clickhouse-backed entities when the
// seam was not configured
var ErrClickhouseDisabled = errors.New("repo: clickhouse not configured")

// NewHybrid constructs a storage binder using PG plus an optional CH seam
func NewHybrid(ch store.Clickhouse) repokit.Binder[Repo] { return &hybridBinder{ch: ch} }

type hybridBinder struct{ ch store.Clickhouse }

// Bind binds a Queryer to produce a Repo
func (b *hybridBinder) Bind(q repokit.Queryer) Repo { return &hybridStore{pg: q, ch: b.ch} }

type hybridStore struct {
	pg repokit.Queryer
	ch store.Clickhouse
}

// Search dispatches the plan to its entity's storage backend
func (s *hybridStore) Search(ctx context.Context, p *query.Plan) (query.Result, error) {
	if p.Storage == schema.StorageClickhouse {
		return s.searchCH(ctx, p)
	}
	return s.searchPG(ctx, p)
}

func (s *hybridStore) searchPG(ctx context.Context, p *query.Plan) (query.Result, error) {
	sqlText, args, err := compileSelect(pgDialect, p)
	if err != nil {
		return query.Result{}, err
	}
	rows, err := s.pg.Query(ctx, sqlText, args...)
	if err != nil {
		return query.Result{}, err
	}
	recs, err := collect(rows)
	if err != nil {
		return query.Result{}, err
	}
	if !p.WantTotal {
		return probeResult(p, recs), nil
	}

	countText, cargs, err := compileCount(pgDialect, p)
	if err != nil {
		return query.Result{}, err
	}
	var total int64
	if err := s.pg.QueryRow(ctx, countText, cargs...).Scan(&total); err != nil {
		return query.Result{}, err
	}
	return totalResult(p, recs, total), nil
}

func (s *hybridStore) searchCH(ctx context.Context, p *query.Plan) (query.Result, error) {
	if s.ch == nil {
		return query.Result{}, ErrClickhouseDisabled
	}
	sqlText, args, err := compileSelect(chDialect, p)
	if err != nil {
		return query.Result{}, err
	}
	rows, err := s.ch.Query(ctx, sqlText, args...)
	if err != nil {
		return query.Result{}, err
	}
	recs, err := collect(rows)
	if err != nil {
		return query.Result{}, err
	}
	if !p.WantTotal {
		return probeResult(p, recs), nil
	}

	countText, cargs, err := compileCount(chDialect, p)
	if err != nil {
		return query.Result{}, err
	}
	total, err := s.countCH(ctx, countText, cargs)
	if err != nil {
		return query.Result{}, err
	}
	return totalResult(p, recs, total), nil
}

// countCH runs the count query through the CH seam, which has no single-row
// helper. ClickHouse counts come back as UInt64
func (s *hybridStore) countCH(ctx context.Context, sqlText string, args []any) (int64, error) {
	rs, err := s.ch.Query(ctx, sqlText, args...)
	if err != nil {
		return 0, err
	}
	defer rs.Close()
	if !rs.Next() {
		if err := rs.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("repo: count returned no rows")
	}
	var total uint64
	if err := rs.Scan(&total); err != nil {
		return 0, err
	}
	if err := rs.Err(); err != nil {
		return 0, err
	}
	return int64(total), nil
}

// collect drains a result set into field-keyed records. Result column names
// are the projection aliases, so map keys match the registry field names
func collect(rows store.Rows) ([]map[string]any, error) {
	defer rows.Close()
	cols := rows.Columns()
	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(cols))
		for i, name := range cols {
			rec[name] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// probeResult interprets a limit+1 probe: an extra row means another page
func probeResult(p *query.Plan, recs []map[string]any) query.Result {
	res := query.Result{Records: recs}
	if len(recs) > p.Window.Limit {
		res.Records = recs[:p.Window.Limit]
		res.HasMore = true
	}
	return res
}

// totalResult derives hasMore from the exact count
func totalResult(p *query.Plan, recs []map[string]any, total int64) query.Result {
	return query.Result{
		Records: recs,
		Total:   &total,
		HasMore: int64(p.Window.Offset+len(recs)) < total,
	}
}
