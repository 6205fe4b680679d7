// Package http provides http transport for record queries
package http

import (
	"io"
	stdhttp "net/http"

	"listgate/internal/modkit/httpkit"
	perr "listgate/internal/platform/errors"
	"listgate/internal/services/api/records/domain"
	svc "listgate/internal/services/api/records/service"
)

// maxBodyBytes caps the JSON payload of the POST query form
const maxBodyBytes = 1 << 20

// Register mounts records endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/{entity}", h.list)
	httpkit.Post(r, "/{entity}/query", h.query)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /records/{entity} Records recordsList
// @Summary List records of an entity
// @Description Accepts the simple key=value and bracketed structured filter
// @Description dialects plus search, sort, pagination, and cursor parameters
// @Tags Records
// @Produce json
// @Param entity path string true "Entity name" example(users)
// @Param search query string false "Full-text term over searchable fields"
// @Param sort query string false "Comma list of fields, - prefix for descending" example(-created_at,name)
// @Param page query int false "1-based page number"
// @Param pageSize query int false "Rows per page"
// @Param cursor query string false "Continuation token from a previous response"
// @Param responseFormat query string false "Envelope override: offset, rowRange, or cursor"
// @Success 200 {object} domain.OffsetEnvelope "ok"
// @Failure 400 {object} domain.ValidationFailure "validation report"
// @Failure 404 {string} string "unknown entity"
// @Router /records/{entity} [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.Query(r.Context(), domain.QueryInput{
		Entity:   httpkit.Param(r, "entity"),
		RawQuery: r.URL.RawQuery,
	})
}

// swagger:route POST /records/{entity}/query Records recordsQuery
// @Summary Query records with a JSON payload
// @Description Accepts the grid row-range, grid page, and advanced JSON
// @Description dialects; query string parameters still apply alongside
// @Tags Records
// @Accept json
// @Produce json
// @Param entity path string true "Entity name" example(users)
// @Param payload body domain.QueryBody true "Query"
// @Success 200 {object} domain.RowRangeEnvelope "ok"
// @Failure 400 {object} domain.ValidationFailure "validation report"
// @Failure 404 {string} string "unknown entity"
// @Router /records/{entity}/query [post]
func (h *handlers) query(r *stdhttp.Request) (any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, perr.JSONErrf("read request body: %v", err)
	}
	return h.svc.Query(r.Context(), domain.QueryInput{
		Entity:   httpkit.Param(r, "entity"),
		RawQuery: r.URL.RawQuery,
		Body:     body,
	})
}
