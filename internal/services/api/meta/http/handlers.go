// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"listgate/internal/core/schema"
	"listgate/internal/core/version"
	"listgate/internal/modkit/httpkit"
	perr "listgate/internal/platform/errors"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Registry    *schema.Registry
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// mount routes
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/entities", h.entities)
	httpkit.Get(r, "/entities/{entity}/fields", h.fields)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"listgate-api"`
	Started string `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"listgate-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// EntityInfo summarizes one queryable entity
type EntityInfo struct {
	Name    string `json:"name"    example:"users"`
	Storage string `json:"storage" example:"postgres"`
	Fields  int    `json:"fields"  example:"6"`
}

// EntitiesResponse lists the queryable entities
type EntitiesResponse struct {
	SchemaVersion int          `json:"schema_version" example:"1"`
	Entities      []EntityInfo `json:"entities"`
}

// FieldCapability describes what one field supports on the wire
type FieldCapability struct {
	Name       string   `json:"name"       example:"status"`
	Kind       string   `json:"kind"       example:"enum"`
	Filterable bool     `json:"filterable" example:"true"`
	Searchable bool     `json:"searchable" example:"false"`
	Sortable   bool     `json:"sortable"   example:"true"`
	Operators  []string `json:"operators"`
	Values     []string `json:"values,omitempty"`
}

// FieldsResponse lists the field capabilities of one entity
type FieldsResponse struct {
	Entity string            `json:"entity" example:"users"`
	Fields []FieldCapability `json:"fields"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse "login success"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	pg := check("pg", h.deps.PG)
	ch := check("ch", h.deps.CH)

	overall := "ok"
	if pg.Status != "ok" || ch.Status != "ok" {
		overall = "degraded"
		if pg.Status == "fail" || ch.Status == "fail" {
			overall = "fail"
		}
	}

	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{pg, ch},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// swagger:route GET /meta/entities Meta metaEntities
// @Summary List queryable entities
// @Tags Meta
// @Produce json
// @Success 200 type EntitiesResponse ok
// @Router /meta/entities [get]
func (h *handlers) entities(_ *http.Request) (any, error) {
	ents := h.deps.Registry.Entities()
	out := EntitiesResponse{
		SchemaVersion: h.deps.Registry.Version,
		Entities:      make([]EntityInfo, 0, len(ents)),
	}
	for _, e := range ents {
		out.Entities = append(out.Entities, EntityInfo{
			Name:    e.Name,
			Storage: string(e.Storage),
			Fields:  len(e.Fields),
		})
	}
	return out, nil
}

// swagger:route GET /meta/entities/{entity}/fields Meta metaEntityFields
// @Summary Field capabilities for one entity
// @Tags Meta
// @Produce json
// @Param entity path string true "entity name"
// @Success 200 type FieldsResponse ok
// @Failure 404 {object} any "unknown entity"
// @Router /meta/entities/{entity}/fields [get]
func (h *handlers) fields(r *http.Request) (any, error) {
	name := httpkit.Param(r, "entity")
	ent, ok := h.deps.Registry.Entity(name)
	if !ok {
		return nil, perr.NotFoundf("unknown entity %q", name)
	}

	out := FieldsResponse{
		Entity: ent.Name,
		Fields: make([]FieldCapability, 0, len(ent.Fields)),
	}
	for _, f := range ent.Fields {
		ops := make([]string, 0, len(f.Operators))
		for _, op := range f.Operators {
			ops = append(ops, string(op))
		}
		out.Fields = append(out.Fields, FieldCapability{
			Name:       f.Name,
			Kind:       string(f.Kind),
			Filterable: f.Filterable,
			Searchable: f.Searchable,
			Sortable:   f.Sortable,
			Operators:  ops,
			Values:     f.Enum,
		})
	}
	return out, nil
}
