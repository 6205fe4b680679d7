// Package module wires the records query API into the router using modkit
package module

import (
	"net/http"

	"listgate/internal/core/pipeline"
	"listgate/internal/core/schema"
	"listgate/internal/core/validate"
	modkit "listgate/internal/modkit"
	"listgate/internal/modkit/httpkit"

	rhttp "listgate/internal/services/api/records/http"
	rrepo "listgate/internal/services/api/records/repo"
	rsvc "listgate/internal/services/api/records/service"
)

// Module implements the records API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc rsvc.Service
}

// New constructs the records module (config-driven, parity with other API modules)
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("records"),
		modkit.WithPrefix("/records"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	reg, err := loadRegistry(cfg.SchemaPath)
	if err != nil {
		panic("records module: " + err.Error())
	}

	pipe := pipeline.New(reg, validate.Limits{
		MaxPageSize:     cfg.MaxPageSize,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxSortKeys:     cfg.MaxSortKeys,
		MaxFilterValues: cfg.MaxFilterValues,
	}, cfg.CursorSecret)

	svc := rsvc.New(deps.PG, rrepo.NewHybrid(deps.CH), pipe)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{
		Query:    adaptRecordsPort{svc: svc},
		Registry: reg,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		rhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// loadRegistry compiles the field capability registry from the configured
// yaml path, falling back to the embedded default schema
func loadRegistry(path string) (*schema.Registry, error) {
	if path != "" {
		return schema.Load(path)
	}
	return schema.Default()
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
