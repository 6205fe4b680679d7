// Package api provides the HTTP API for the application
package api

import (
	"listgate/internal/platform/config"
	"listgate/internal/platform/logger"
	phttp "listgate/internal/platform/net/http"
	"listgate/internal/platform/store"

	"listgate/internal/modkit"
	"listgate/internal/modkit/httpkit"
	"listgate/internal/modkit/module"
	"listgate/internal/modkit/swaggerkit"

	metamod "listgate/internal/services/api/meta/module"
	recordsmod "listgate/internal/services/api/records/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the records module first and extract its registry port
	records := recordsmod.New(deps)
	reg := module.MustPortsOf[recordsmod.Ports](records).Registry

	// Inject that registry into the meta module so both serve the same schema
	meta := metamod.New(
		deps,
		modkit.WithPorts(metamod.Ports{
			Registry: reg,
		}),
	)

	mods := []module.Module{
		meta,
		records,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
