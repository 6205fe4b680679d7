package module

import (
	"context"

	"listgate/internal/core/schema"
	"listgate/internal/services/api/records/domain"
	rsvc "listgate/internal/services/api/records/service"
)

// Ports exposes the record query port and the compiled registry for
// cross-module usage (meta serves entity capabilities from the same registry)
type Ports struct {
	Query    domain.ServicePort
	Registry *schema.Registry
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptRecordsPort exposes service methods as module ports for cross-module usage
type adaptRecordsPort struct{ svc rsvc.Service }

func (a adaptRecordsPort) Query(ctx context.Context, in domain.QueryInput) (any, error) {
	return a.svc.Query(ctx, in)
}
