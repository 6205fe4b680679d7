package domain

import "context"

// ServicePort defines the service contract for record queries
type ServicePort interface {
	Query(ctx context.Context, in QueryInput) (any, error)
}
