package store

import (
	"context"

	"dicomgate/internal/endpoint"
	dErrors "dicomgate/pkg/domain-errors"
)

var (
	// ErrNotFound signals that no endpoint carries the requested name. Callers
	// must treat this as distinct from a registry that cannot be reached:
	// routing to "any" endpoint on a miss is an imaging-data-integrity risk,
	// so absence is always explicit.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "unknown endpoint")

	// ErrDuplicate signals a create for a name that already exists.
	ErrDuplicate = dErrors.New(dErrors.CodeConflict, "endpoint already exists")
)

// Store is the endpoint registry contract. Get performs an exact,
// case-sensitive match on the name. Mutations are reserved for the admin
// surface; the gateway router only ever reads.
type Store interface {
	List(ctx context.Context) ([]endpoint.Endpoint, error)
	Get(ctx context.Context, name string) (endpoint.Endpoint, error)
	Create(ctx context.Context, ep endpoint.Endpoint) error
	Update(ctx context.Context, ep endpoint.Endpoint) error
	Delete(ctx context.Context, name string) error
}
