package queue

import (
	"context"

	dto "ekklesia_backend/internals/features/quality/dto"
)

// Handler processes one recalculation request. A non-nil error means the
// message must be redelivered by the bus; returning nil acknowledges it.
type Handler func(ctx context.Context, req dto.RecalculationRequest) error

// Bus carries RecalculationRequest messages between the producer side
// (attendance writes, reconciliation sweeps) and the bounded consumer pool.
// Delivery is at-least-once; no ordering is guaranteed, not even per person.
type Bus interface {
	Publish(ctx context.Context, req dto.RecalculationRequest) error

	// Subscribe registers the handler and starts consuming with the given
	// number of concurrent workers. Call once.
	Subscribe(ctx context.Context, workers int, handler Handler) error

	Close(ctx context.Context) error
}
