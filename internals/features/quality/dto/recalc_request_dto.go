package dto

import (
	"time"

	"github.com/google/uuid"

	"ekklesia_backend/internals/constants"
)

// RecalculationRequest is the queue payload asking for one person's quality
// tier to be recomputed within one context/event-type/window. Immutable
// value; delivered at-least-once, so consumers must stay idempotent.
type RecalculationRequest struct {
	PersonID    uuid.UUID           `json:"person_id"`
	ContextID   uuid.UUID           `json:"context_id"`
	EventType   constants.EventType `json:"event_type"`
	WindowStart time.Time           `json:"window_start"`
	WindowEnd   time.Time           `json:"window_end"`

	// RequestedAt orders competing recalculations for the same key:
	// the projection only accepts writes with a newer as-of.
	RequestedAt time.Time `json:"requested_at"`
}
