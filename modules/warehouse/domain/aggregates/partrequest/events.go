package partrequest

import (
	"time"

	"github.com/google/uuid"
)

type CreatedEvent struct {
	RequestID      uuid.UUID
	ServiceOrderID uuid.UUID
	PartID         uuid.UUID
	TechnicianID   uuid.UUID
	Quantity       int
	Urgency        Urgency
	Timestamp      time.Time
}

// DecidedEvent is the notification-sink payload emitted on every successful
// approve, reject, cancel and fulfill.
type DecidedEvent struct {
	RequestID      uuid.UUID
	ServiceOrderID uuid.UUID
	NewStatus      Status
	ActorID        uuid.UUID
	Timestamp      time.Time
}
