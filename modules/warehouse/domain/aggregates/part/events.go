package part

import (
	"time"

	"github.com/google/uuid"
)

type CreatedEvent struct {
	Part      Part
	ActorID   uuid.UUID
	Timestamp time.Time
}

type UpdatedEvent struct {
	Part      Part
	ActorID   uuid.UUID
	Timestamp time.Time
}

type DeletedEvent struct {
	PartID    uuid.UUID
	ActorID   uuid.UUID
	Timestamp time.Time
}

// StockAdjustedEvent is emitted for every stock movement, whether from a
// manual adjustment or a request approval.
type StockAdjustedEvent struct {
	PartID        uuid.UUID
	Direction     Direction
	Quantity      int
	QuantityAfter int
	ActorID       uuid.UUID
	Timestamp     time.Time
}
