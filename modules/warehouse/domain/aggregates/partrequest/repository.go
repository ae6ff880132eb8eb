package partrequest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Decision carries the approver fields written on a PENDING -> APPROVED or
// PENDING -> REJECTED edge. Zero value for technician-driven edges.
type Decision struct {
	ApproverID uuid.UUID
	Notes      string
	DecidedAt  time.Time
}

func (d Decision) IsZero() bool { return d.ApproverID == uuid.Nil }

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (PartRequest, error)
	ListByTechnician(ctx context.Context, technicianID uuid.UUID) ([]PartRequest, error)
	ListByOrder(ctx context.Context, serviceOrderID uuid.UUID) ([]PartRequest, error)
	ListByStatus(ctx context.Context, status Status) ([]PartRequest, error)
	Create(ctx context.Context, r PartRequest) (PartRequest, error)
	// Transition moves the request from -> to as a compare-and-swap: the
	// write succeeds only if the stored status still equals from,
	// otherwise ErrInvalidState. This is what makes concurrent decisions
	// on the same request mutually exclusive.
	Transition(ctx context.Context, id uuid.UUID, from, to Status, d Decision) (PartRequest, error)
}
