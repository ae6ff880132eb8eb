package partrequest

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusFulfilled Status = "FULFILLED"
)

func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusFulfilled:
		return Status(v), true
	default:
		return "", false
	}
}

// transitions is the single source of truth for edge legality. Every
// transition method consults it; callers never compare statuses inline.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusFulfilled},
}

func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no technician/advisor action can move the
// request further. FULFILLED is reachable from APPROVED but is a one-way
// handover marker, not a business decision.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusFulfilled
}

type PartRequest struct {
	id              uuid.UUID
	serviceOrderID  uuid.UUID
	partID          uuid.UUID
	technicianID    uuid.UUID
	quantity        int
	urgency         Urgency
	technicianNotes string
	status          Status
	approverID      uuid.UUID
	approverNotes   string
	createdAt       time.Time
	updatedAt       time.Time
	decidedAt       *time.Time
}

func New(serviceOrderID, partID, technicianID uuid.UUID, quantity int, urgency Urgency, notes string) (PartRequest, error) {
	if quantity <= 0 {
		return PartRequest{}, ErrInvalidQuantity
	}
	if !urgency.Valid() {
		urgency = UrgencyNormal
	}
	return PartRequest{
		serviceOrderID:  serviceOrderID,
		partID:          partID,
		technicianID:    technicianID,
		quantity:        quantity,
		urgency:         urgency,
		technicianNotes: strings.TrimSpace(notes),
		status:          StatusPending,
	}, nil
}

func Hydrate(
	id uuid.UUID,
	serviceOrderID uuid.UUID,
	partID uuid.UUID,
	technicianID uuid.UUID,
	quantity int,
	urgency Urgency,
	technicianNotes string,
	status Status,
	approverID uuid.UUID,
	approverNotes string,
	createdAt time.Time,
	updatedAt time.Time,
	decidedAt *time.Time,
) PartRequest {
	return PartRequest{
		id:              id,
		serviceOrderID:  serviceOrderID,
		partID:          partID,
		technicianID:    technicianID,
		quantity:        quantity,
		urgency:         urgency,
		technicianNotes: technicianNotes,
		status:          status,
		approverID:      approverID,
		approverNotes:   approverNotes,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		decidedAt:       decidedAt,
	}
}

func (r PartRequest) ID() uuid.UUID             { return r.id }
func (r PartRequest) ServiceOrderID() uuid.UUID { return r.serviceOrderID }
func (r PartRequest) PartID() uuid.UUID         { return r.partID }
func (r PartRequest) TechnicianID() uuid.UUID   { return r.technicianID }
func (r PartRequest) Quantity() int             { return r.quantity }
func (r PartRequest) Urgency() Urgency          { return r.urgency }
func (r PartRequest) TechnicianNotes() string   { return r.technicianNotes }
func (r PartRequest) Status() Status            { return r.status }
func (r PartRequest) ApproverID() uuid.UUID     { return r.approverID }
func (r PartRequest) ApproverNotes() string     { return r.approverNotes }
func (r PartRequest) CreatedAt() time.Time      { return r.createdAt }
func (r PartRequest) UpdatedAt() time.Time      { return r.updatedAt }
func (r PartRequest) DecidedAt() *time.Time     { return r.decidedAt }
func (r PartRequest) IsZero() bool              { return r.id == uuid.Nil }

// Approve validates the edge and records the decision. The stock decrement
// itself belongs to the service layer, which pairs both writes in one
// atomic unit.
func (r PartRequest) Approve(approverID uuid.UUID, notes string, at time.Time) (PartRequest, error) {
	if !CanTransition(r.status, StatusApproved) {
		return PartRequest{}, ErrInvalidState
	}
	r.status = StatusApproved
	r.approverID = approverID
	r.approverNotes = strings.TrimSpace(notes)
	r.decidedAt = &at
	return r, nil
}

func (r PartRequest) Reject(approverID uuid.UUID, reason string, at time.Time) (PartRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return PartRequest{}, ErrEmptyReason
	}
	if !CanTransition(r.status, StatusRejected) {
		return PartRequest{}, ErrInvalidState
	}
	r.status = StatusRejected
	r.approverID = approverID
	r.approverNotes = strings.TrimSpace(reason)
	r.decidedAt = &at
	return r, nil
}

// Cancel is available only to the requesting technician, or to an admin
// override, and only while the request is still pending.
func (r PartRequest) Cancel(actorID uuid.UUID, adminOverride bool) (PartRequest, error) {
	if !CanTransition(r.status, StatusCancelled) {
		return PartRequest{}, ErrInvalidState
	}
	if actorID != r.technicianID && !adminOverride {
		return PartRequest{}, ErrForbidden
	}
	r.status = StatusCancelled
	return r, nil
}

// Fulfill marks physical handover of an approved request. Stock was already
// drawn down at approval; this never touches it again.
func (r PartRequest) Fulfill() (PartRequest, error) {
	if !CanTransition(r.status, StatusFulfilled) {
		return PartRequest{}, ErrInvalidState
	}
	r.status = StatusFulfilled
	return r, nil
}
