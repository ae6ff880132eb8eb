package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
)

type partRequestRepository struct {
	store *Store
}

func NewPartRequestRepository(store *Store) partrequest.Repository {
	return &partRequestRepository{store: store}
}

func (r *partRequestRepository) GetByID(_ context.Context, id uuid.UUID) (partrequest.PartRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok {
		return partrequest.PartRequest{}, partrequest.ErrNotFound
	}
	return req, nil
}

func (r *partRequestRepository) ListByTechnician(_ context.Context, technicianID uuid.UUID) ([]partrequest.PartRequest, error) {
	return r.listWhere(func(req partrequest.PartRequest) bool {
		return req.TechnicianID() == technicianID
	}), nil
}

func (r *partRequestRepository) ListByOrder(_ context.Context, serviceOrderID uuid.UUID) ([]partrequest.PartRequest, error) {
	return r.listWhere(func(req partrequest.PartRequest) bool {
		return req.ServiceOrderID() == serviceOrderID
	}), nil
}

func (r *partRequestRepository) ListByStatus(_ context.Context, status partrequest.Status) ([]partrequest.PartRequest, error) {
	return r.listWhere(func(req partrequest.PartRequest) bool {
		return req.Status() == status
	}), nil
}

func (r *partRequestRepository) listWhere(keep func(partrequest.PartRequest) bool) []partrequest.PartRequest {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]partrequest.PartRequest, 0)
	for _, req := range r.store.requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out
}

func (r *partRequestRepository) Create(_ context.Context, req partrequest.PartRequest) (partrequest.PartRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	created := partrequest.Hydrate(
		uuid.New(),
		req.ServiceOrderID(),
		req.PartID(),
		req.TechnicianID(),
		req.Quantity(),
		req.Urgency(),
		req.TechnicianNotes(),
		req.Status(),
		uuid.Nil,
		"",
		now,
		now,
		nil,
	)
	r.store.requests[created.ID()] = created
	return created, nil
}

func (r *partRequestRepository) Transition(_ context.Context, id uuid.UUID, from, to partrequest.Status, d partrequest.Decision) (partrequest.PartRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.requests[id]
	if !ok {
		return partrequest.PartRequest{}, partrequest.ErrNotFound
	}
	// Compare-and-swap under the store lock; a losing concurrent decision
	// observes the already swapped status.
	if current.Status() != from {
		return partrequest.PartRequest{}, partrequest.ErrInvalidState
	}

	approverID := current.ApproverID()
	approverNotes := current.ApproverNotes()
	decidedAt := current.DecidedAt()
	if !d.IsZero() {
		approverID = d.ApproverID
		approverNotes = d.Notes
		at := d.DecidedAt
		decidedAt = &at
	}
	updated := partrequest.Hydrate(
		current.ID(),
		current.ServiceOrderID(),
		current.PartID(),
		current.TechnicianID(),
		current.Quantity(),
		current.Urgency(),
		current.TechnicianNotes(),
		to,
		approverID,
		approverNotes,
		current.CreatedAt(),
		time.Now(),
		decidedAt,
	)
	r.store.requests[updated.ID()] = updated
	return updated, nil
}
