package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/modules/warehouse/permissions"
	"github.com/apexev/workshop/pkg/composables"
	"github.com/apexev/workshop/pkg/eventbus"
)

// PartRequestService is the approval engine: it owns every transition of a
// part request and pairs the approval edge with its stock decrement.
type PartRequestService struct {
	requests  partrequest.Repository
	parts     part.Repository
	publisher eventbus.EventBus
}

func NewPartRequestService(
	requests partrequest.Repository,
	parts part.Repository,
	publisher eventbus.EventBus,
) *PartRequestService {
	return &PartRequestService{
		requests:  requests,
		parts:     parts,
		publisher: publisher,
	}
}

// Create registers a technician's ask. Stock availability is deliberately
// not checked here; it is only enforced at approval time.
func (s *PartRequestService) Create(ctx context.Context, dto *partrequest.CreateDTO) (partrequest.PartRequest, error) {
	actor, err := authorizeWarehouse(ctx, permissions.RequestsObject, permissions.ActionCreate, composables.RoleTechnician)
	if err != nil {
		return partrequest.PartRequest{}, err
	}
	dto.Normalize()
	entity, err := dto.ToEntity(actor.ID)
	if err != nil {
		return partrequest.PartRequest{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (partrequest.PartRequest, error) {
		if _, err := s.parts.GetByID(txCtx, entity.PartID()); err != nil {
			return partrequest.PartRequest{}, err
		}
		created, err := s.requests.Create(txCtx, entity)
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		s.publisher.Publish(partrequest.CreatedEvent{
			RequestID:      created.ID(),
			ServiceOrderID: created.ServiceOrderID(),
			PartID:         created.PartID(),
			TechnicianID:   created.TechnicianID(),
			Quantity:       created.Quantity(),
			Urgency:        created.Urgency(),
			Timestamp:      time.Now(),
		})
		return created, nil
	})
}

// Approve performs, as one atomic unit: the conditional stock decrement,
// the PENDING -> APPROVED compare-and-swap, and the decision fields. On
// InsufficientStock the request stays PENDING so the advisor can restock
// and retry, or reject explicitly.
func (s *PartRequestService) Approve(ctx context.Context, requestID uuid.UUID, notes string) (partrequest.PartRequest, error) {
	actor, err := authorizeWarehouse(ctx, permissions.RequestsObject, permissions.ActionApprove, composables.RoleServiceAdvisor)
	if err != nil {
		return partrequest.PartRequest{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (partrequest.PartRequest, error) {
		req, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		now := time.Now()
		if _, err := req.Approve(actor.ID, notes, now); err != nil {
			return partrequest.PartRequest{}, err
		}

		adj, err := part.SubtractStock(req.Quantity())
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		adjusted, err := s.parts.AdjustStock(txCtx, req.PartID(), adj)
		if err != nil {
			return partrequest.PartRequest{}, err
		}

		decided, err := s.requests.Transition(txCtx, requestID, partrequest.StatusPending, partrequest.StatusApproved, partrequest.Decision{
			ApproverID: actor.ID,
			Notes:      strings.TrimSpace(notes),
			DecidedAt:  now,
		})
		if err != nil {
			// A concurrent decision won the race after our decrement.
			// Inside a SQL transaction the rollback undoes the decrement;
			// non-transactional backends get the stock restored here.
			if errors.Is(err, partrequest.ErrInvalidState) {
				if credit, creditErr := part.NewStockAdjustment(req.Quantity(), part.DirectionAdd); creditErr == nil {
					_, _ = s.parts.AdjustStock(txCtx, req.PartID(), credit)
				}
			}
			return partrequest.PartRequest{}, err
		}

		s.publisher.Publish(part.StockAdjustedEvent{
			PartID:        adjusted.ID(),
			Direction:     part.DirectionSubtract,
			Quantity:      req.Quantity(),
			QuantityAfter: adjusted.QuantityInStock(),
			ActorID:       actor.ID,
			Timestamp:     now,
		})
		s.publishDecision(decided, actor.ID, now)
		return decided, nil
	})
}

func (s *PartRequestService) Reject(ctx context.Context, requestID uuid.UUID, reason string) (partrequest.PartRequest, error) {
	actor, err := authorizeWarehouse(ctx, permissions.RequestsObject, permissions.ActionReject, composables.RoleServiceAdvisor)
	if err != nil {
		return partrequest.PartRequest{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (partrequest.PartRequest, error) {
		req, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		now := time.Now()
		if _, err := req.Reject(actor.ID, reason, now); err != nil {
			return partrequest.PartRequest{}, err
		}
		decided, err := s.requests.Transition(txCtx, requestID, partrequest.StatusPending, partrequest.StatusRejected, partrequest.Decision{
			ApproverID: actor.ID,
			Notes:      strings.TrimSpace(reason),
			DecidedAt:  now,
		})
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		s.publishDecision(decided, actor.ID, now)
		return decided, nil
	})
}

func (s *PartRequestService) Cancel(ctx context.Context, requestID uuid.UUID) (partrequest.PartRequest, error) {
	actor, err := authorizeWarehouse(ctx, permissions.RequestsObject, permissions.ActionCancel, composables.RoleTechnician)
	if err != nil {
		return partrequest.PartRequest{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (partrequest.PartRequest, error) {
		req, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		if _, err := req.Cancel(actor.ID, actor.IsAdmin()); err != nil {
			return partrequest.PartRequest{}, err
		}
		cancelled, err := s.requests.Transition(txCtx, requestID, partrequest.StatusPending, partrequest.StatusCancelled, partrequest.Decision{})
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		now := time.Now()
		s.publishDecision(cancelled, actor.ID, now)
		return cancelled, nil
	})
}

// Fulfill records physical handover of an approved request. Stock was
// already drawn down at approval and is not touched again.
func (s *PartRequestService) Fulfill(ctx context.Context, requestID uuid.UUID) (partrequest.PartRequest, error) {
	actor, err := authorizeWarehouse(ctx, permissions.RequestsObject, permissions.ActionFulfill, composables.RoleServiceAdvisor)
	if err != nil {
		return partrequest.PartRequest{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (partrequest.PartRequest, error) {
		req, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		if _, err := req.Fulfill(); err != nil {
			return partrequest.PartRequest{}, err
		}
		fulfilled, err := s.requests.Transition(txCtx, requestID, partrequest.StatusApproved, partrequest.StatusFulfilled, partrequest.Decision{})
		if err != nil {
			return partrequest.PartRequest{}, err
		}
		s.publishDecision(fulfilled, actor.ID, time.Now())
		return fulfilled, nil
	})
}

func (s *PartRequestService) GetByID(ctx context.Context, requestID uuid.UUID) (partrequest.PartRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

// ListForTechnician returns a technician's own requests; technicians may
// not read each other's queues.
func (s *PartRequestService) ListForTechnician(ctx context.Context, technicianID uuid.UUID) ([]partrequest.PartRequest, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, partrequest.ErrForbidden
	}
	if actor.Role == composables.RoleTechnician && actor.ID != technicianID {
		return nil, partrequest.ErrForbidden
	}
	return s.requests.ListByTechnician(ctx, technicianID)
}

func (s *PartRequestService) ListForOrder(ctx context.Context, serviceOrderID uuid.UUID) ([]partrequest.PartRequest, error) {
	return s.requests.ListByOrder(ctx, serviceOrderID)
}

// ListPending is the advisor review queue, most urgent first, newest next.
func (s *PartRequestService) ListPending(ctx context.Context) ([]partrequest.PartRequest, error) {
	if _, err := authorizeWarehouse(ctx, permissions.RequestsObject, permissions.ActionRead, composables.RoleServiceAdvisor); err != nil {
		return nil, err
	}
	pending, err := s.requests.ListByStatus(ctx, partrequest.StatusPending)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Urgency().Rank() != pending[j].Urgency().Rank() {
			return pending[i].Urgency().Rank() < pending[j].Urgency().Rank()
		}
		return pending[i].CreatedAt().After(pending[j].CreatedAt())
	})
	return pending, nil
}

func (s *PartRequestService) publishDecision(req partrequest.PartRequest, actorID uuid.UUID, at time.Time) {
	s.publisher.Publish(partrequest.DecidedEvent{
		RequestID:      req.ID(),
		ServiceOrderID: req.ServiceOrderID(),
		NewStatus:      req.Status(),
		ActorID:        actorID,
		Timestamp:      at,
	})
}
