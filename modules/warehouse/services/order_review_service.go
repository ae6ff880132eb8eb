package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/modules/warehouse/permissions"
	"github.com/apexev/workshop/pkg/composables"
)

// OrderGroup is one service order's slice of the advisor review board:
// all of its pending requests plus the numbers the board sorts by.
type OrderGroup struct {
	ServiceOrderID uuid.UUID
	Requests       []partrequest.PartRequest
	Parts          map[uuid.UUID]part.Part
	UrgentCount    int
	PendingCount   int
	EstimatedTotal *money.Money
	LatestAt       time.Time
}

// OrderReviewService builds the per-order aggregation advisors work from.
// It is a read model only; every mutation goes through PartRequestService.
type OrderReviewService struct {
	requests partrequest.Repository
	parts    part.Repository
}

func NewOrderReviewService(requests partrequest.Repository, parts part.Repository) *OrderReviewService {
	return &OrderReviewService{requests: requests, parts: parts}
}

// PendingByOrder groups every pending request by service order. Orders with
// urgent work come first, then the busiest orders, then the most recently
// touched ones.
func (s *OrderReviewService) PendingByOrder(ctx context.Context) ([]OrderGroup, error) {
	if _, err := authorizeWarehouse(ctx, permissions.RequestsObject, permissions.ActionRead, composables.RoleServiceAdvisor); err != nil {
		return nil, err
	}
	pending, err := s.requests.ListByStatus(ctx, partrequest.StatusPending)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID]*OrderGroup)
	order := make([]uuid.UUID, 0)
	for _, req := range pending {
		group, ok := byOrder[req.ServiceOrderID()]
		if !ok {
			group = &OrderGroup{
				ServiceOrderID: req.ServiceOrderID(),
				Parts:          make(map[uuid.UUID]part.Part),
			}
			byOrder[req.ServiceOrderID()] = group
			order = append(order, req.ServiceOrderID())
		}
		group.Requests = append(group.Requests, req)
		group.PendingCount++
		if req.Urgency() == partrequest.UrgencyUrgent {
			group.UrgentCount++
		}
		if req.CreatedAt().After(group.LatestAt) {
			group.LatestAt = req.CreatedAt()
		}
	}

	for _, group := range byOrder {
		if err := s.price(ctx, group); err != nil {
			return nil, err
		}
		sort.SliceStable(group.Requests, func(i, j int) bool {
			a, b := group.Requests[i], group.Requests[j]
			if a.Urgency().Rank() != b.Urgency().Rank() {
				return a.Urgency().Rank() < b.Urgency().Rank()
			}
			return a.CreatedAt().After(b.CreatedAt())
		})
	}

	groups := make([]OrderGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, *byOrder[id])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].UrgentCount != groups[j].UrgentCount {
			return groups[i].UrgentCount > groups[j].UrgentCount
		}
		if groups[i].PendingCount != groups[j].PendingCount {
			return groups[i].PendingCount > groups[j].PendingCount
		}
		return groups[i].LatestAt.After(groups[j].LatestAt)
	})
	return groups, nil
}

// price resolves each request's part and sums quantity times unit price.
// Requests whose part vanished since creation are kept on the board
// without a price line so the advisor still sees them.
func (s *OrderReviewService) price(ctx context.Context, group *OrderGroup) error {
	for _, req := range group.Requests {
		if _, ok := group.Parts[req.PartID()]; ok {
			continue
		}
		p, err := s.parts.GetByID(ctx, req.PartID())
		if err != nil {
			if errors.Is(err, part.ErrNotFound) {
				continue
			}
			return err
		}
		group.Parts[p.ID()] = p
	}
	for _, req := range group.Requests {
		p, ok := group.Parts[req.PartID()]
		if !ok || p.UnitPrice() == nil {
			continue
		}
		line := p.UnitPrice().Multiply(int64(req.Quantity()))
		if group.EstimatedTotal == nil {
			group.EstimatedTotal = line
			continue
		}
		sum, err := group.EstimatedTotal.Add(line)
		if err != nil {
			return err
		}
		group.EstimatedTotal = sum
	}
	return nil
}
