package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/permissions"
	"github.com/apexev/workshop/pkg/composables"
	"github.com/apexev/workshop/pkg/eventbus"
)

// PartService is the catalog plus the stock ledger: the only code path that
// mutates quantity_in_stock, either directly (AdjustStock) or on behalf of
// the approval engine.
type PartService struct {
	repo      part.Repository
	publisher eventbus.EventBus
}

func NewPartService(repo part.Repository, publisher eventbus.EventBus) *PartService {
	return &PartService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *PartService) GetByID(ctx context.Context, id uuid.UUID) (part.Part, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PartService) GetBySKU(ctx context.Context, sku string) (part.Part, error) {
	return s.repo.GetBySKU(ctx, sku)
}

func (s *PartService) List(ctx context.Context, params *part.FindParams) ([]part.Part, error) {
	return s.repo.List(ctx, params)
}

func (s *PartService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *PartService) Create(ctx context.Context, dto *part.CreateDTO) (part.Part, error) {
	actor, err := authorizeWarehouse(ctx, permissions.PartsObject, permissions.ActionCreate, composables.RoleServiceAdvisor)
	if err != nil {
		return part.Part{}, err
	}
	dto.Normalize()
	return composables.InTxResult(ctx, func(txCtx context.Context) (part.Part, error) {
		created, err := s.repo.Create(txCtx, dto.ToEntity())
		if err != nil {
			return part.Part{}, err
		}
		s.publisher.Publish(part.CreatedEvent{Part: created, ActorID: actor.ID, Timestamp: time.Now()})
		return created, nil
	})
}

func (s *PartService) Update(ctx context.Context, id uuid.UUID, dto *part.UpdateDTO) (part.Part, error) {
	actor, err := authorizeWarehouse(ctx, permissions.PartsObject, permissions.ActionUpdate, composables.RoleServiceAdvisor)
	if err != nil {
		return part.Part{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (part.Part, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return part.Part{}, err
		}
		updated, err := s.repo.Update(txCtx, dto.Apply(existing))
		if err != nil {
			return part.Part{}, err
		}
		s.publisher.Publish(part.UpdatedEvent{Part: updated, ActorID: actor.ID, Timestamp: time.Now()})
		return updated, nil
	})
}

// Delete refuses to remove a part that any request still references; the
// audit trail keeps terminal requests pointing at real parts.
func (s *PartService) Delete(ctx context.Context, id uuid.UUID) error {
	actor, err := authorizeWarehouse(ctx, permissions.PartsObject, permissions.ActionDelete, composables.RoleServiceAdvisor)
	if err != nil {
		return err
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		s.publisher.Publish(part.DeletedEvent{PartID: id, ActorID: actor.ID, Timestamp: time.Now()})
		return nil
	})
}

// AdjustStock applies a manual inbound/outbound stock movement. The floor
// at zero is enforced by the repository in a single conditional update.
func (s *PartService) AdjustStock(ctx context.Context, id uuid.UUID, dto *part.AdjustStockDTO) (part.Part, error) {
	actor, err := authorizeWarehouse(ctx, permissions.PartsObject, permissions.ActionAdjust, composables.RoleServiceAdvisor)
	if err != nil {
		return part.Part{}, err
	}
	adj, err := dto.ToAdjustment()
	if err != nil {
		return part.Part{}, err
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (part.Part, error) {
		adjusted, err := s.repo.AdjustStock(txCtx, id, adj)
		if err != nil {
			return part.Part{}, err
		}
		s.publisher.Publish(part.StockAdjustedEvent{
			PartID:        adjusted.ID(),
			Direction:     adj.Direction(),
			Quantity:      adj.Quantity(),
			QuantityAfter: adjusted.QuantityInStock(),
			ActorID:       actor.ID,
			Timestamp:     time.Now(),
		})
		return adjusted, nil
	})
}

// AvailabilityCheck is a read-only probe; approval re-checks atomically.
type AvailabilityCheck struct {
	PartID         uuid.UUID
	Name           string
	SKU            string
	InStock        int
	Required       int
	Available      bool
	InsufficientBy int
}

func (s *PartService) CheckAvailability(ctx context.Context, id uuid.UUID, required int) (AvailabilityCheck, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AvailabilityCheck{}, err
	}
	check := AvailabilityCheck{
		PartID:    p.ID(),
		Name:      p.Name(),
		SKU:       p.SKU(),
		InStock:   p.QuantityInStock(),
		Required:  required,
		Available: p.QuantityInStock() >= required,
	}
	if !check.Available {
		check.InsufficientBy = required - p.QuantityInStock()
	}
	return check, nil
}

func (s *PartService) CheckAvailabilityBatch(ctx context.Context, required map[uuid.UUID]int) ([]AvailabilityCheck, error) {
	out := make([]AvailabilityCheck, 0, len(required))
	for id, qty := range required {
		check, err := s.CheckAvailability(ctx, id, qty)
		if err != nil {
			return nil, err
		}
		out = append(out, check)
	}
	return out, nil
}
