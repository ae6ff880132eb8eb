package services

import (
	"context"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/infrastructure/persistence/memory"
	"github.com/apexev/workshop/pkg/composables"
)

type stubPublisher struct {
	published []interface{}
}

func (s *stubPublisher) Publish(args ...interface{})     { s.published = append(s.published, args...) }
func (s *stubPublisher) Subscribe(handler interface{})   {}
func (s *stubPublisher) Unsubscribe(handler interface{}) {}
func (s *stubPublisher) Clear()                          { s.published = nil }
func (s *stubPublisher) SubscribersCount() int           { return 0 }

func advisorCtx() context.Context {
	return composables.WithActor(context.Background(), composables.Actor{ID: uuid.New(), Role: composables.RoleServiceAdvisor})
}

func technicianCtx(id uuid.UUID) context.Context {
	return composables.WithActor(context.Background(), composables.Actor{ID: id, Role: composables.RoleTechnician})
}

func adminCtx() context.Context {
	return composables.WithActor(context.Background(), composables.Actor{ID: uuid.New(), Role: composables.RoleAdmin})
}

func newPartFixture(t *testing.T) (*PartService, part.Repository, *stubPublisher) {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewPartRepository(store)
	publisher := &stubPublisher{}
	return NewPartService(repo, publisher), repo, publisher
}

func TestPartService_CreateAndLookup(t *testing.T) {
	svc, _, publisher := newPartFixture(t)

	created, err := svc.Create(advisorCtx(), &part.CreateDTO{
		Name:            "Brake Pad Set",
		SKU:             "brk-vento-001",
		UnitPriceAmount: 18900,
		Currency:        money.USD,
		QuantityInStock: 10,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID())
	require.Equal(t, "BRK-VENTO-001", created.SKU())
	require.Len(t, publisher.published, 1)

	bySKU, err := svc.GetBySKU(context.Background(), "BRK-VENTO-001")
	require.NoError(t, err)
	require.Equal(t, created.ID(), bySKU.ID())

	byID, err := svc.GetByID(context.Background(), created.ID())
	require.NoError(t, err)
	require.Equal(t, "Brake Pad Set", byID.Name())
}

func TestPartService_CreateDuplicateSKU(t *testing.T) {
	svc, _, _ := newPartFixture(t)

	dto := &part.CreateDTO{Name: "Brake Pad", SKU: "BRK-001", QuantityInStock: 1}
	_, err := svc.Create(advisorCtx(), dto)
	require.NoError(t, err)

	_, err = svc.Create(advisorCtx(), &part.CreateDTO{Name: "Other Pad", SKU: "brk-001", QuantityInStock: 1})
	require.ErrorIs(t, err, part.ErrSKUTaken)
}

func TestPartService_TechnicianCannotMutateCatalog(t *testing.T) {
	svc, _, publisher := newPartFixture(t)
	ctx := technicianCtx(uuid.New())

	_, err := svc.Create(ctx, &part.CreateDTO{Name: "Pad", SKU: "BRK-002", QuantityInStock: 1})
	require.Error(t, err)
	require.Empty(t, publisher.published)

	_, err = svc.AdjustStock(ctx, uuid.New(), &part.AdjustStockDTO{Quantity: 1, Direction: "add"})
	require.Error(t, err)
}

func TestPartService_AdjustStockFloor(t *testing.T) {
	svc, _, _ := newPartFixture(t)
	ctx := advisorCtx()

	created, err := svc.Create(ctx, &part.CreateDTO{Name: "Filter", SKU: "FLT-001", QuantityInStock: 3})
	require.NoError(t, err)

	_, err = svc.AdjustStock(ctx, created.ID(), &part.AdjustStockDTO{Quantity: 5, Direction: "subtract"})
	require.ErrorIs(t, err, part.ErrInsufficientStock)

	unchanged, err := svc.GetByID(context.Background(), created.ID())
	require.NoError(t, err)
	require.Equal(t, 3, unchanged.QuantityInStock())
}

func TestPartService_AdjustStockFlipsStatus(t *testing.T) {
	svc, _, _ := newPartFixture(t)
	ctx := advisorCtx()

	created, err := svc.Create(ctx, &part.CreateDTO{Name: "Filter", SKU: "FLT-002", QuantityInStock: 2})
	require.NoError(t, err)

	drained, err := svc.AdjustStock(ctx, created.ID(), &part.AdjustStockDTO{Quantity: 2, Direction: "subtract"})
	require.NoError(t, err)
	require.Equal(t, 0, drained.QuantityInStock())
	require.Equal(t, part.StatusOutOfStock, drained.Status())

	restocked, err := svc.AdjustStock(ctx, created.ID(), &part.AdjustStockDTO{Quantity: 6, Direction: "add"})
	require.NoError(t, err)
	require.Equal(t, 6, restocked.QuantityInStock())
	require.Equal(t, part.StatusActive, restocked.Status())
}

func TestPartService_UpdateKeepsStock(t *testing.T) {
	svc, _, _ := newPartFixture(t)
	ctx := advisorCtx()

	created, err := svc.Create(ctx, &part.CreateDTO{Name: "Filter", SKU: "FLT-003", QuantityInStock: 4})
	require.NoError(t, err)

	name := "Cabin Filter"
	updated, err := svc.Update(ctx, created.ID(), &part.UpdateDTO{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Cabin Filter", updated.Name())
	require.Equal(t, 4, updated.QuantityInStock())
}

func TestPartService_DeleteMissing(t *testing.T) {
	svc, _, _ := newPartFixture(t)
	err := svc.Delete(advisorCtx(), uuid.New())
	require.ErrorIs(t, err, part.ErrNotFound)
}

func TestPartService_ListFilters(t *testing.T) {
	svc, _, _ := newPartFixture(t)
	ctx := advisorCtx()

	_, err := svc.Create(ctx, &part.CreateDTO{Name: "Brake Pad", SKU: "BRK-001", QuantityInStock: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &part.CreateDTO{Name: "Brake Disc", SKU: "BRK-002", QuantityInStock: 20})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &part.CreateDTO{Name: "Cabin Filter", SKU: "FLT-001", QuantityInStock: 0})
	require.NoError(t, err)

	brakes, err := svc.List(context.Background(), &part.FindParams{Category: "BRK"})
	require.NoError(t, err)
	require.Len(t, brakes, 2)

	lowStock, err := svc.List(context.Background(), &part.FindParams{LowStockBelow: 5})
	require.NoError(t, err)
	require.Len(t, lowStock, 2)

	outOfStock, err := svc.List(context.Background(), &part.FindParams{Status: part.StatusOutOfStock})
	require.NoError(t, err)
	require.Len(t, outOfStock, 1)
	require.Equal(t, "FLT-001", outOfStock[0].SKU())

	byQuery, err := svc.List(context.Background(), &part.FindParams{Query: "disc"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)

	total, err := svc.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
}

func TestPartService_CheckAvailability(t *testing.T) {
	svc, _, _ := newPartFixture(t)
	ctx := advisorCtx()

	created, err := svc.Create(ctx, &part.CreateDTO{Name: "Filter", SKU: "FLT-004", QuantityInStock: 3})
	require.NoError(t, err)

	check, err := svc.CheckAvailability(context.Background(), created.ID(), 2)
	require.NoError(t, err)
	require.True(t, check.Available)
	require.Equal(t, 0, check.InsufficientBy)

	check, err = svc.CheckAvailability(context.Background(), created.ID(), 5)
	require.NoError(t, err)
	require.False(t, check.Available)
	require.Equal(t, 2, check.InsufficientBy)
}

func TestPartService_CheckAvailabilityBatch(t *testing.T) {
	svc, _, _ := newPartFixture(t)
	ctx := advisorCtx()

	pads, err := svc.Create(ctx, &part.CreateDTO{Name: "Brake Pads", SKU: "BRK-010", QuantityInStock: 4})
	require.NoError(t, err)
	coolant, err := svc.Create(ctx, &part.CreateDTO{Name: "Coolant", SKU: "CLT-011", QuantityInStock: 1})
	require.NoError(t, err)

	checks, err := svc.CheckAvailabilityBatch(context.Background(), map[uuid.UUID]int{
		pads.ID():    2,
		coolant.ID(): 3,
	})
	require.NoError(t, err)
	require.Len(t, checks, 2)

	byPart := make(map[uuid.UUID]AvailabilityCheck, len(checks))
	for _, c := range checks {
		byPart[c.PartID] = c
	}
	require.True(t, byPart[pads.ID()].Available)
	require.False(t, byPart[coolant.ID()].Available)
	require.Equal(t, 2, byPart[coolant.ID()].InsufficientBy)

	_, err = svc.CheckAvailabilityBatch(context.Background(), map[uuid.UUID]int{uuid.New(): 1})
	require.ErrorIs(t, err, part.ErrNotFound)
}
