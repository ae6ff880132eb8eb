package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/permissions"
	"github.com/apexev/workshop/pkg/composables"
)

type mockPartRepo struct {
	called bool
}

func (m *mockPartRepo) mark() { m.called = true }
func (m *mockPartRepo) GetByID(ctx context.Context, id uuid.UUID) (part.Part, error) {
	m.mark()
	return part.Part{}, part.ErrNotFound
}
func (m *mockPartRepo) GetBySKU(ctx context.Context, sku string) (part.Part, error) {
	m.mark()
	return part.Part{}, part.ErrNotFound
}
func (m *mockPartRepo) List(ctx context.Context, params *part.FindParams) ([]part.Part, error) {
	m.mark()
	return nil, nil
}
func (m *mockPartRepo) Count(ctx context.Context) (int64, error) {
	m.mark()
	return 0, nil
}
func (m *mockPartRepo) Create(ctx context.Context, p part.Part) (part.Part, error) {
	m.mark()
	return p, nil
}
func (m *mockPartRepo) Update(ctx context.Context, p part.Part) (part.Part, error) {
	m.mark()
	return p, nil
}
func (m *mockPartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mark()
	return nil
}
func (m *mockPartRepo) AdjustStock(ctx context.Context, id uuid.UUID, adj part.StockAdjustment) (part.Part, error) {
	m.mark()
	return part.Part{}, nil
}

func TestPartService_AuthorizeCreateDenied(t *testing.T) {
	t.Cleanup(func() { authorizeWarehouseFn = defaultAuthorizeWarehouse })

	repo := &mockPartRepo{}
	svc := NewPartService(repo, &stubPublisher{})

	authorizeWarehouseFn = func(ctx context.Context, object, action string, roles ...composables.Role) (composables.Actor, error) {
		require.Equal(t, permissions.PartsObject, object)
		require.Equal(t, permissions.ActionCreate, action)
		return composables.Actor{}, errors.New("forbidden")
	}

	_, err := svc.Create(context.Background(), &part.CreateDTO{Name: "Pad", SKU: "BRK-001"})
	require.Error(t, err)
	require.False(t, repo.called, "repository should not be called when authorization fails")
}

func TestPartService_AuthorizeAdjustDenied(t *testing.T) {
	t.Cleanup(func() { authorizeWarehouseFn = defaultAuthorizeWarehouse })

	repo := &mockPartRepo{}
	svc := NewPartService(repo, &stubPublisher{})

	authorizeWarehouseFn = func(ctx context.Context, object, action string, roles ...composables.Role) (composables.Actor, error) {
		require.Equal(t, permissions.PartsObject, object)
		require.Equal(t, permissions.ActionAdjust, action)
		return composables.Actor{}, errors.New("forbidden")
	}

	_, err := svc.AdjustStock(context.Background(), uuid.New(), &part.AdjustStockDTO{Quantity: 1, Direction: "add"})
	require.Error(t, err)
	require.False(t, repo.called, "repository should not be called when authorization fails")
}

func TestDefaultAuthorizeWarehouse(t *testing.T) {
	object := permissions.PartsObject
	action := permissions.ActionCreate

	_, err := defaultAuthorizeWarehouse(context.Background(), object, action, composables.RoleServiceAdvisor)
	require.Error(t, err)

	ctx := composables.WithActor(context.Background(), composables.Actor{ID: uuid.New(), Role: composables.RoleTechnician})
	_, err = defaultAuthorizeWarehouse(ctx, object, action, composables.RoleServiceAdvisor)
	require.Error(t, err)

	ctx = composables.WithActor(context.Background(), composables.Actor{ID: uuid.New(), Role: composables.RoleServiceAdvisor})
	actor, err := defaultAuthorizeWarehouse(ctx, object, action, composables.RoleServiceAdvisor)
	require.NoError(t, err)
	require.Equal(t, composables.RoleServiceAdvisor, actor.Role)

	// Admin passes every role gate.
	ctx = composables.WithActor(context.Background(), composables.Actor{ID: uuid.New(), Role: composables.RoleAdmin})
	_, err = defaultAuthorizeWarehouse(ctx, object, action, composables.RoleTechnician)
	require.NoError(t, err)
}
