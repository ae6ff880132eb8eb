package services

import (
	"context"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/pkg/composables"
)

// Role requirements per action. The engine trusts the caller's identity and
// role (established by the authentication context); it only enforces which
// roles may invoke which operation.
var authorizeWarehouseFn = defaultAuthorizeWarehouse

func authorizeWarehouse(ctx context.Context, object, action string, roles ...composables.Role) (composables.Actor, error) {
	return authorizeWarehouseFn(ctx, object, action, roles...)
}

func defaultAuthorizeWarehouse(ctx context.Context, object, action string, roles ...composables.Role) (composables.Actor, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return composables.Actor{}, partrequest.ErrForbidden
	}
	if actor.IsAdmin() {
		return actor, nil
	}
	if !actor.Is(roles...) {
		return composables.Actor{}, partrequest.ErrForbidden
	}
	return actor, nil
}
