package part

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	// Query matches name, SKU and description, case-insensitively.
	Query string
	// Category filters by the SKU prefix convention.
	Category string
	Status   Status
	// LowStockBelow, when > 0, keeps only parts with less stock than the
	// threshold.
	LowStockBelow int
	Limit         int
	Offset        int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Part, error)
	GetBySKU(ctx context.Context, sku string) (Part, error)
	List(ctx context.Context, params *FindParams) ([]Part, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, p Part) (Part, error)
	Update(ctx context.Context, p Part) (Part, error)
	// Delete fails with ErrReferenced while any request still references
	// the part.
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock applies adj as a single conditional update: the stock
	// floor at zero is checked and the quantity written in one atomic
	// step, never as a read-then-write pair.
	AdjustStock(ctx context.Context, id uuid.UUID, adj StockAdjustment) (Part, error)
}
