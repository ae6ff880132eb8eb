package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
)

type partRepository struct {
	store *Store
}

func NewPartRepository(store *Store) part.Repository {
	return &partRepository{store: store}
}

func (r *partRepository) GetByID(_ context.Context, id uuid.UUID) (part.Part, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.parts[id]
	if !ok {
		return part.Part{}, part.ErrNotFound
	}
	return p, nil
}

func (r *partRepository) GetBySKU(_ context.Context, sku string) (part.Part, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	needle := strings.ToUpper(strings.TrimSpace(sku))
	for _, p := range r.store.parts {
		if p.SKU() == needle {
			return p, nil
		}
	}
	return part.Part{}, part.ErrNotFound
}

func (r *partRepository) List(_ context.Context, params *part.FindParams) ([]part.Part, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]part.Part, 0, len(r.store.parts))
	for _, p := range r.store.parts {
		if matchesFind(p, params) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].SKU() < out[j].SKU()
	})
	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return []part.Part{}, nil
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out, nil
}

func matchesFind(p part.Part, params *part.FindParams) bool {
	if params.Query != "" {
		q := strings.ToLower(strings.TrimSpace(params.Query))
		if !strings.Contains(strings.ToLower(p.Name()), q) &&
			!strings.Contains(strings.ToLower(p.SKU()), q) &&
			!strings.Contains(strings.ToLower(p.Description()), q) {
			return false
		}
	}
	if params.Category != "" && !strings.EqualFold(p.Category(), strings.TrimSpace(params.Category)) {
		return false
	}
	if params.Status != "" && p.Status() != params.Status {
		return false
	}
	if params.LowStockBelow > 0 && p.QuantityInStock() >= params.LowStockBelow {
		return false
	}
	return true
}

func (r *partRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.parts)), nil
}

func (r *partRepository) Create(_ context.Context, p part.Part) (part.Part, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.parts {
		if existing.SKU() == p.SKU() {
			return part.Part{}, part.ErrSKUTaken
		}
	}
	now := time.Now()
	created := part.Hydrate(
		uuid.New(),
		p.Name(),
		p.SKU(),
		p.Description(),
		p.UnitPrice(),
		p.QuantityInStock(),
		p.Status(),
		now,
		now,
	)
	r.store.parts[created.ID()] = created
	return created, nil
}

func (r *partRepository) Update(_ context.Context, p part.Part) (part.Part, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.parts[p.ID()]
	if !ok {
		return part.Part{}, part.ErrNotFound
	}
	for id, existing := range r.store.parts {
		if id != p.ID() && existing.SKU() == p.SKU() {
			return part.Part{}, part.ErrSKUTaken
		}
	}
	// Stock is owned by AdjustStock; Update never touches the quantity.
	updated := part.Hydrate(
		current.ID(),
		p.Name(),
		p.SKU(),
		p.Description(),
		p.UnitPrice(),
		current.QuantityInStock(),
		p.Status(),
		current.CreatedAt(),
		time.Now(),
	)
	r.store.parts[updated.ID()] = updated
	return updated, nil
}

func (r *partRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.parts[id]; !ok {
		return part.ErrNotFound
	}
	for _, req := range r.store.requests {
		if req.PartID() == id {
			return part.ErrReferenced
		}
	}
	delete(r.store.parts, id)
	return nil
}

func (r *partRepository) AdjustStock(_ context.Context, id uuid.UUID, adj part.StockAdjustment) (part.Part, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.parts[id]
	if !ok {
		return part.Part{}, part.ErrNotFound
	}
	next := current.QuantityInStock() + adj.Delta()
	if next < 0 {
		return part.Part{}, part.ErrInsufficientStock
	}
	adjusted := current.WithStock(next)
	adjusted = part.Hydrate(
		adjusted.ID(),
		adjusted.Name(),
		adjusted.SKU(),
		adjusted.Description(),
		adjusted.UnitPrice(),
		adjusted.QuantityInStock(),
		adjusted.Status(),
		adjusted.CreatedAt(),
		time.Now(),
	)
	r.store.parts[id] = adjusted
	return adjusted, nil
}
