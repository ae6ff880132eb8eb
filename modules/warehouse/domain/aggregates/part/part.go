package part

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

// Status mirrors the catalog lifecycle of a stock-keeping unit. Stock
// mutations flip between ACTIVE and OUT_OF_STOCK; INACTIVE and DISCONTINUED
// are set manually and never overridden by stock movements.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
	StatusOutOfStock   Status = "OUT_OF_STOCK"
)

func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusActive, StatusInactive, StatusDiscontinued, StatusOutOfStock:
		return Status(v), true
	default:
		return "", false
	}
}

type Part struct {
	id              uuid.UUID
	name            string
	sku             string
	description     string
	unitPrice       *money.Money
	quantityInStock int
	status          Status
	createdAt       time.Time
	updatedAt       time.Time
}

func New(name, sku, description string, unitPrice *money.Money, quantityInStock int) Part {
	p := Part{
		name:            strings.TrimSpace(name),
		sku:             normalizeSKU(sku),
		description:     strings.TrimSpace(description),
		unitPrice:       unitPrice,
		quantityInStock: quantityInStock,
		status:          StatusActive,
	}
	return p.withStockStatus()
}

func Hydrate(
	id uuid.UUID,
	name string,
	sku string,
	description string,
	unitPrice *money.Money,
	quantityInStock int,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Part {
	return Part{
		id:              id,
		name:            strings.TrimSpace(name),
		sku:             normalizeSKU(sku),
		description:     strings.TrimSpace(description),
		unitPrice:       unitPrice,
		quantityInStock: quantityInStock,
		status:          status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (p Part) ID() uuid.UUID           { return p.id }
func (p Part) Name() string            { return p.name }
func (p Part) SKU() string             { return p.sku }
func (p Part) Description() string     { return p.description }
func (p Part) UnitPrice() *money.Money { return p.unitPrice }
func (p Part) QuantityInStock() int    { return p.quantityInStock }
func (p Part) Status() Status          { return p.status }
func (p Part) CreatedAt() time.Time    { return p.createdAt }
func (p Part) UpdatedAt() time.Time    { return p.updatedAt }
func (p Part) IsZero() bool            { return p.id == uuid.Nil && p.name == "" }

func (p Part) IsAvailable() bool { return p.quantityInStock > 0 }

// Category derives a display grouping from the SKU prefix convention
// ("MP-VENTO-001" -> "MP"). It is intentionally not a persisted attribute.
func (p Part) Category() string {
	if p.sku == "" {
		return ""
	}
	if i := strings.IndexByte(p.sku, '-'); i > 0 {
		return p.sku[:i]
	}
	return p.sku
}

// WithStock returns a copy carrying the new quantity with the
// ACTIVE/OUT_OF_STOCK flip applied.
func (p Part) WithStock(quantity int) Part {
	p.quantityInStock = quantity
	return p.withStockStatus()
}

func (p Part) withStockStatus() Part {
	switch {
	case p.quantityInStock == 0 && p.status == StatusActive:
		p.status = StatusOutOfStock
	case p.quantityInStock > 0 && p.status == StatusOutOfStock:
		p.status = StatusActive
	}
	return p
}

func normalizeSKU(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
