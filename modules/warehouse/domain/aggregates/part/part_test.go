package part

import (
	"testing"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew_NormalizesFields(t *testing.T) {
	p := New("  Brake Pad Set  ", " brk-vento-001 ", "  front axle  ", money.New(18900, money.USD), 10)

	require.Equal(t, "Brake Pad Set", p.Name())
	require.Equal(t, "BRK-VENTO-001", p.SKU())
	require.Equal(t, "front axle", p.Description())
	require.Equal(t, 10, p.QuantityInStock())
	require.Equal(t, StatusActive, p.Status())
}

func TestNew_ZeroStockStartsOutOfStock(t *testing.T) {
	p := New("Coolant Pump", "CLN-001", "", money.New(32900, money.USD), 0)
	require.Equal(t, StatusOutOfStock, p.Status())
	require.False(t, p.IsAvailable())
}

func TestWithStock_FlipsStatusBothWays(t *testing.T) {
	p := New("Filter", "FLT-001", "", money.New(4900, money.USD), 5)

	empty := p.WithStock(0)
	require.Equal(t, StatusOutOfStock, empty.Status())

	restocked := empty.WithStock(3)
	require.Equal(t, StatusActive, restocked.Status())
	require.Equal(t, 3, restocked.QuantityInStock())
}

func TestWithStock_DoesNotOverrideManualStatus(t *testing.T) {
	now := time.Now()
	p := Hydrate(uuid.New(), "Filter", "FLT-002", "", money.New(4900, money.USD), 5, StatusDiscontinued, now, now)

	require.Equal(t, StatusDiscontinued, p.WithStock(0).Status())
	require.Equal(t, StatusDiscontinued, p.WithStock(7).Status())
}

func TestCategory_FromSKUPrefix(t *testing.T) {
	require.Equal(t, "BRK", New("x", "BRK-VENTO-001", "", nil, 1).Category())
	require.Equal(t, "PLAIN", New("x", "PLAIN", "", nil, 1).Category())
	require.Equal(t, "", New("x", "", "", nil, 1).Category())
}

func TestNewStockAdjustment_Validation(t *testing.T) {
	_, err := NewStockAdjustment(0, DirectionAdd)
	require.ErrorIs(t, err, ErrInvalidAdjustment)

	_, err = NewStockAdjustment(-3, DirectionSubtract)
	require.ErrorIs(t, err, ErrInvalidAdjustment)

	_, err = NewStockAdjustment(1, Direction("sideways"))
	require.ErrorIs(t, err, ErrInvalidAdjustment)
}

func TestStockAdjustment_Delta(t *testing.T) {
	add, err := NewStockAdjustment(4, DirectionAdd)
	require.NoError(t, err)
	require.Equal(t, 4, add.Delta())

	sub, err := SubtractStock(4)
	require.NoError(t, err)
	require.Equal(t, -4, sub.Delta())
	require.Equal(t, DirectionSubtract, sub.Direction())
}

func TestCreateDTO_Ok(t *testing.T) {
	dto := &CreateDTO{Name: "Brake Pad", SKU: "BRK-001", UnitPriceAmount: 18900, QuantityInStock: 5}
	errs, ok := dto.Ok()
	require.True(t, ok, "unexpected validation errors: %v", errs)
	require.Equal(t, money.USD, dto.Currency)

	dto = &CreateDTO{Name: "", QuantityInStock: -1}
	errs, ok = dto.Ok()
	require.False(t, ok)
	require.Contains(t, errs, "Name")
	require.Contains(t, errs, "QuantityInStock")
}

func TestUpdateDTO_ApplyKeepsStock(t *testing.T) {
	p := New("Filter", "FLT-001", "old", money.New(4900, money.USD), 8)
	name := "Cabin Filter"
	price := int64(5900)
	dto := &UpdateDTO{Name: &name, UnitPriceAmount: &price}

	updated := dto.Apply(p)
	require.Equal(t, "Cabin Filter", updated.Name())
	require.Equal(t, int64(5900), updated.UnitPrice().Amount())
	require.Equal(t, 8, updated.QuantityInStock())
	require.Equal(t, "old", updated.Description())
}
