package part

type Direction string

const (
	DirectionAdd      Direction = "add"
	DirectionSubtract Direction = "subtract"
)

// StockAdjustment is a validated directional quantity change. It is applied
// to a part only through Repository.AdjustStock, which enforces the
// non-negative stock invariant atomically.
type StockAdjustment struct {
	quantity  int
	direction Direction
}

func NewStockAdjustment(quantity int, direction Direction) (StockAdjustment, error) {
	if quantity <= 0 {
		return StockAdjustment{}, ErrInvalidAdjustment
	}
	if direction != DirectionAdd && direction != DirectionSubtract {
		return StockAdjustment{}, ErrInvalidAdjustment
	}
	return StockAdjustment{quantity: quantity, direction: direction}, nil
}

// Subtraction is how request approval draws down stock.
func SubtractStock(quantity int) (StockAdjustment, error) {
	return NewStockAdjustment(quantity, DirectionSubtract)
}

func (a StockAdjustment) Quantity() int        { return a.quantity }
func (a StockAdjustment) Direction() Direction { return a.direction }

// Delta is the signed change to apply to quantity_in_stock.
func (a StockAdjustment) Delta() int {
	if a.direction == DirectionSubtract {
		return -a.quantity
	}
	return a.quantity
}
