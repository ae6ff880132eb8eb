package part

import "errors"

var (
	ErrNotFound          = errors.New("part not found")
	ErrSKUTaken          = errors.New("sku already exists")
	ErrReferenced        = errors.New("part is referenced by an open request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidAdjustment = errors.New("invalid stock adjustment")
)
