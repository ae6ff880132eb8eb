package partrequest

import "errors"

var (
	ErrNotFound        = errors.New("part request not found")
	ErrInvalidState    = errors.New("request is not in the required state")
	ErrInvalidQuantity = errors.New("requested quantity must be positive")
	ErrEmptyReason     = errors.New("rejection requires a reason")
	ErrForbidden       = errors.New("caller may not act on this request")
)
