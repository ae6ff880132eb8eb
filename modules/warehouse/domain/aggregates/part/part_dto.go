package part

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"

	"github.com/apexev/workshop/pkg/constants"
	"github.com/apexev/workshop/pkg/serrors"
)

type CreateDTO struct {
	Name            string `json:"name" validate:"required,max=255"`
	SKU             string `json:"sku" validate:"max=100"`
	Description     string `json:"description"`
	UnitPriceAmount int64  `json:"unit_price_amount" validate:"gte=0"`
	Currency        string `json:"currency"`
	QuantityInStock int    `json:"quantity_in_stock" validate:"gte=0"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.SKU = strings.TrimSpace(d.SKU)
	d.Description = strings.TrimSpace(d.Description)
	if strings.TrimSpace(d.Currency) == "" {
		d.Currency = money.USD
	}
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}

func (d *CreateDTO) ToEntity() Part {
	return New(d.Name, d.SKU, d.Description, money.New(d.UnitPriceAmount, d.Currency), d.QuantityInStock)
}

// UpdateDTO carries partial catalog edits; nil fields are left untouched.
// Stock quantity is deliberately absent: quantity changes go through
// AdjustStock only.
type UpdateDTO struct {
	Name            *string `json:"name" validate:"omitempty,max=255"`
	SKU             *string `json:"sku" validate:"omitempty,max=100"`
	Description     *string `json:"description"`
	UnitPriceAmount *int64  `json:"unit_price_amount" validate:"omitempty,gte=0"`
	Status          *string `json:"status"`
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	if d.Status != nil {
		if _, ok := ParseStatus(*d.Status); !ok {
			return serrors.ValidationErrors{"Status": "Status is invalid"}, false
		}
	}
	return serrors.ValidationErrors{}, true
}

// Apply returns a copy of p with the DTO's set fields folded in.
func (d *UpdateDTO) Apply(p Part) Part {
	name := p.Name()
	if d.Name != nil {
		name = *d.Name
	}
	sku := p.SKU()
	if d.SKU != nil {
		sku = *d.SKU
	}
	description := p.Description()
	if d.Description != nil {
		description = *d.Description
	}
	unitPrice := p.UnitPrice()
	if d.UnitPriceAmount != nil {
		currency := money.USD
		if unitPrice != nil {
			currency = unitPrice.Currency().Code
		}
		unitPrice = money.New(*d.UnitPriceAmount, currency)
	}
	status := p.Status()
	if d.Status != nil {
		status, _ = ParseStatus(*d.Status)
	}
	return Hydrate(p.ID(), name, sku, description, unitPrice, p.QuantityInStock(), status, p.CreatedAt(), p.UpdatedAt())
}

type AdjustStockDTO struct {
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Direction string `json:"direction" validate:"required,oneof=add subtract"`
}

func (d *AdjustStockDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Direction = strings.ToLower(strings.TrimSpace(d.Direction))
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	return serrors.ValidationErrors{}, true
}

func (d *AdjustStockDTO) ToAdjustment() (StockAdjustment, error) {
	return NewStockAdjustment(d.Quantity, Direction(d.Direction))
}
