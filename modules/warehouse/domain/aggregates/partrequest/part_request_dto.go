package partrequest

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/apexev/workshop/pkg/constants"
	"github.com/apexev/workshop/pkg/serrors"
)

type CreateDTO struct {
	ServiceOrderID uuid.UUID `json:"service_order_id" validate:"required"`
	PartID         uuid.UUID `json:"part_id" validate:"required"`
	Quantity       int       `json:"quantity" validate:"gt=0"`
	Urgency        string    `json:"urgency"`
	Notes          string    `json:"notes"`
}

func (d *CreateDTO) Normalize() {
	d.Urgency = strings.ToUpper(strings.TrimSpace(d.Urgency))
	if d.Urgency == "" {
		d.Urgency = string(UrgencyNormal)
	}
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	if err := constants.Validate.Struct(d); err != nil {
		return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
	}
	if _, ok := ParseUrgency(d.Urgency); !ok {
		return serrors.ValidationErrors{"Urgency": "Urgency is invalid"}, false
	}
	return serrors.ValidationErrors{}, true
}

func (d *CreateDTO) ToEntity(technicianID uuid.UUID) (PartRequest, error) {
	urgency, _ := ParseUrgency(d.Urgency)
	return New(d.ServiceOrderID, d.PartID, technicianID, d.Quantity, urgency, d.Notes)
}
