package persistence

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
)

type partRow struct {
	ID                uuid.UUID
	Name              string
	SKU               string
	Description       string
	UnitPriceAmount   int64
	UnitPriceCurrency string
	QuantityInStock   int
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r partRow) toEntity() part.Part {
	return part.Hydrate(
		r.ID,
		r.Name,
		r.SKU,
		r.Description,
		money.New(r.UnitPriceAmount, r.UnitPriceCurrency),
		r.QuantityInStock,
		part.Status(r.Status),
		r.CreatedAt,
		r.UpdatedAt,
	)
}

type partRequestRow struct {
	ID              uuid.UUID
	ServiceOrderID  uuid.UUID
	PartID          uuid.UUID
	TechnicianID    uuid.UUID
	Quantity        int
	Urgency         string
	TechnicianNotes string
	Status          string
	ApproverID      *uuid.UUID
	ApproverNotes   string
	DecidedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r partRequestRow) toEntity() partrequest.PartRequest {
	approverID := uuid.Nil
	if r.ApproverID != nil {
		approverID = *r.ApproverID
	}
	return partrequest.Hydrate(
		r.ID,
		r.ServiceOrderID,
		r.PartID,
		r.TechnicianID,
		r.Quantity,
		partrequest.Urgency(r.Urgency),
		r.TechnicianNotes,
		partrequest.Status(r.Status),
		approverID,
		r.ApproverNotes,
		r.CreatedAt,
		r.UpdatedAt,
		r.DecidedAt,
	)
}
