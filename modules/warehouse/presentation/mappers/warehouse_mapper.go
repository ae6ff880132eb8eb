package mappers

import (
	"time"

	"github.com/google/uuid"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/modules/warehouse/presentation/viewmodels"
	"github.com/apexev/workshop/modules/warehouse/services"
)

func PartToViewModel(p part.Part) *viewmodels.Part {
	vm := &viewmodels.Part{
		ID:              p.ID().String(),
		Name:            p.Name(),
		SKU:             p.SKU(),
		Description:     p.Description(),
		Category:        p.Category(),
		QuantityInStock: p.QuantityInStock(),
		Status:          string(p.Status()),
		Available:       p.IsAvailable(),
		CreatedAt:       p.CreatedAt().Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt().Format(time.RFC3339),
	}
	if price := p.UnitPrice(); price != nil {
		vm.UnitPrice = price.Display()
		vm.UnitPriceAmount = price.Amount()
		vm.Currency = price.Currency().Code
	}
	return vm
}

func PartRequestToViewModel(r partrequest.PartRequest) *viewmodels.PartRequest {
	vm := &viewmodels.PartRequest{
		ID:              r.ID().String(),
		ServiceOrderID:  r.ServiceOrderID().String(),
		PartID:          r.PartID().String(),
		TechnicianID:    r.TechnicianID().String(),
		Quantity:        r.Quantity(),
		Urgency:         string(r.Urgency()),
		TechnicianNotes: r.TechnicianNotes(),
		Status:          string(r.Status()),
		ApproverNotes:   r.ApproverNotes(),
		CreatedAt:       r.CreatedAt().Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt().Format(time.RFC3339),
	}
	if r.ApproverID() != uuid.Nil {
		vm.ApproverID = r.ApproverID().String()
	}
	if r.DecidedAt() != nil {
		vm.DecidedAt = r.DecidedAt().Format(time.RFC3339)
	}
	return vm
}

func AvailabilityToViewModel(a services.AvailabilityCheck) *viewmodels.Availability {
	return &viewmodels.Availability{
		PartID:         a.PartID.String(),
		Name:           a.Name,
		SKU:            a.SKU,
		InStock:        a.InStock,
		Required:       a.Required,
		Available:      a.Available,
		InsufficientBy: a.InsufficientBy,
	}
}

func OrderGroupToViewModel(g services.OrderGroup) *viewmodels.OrderGroup {
	requests := make([]*viewmodels.PartRequest, 0, len(g.Requests))
	for _, req := range g.Requests {
		requests = append(requests, PartRequestToViewModel(req))
	}
	vm := &viewmodels.OrderGroup{
		ServiceOrderID: g.ServiceOrderID.String(),
		UrgentCount:    g.UrgentCount,
		PendingCount:   g.PendingCount,
		LatestAt:       g.LatestAt.Format(time.RFC3339),
		Requests:       requests,
	}
	if g.EstimatedTotal != nil {
		vm.EstimatedTotal = g.EstimatedTotal.Display()
	}
	return vm
}
