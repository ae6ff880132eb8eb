package viewmodels

type Part struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SKU             string `json:"sku"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	UnitPrice       string `json:"unit_price"`
	UnitPriceAmount int64  `json:"unit_price_amount"`
	Currency        string `json:"currency"`
	QuantityInStock int    `json:"quantity_in_stock"`
	Status          string `json:"status"`
	Available       bool   `json:"available"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type PartRequest struct {
	ID              string `json:"id"`
	ServiceOrderID  string `json:"service_order_id"`
	PartID          string `json:"part_id"`
	TechnicianID    string `json:"technician_id"`
	Quantity        int    `json:"quantity"`
	Urgency         string `json:"urgency"`
	TechnicianNotes string `json:"technician_notes,omitempty"`
	Status          string `json:"status"`
	ApproverID      string `json:"approver_id,omitempty"`
	ApproverNotes   string `json:"approver_notes,omitempty"`
	DecidedAt       string `json:"decided_at,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type Availability struct {
	PartID         string `json:"part_id"`
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	InStock        int    `json:"in_stock"`
	Required       int    `json:"required"`
	Available      bool   `json:"available"`
	InsufficientBy int    `json:"insufficient_by,omitempty"`
}

// OrderGroup is one row of the advisor review board.
type OrderGroup struct {
	ServiceOrderID string         `json:"service_order_id"`
	UrgentCount    int            `json:"urgent_count"`
	PendingCount   int            `json:"pending_count"`
	EstimatedTotal string         `json:"estimated_total,omitempty"`
	LatestAt       string         `json:"latest_at"`
	Requests       []*PartRequest `json:"requests"`
}
