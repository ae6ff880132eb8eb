package permissions

// Capability objects checked by the warehouse role guard.
const (
	PartsObject    = "warehouse.parts"
	RequestsObject = "warehouse.requests"
)

const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionAdjust  = "adjust"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionCancel  = "cancel"
	ActionFulfill = "fulfill"
)
