package partrequest

// Urgency is a review-ordering signal only. It never triggers automatic
// approval or escalation.
type Urgency string

const (
	UrgencyUrgent Urgency = "URGENT"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyNormal Urgency = "NORMAL"
	UrgencyLow    Urgency = "LOW"
)

func ParseUrgency(v string) (Urgency, bool) {
	switch Urgency(v) {
	case UrgencyUrgent, UrgencyHigh, UrgencyNormal, UrgencyLow:
		return Urgency(v), true
	default:
		return "", false
	}
}

func (u Urgency) Valid() bool {
	_, ok := ParseUrgency(string(u))
	return ok
}

// Rank gives the total order used for sorting: lower sorts first.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyUrgent:
		return 0
	case UrgencyHigh:
		return 1
	case UrgencyNormal:
		return 2
	case UrgencyLow:
		return 3
	default:
		return 4
	}
}
