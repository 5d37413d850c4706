package model

// BudgetOrigin tags how a budget item came to exist. Auto items are owned
// by the budget deriver and carry a provenance pointer; manual items are
// owned by users and never touched by derivation.
type BudgetOrigin int

const (
	OriginManual BudgetOrigin = iota
	OriginAutoVehicle
	OriginAutoStaff
)

// String returns a human-readable representation of the origin.
func (o BudgetOrigin) String() string {
	switch o {
	case OriginManual:
		return "manual"
	case OriginAutoVehicle:
		return "auto-vehicle"
	case OriginAutoStaff:
		return "auto-staff"
	default:
		return "unknown"
	}
}

// Auto reports whether the item is derived rather than user-entered.
func (o BudgetOrigin) Auto() bool {
	return o == OriginAutoVehicle || o == OriginAutoStaff
}

// Budget categories used by derived items.
const (
	CategoryTeamVehicle = "team vehicle"
	CategorySalaries    = "salaries"
)

// BudgetItem is one line of an event's budget. SourceVehicleID or
// SourceStaffID records provenance for auto items; exactly one of them is
// set depending on Origin.
type BudgetItem struct {
	ID              string       `json:"id"`
	EventID         string       `json:"event_id"`
	Category        string       `json:"category"`
	Description     string       `json:"description,omitempty"`
	EstimatedCost   float64      `json:"estimated_cost"`
	ActualCost      float64      `json:"actual_cost,omitempty"`
	Origin          BudgetOrigin `json:"origin"`
	SourceVehicleID string       `json:"source_vehicle_id,omitempty"`
	SourceStaffID   string       `json:"source_staff_id,omitempty"`
}
