package transactions

import "campusxchange-backend/internal/models"

// Workflow actions.
const (
	ActionAccept   = "accept"
	ActionReject   = "reject"
	ActionComplete = "complete"
	ActionCancel   = "cancel"
)

type role int

const (
	roleSeller role = iota
	roleBuyer
)

// actionRoles gates who may apply each action.
var actionRoles = map[string]role{
	ActionAccept:   roleSeller,
	ActionReject:   roleSeller,
	ActionComplete: roleSeller,
	ActionCancel:   roleBuyer,
}

// transitions is the single source of truth for the workflow: current status
// x action -> next status. Absent entries are invalid transitions. Terminal
// statuses have no row at all.
var transitions = map[string]map[string]string{
	models.StatusPending: {
		ActionAccept: models.StatusAccepted,
		ActionReject: models.StatusRejected,
		ActionCancel: models.StatusCancelled,
	},
	models.StatusAccepted: {
		ActionComplete: models.StatusCompleted,
		ActionCancel:   models.StatusCancelled,
	},
}

// availabilityForStatus derives item availability purely from the transaction
// status, so re-applying a side effect is idempotent per item.
func availabilityForStatus(status string) string {
	switch status {
	case models.StatusPending, models.StatusAccepted:
		return models.AvailabilityReserved
	case models.StatusCompleted:
		return models.AvailabilitySold
	default: // rejected, cancelled
		return models.AvailabilityAvailable
	}
}
