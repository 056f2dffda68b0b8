package workflow

import "github.com/Fazalwahab12/shift-backend-sub002/pkg/models"

// transitions lists the only legal status moves. Anything else fails with
// CodeInvalidTransition.
var transitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.StatusApplied:        {models.StatusShortlisted, models.StatusInterviewed, models.StatusHired, models.StatusDeclined, models.StatusWithdrawn},
	models.StatusInvited:        {models.StatusInvitedApplied, models.StatusWithdrawn},
	models.StatusInvitedApplied: {models.StatusShortlisted, models.StatusInterviewed, models.StatusHired, models.StatusDeclined, models.StatusWithdrawn},
	models.StatusShortlisted:    {models.StatusInterviewed, models.StatusHired, models.StatusDeclined, models.StatusWithdrawn},
	models.StatusInterviewed:    {models.StatusHired, models.StatusDeclined, models.StatusWithdrawn},
	models.StatusHired:          {models.StatusAccepted, models.StatusDeclined},
	// declined, withdrawn and accepted are terminal
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status models.ApplicationStatus) bool {
	return len(transitions[status]) == 0
}
