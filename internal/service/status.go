package service

import "parkspot/internal/db"

// allowedTransitions is the reservation lifecycle. Completed and cancelled
// are terminal.
var allowedTransitions = map[db.ReservationStatus][]db.ReservationStatus{
	db.StatusConfirmed: {db.StatusCompleted, db.StatusCancelled},
}

// TransitionPolicy decides which status changes are accepted. With Strict
// unset every change to a valid status is accepted, terminal states included.
type TransitionPolicy struct {
	Strict bool
}

func (p TransitionPolicy) Allows(from, to db.ReservationStatus) bool {
	if !p.Strict {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
