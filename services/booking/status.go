package booking

import "relocare/models"

// lifecycle lists the forward edges of the strict state machine.
// completed and cancelled are terminal.
var lifecycle = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress: {models.BookingCompleted, models.BookingCancelled},
}

// CanTransition reports whether from -> to is a lifecycle edge. Writing the
// current status again is always allowed.
func CanTransition(from, to models.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range lifecycle[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition applies the configured policy. In permissive mode any
// valid status may follow any other.
func (s *DefaultBookingService) checkTransition(from, to models.BookingStatus) bool {
	if !s.Opts.StrictTransitions {
		return true
	}
	return CanTransition(from, to)
}
