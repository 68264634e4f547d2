package bookings

// Status is the booking lifecycle state. The happy path runs
// payment_pending -> booked -> picked -> completed; cancellations branch to
// one of the two terminal cancelled states. No transition leaves a terminal
// state.
type Status string

const (
	StatusPaymentPending   Status = "payment_pending"
	StatusBooked           Status = "booked"
	StatusPicked           Status = "picked"
	StatusCompleted        Status = "completed"
	StatusCancelledByUser  Status = "cancelled_by_user"
	StatusCancelledByOwner Status = "cancelled_by_owner"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPaymentPending, StatusBooked, StatusPicked, StatusCompleted,
		StatusCancelledByUser, StatusCancelledByOwner:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the state admits no further transitions
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelledByUser, StatusCancelledByOwner:
		return true
	}
	return false
}

// CanBeCancelled checks if a booking with this status can still be cancelled
func (s Status) CanBeCancelled() bool {
	return !s.IsTerminal()
}
