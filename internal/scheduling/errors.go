package scheduling

import "errors"

// Typed outcomes of the booking workflow. Anything else returned by this
// package wraps an infrastructure failure and is retryable by the caller
// (after re-checking availability, never by blind resubmission).
var (
	// ErrSlotUnavailable means the requested (doctor, date, time) is not
	// bookable: it is already reserved, or the doctor does not offer it.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidTransition means a status update was requested from a
	// terminal or mismatched source status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound means a referenced doctor, patient or appointment does
	// not resolve.
	ErrNotFound = errors.New("not found")
)
