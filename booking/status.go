package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPaymentPending       Status = "payment_pending"
	StatusPending              Status = "pending"
	StatusConfirmed            Status = "confirmed"
	StatusServiceDelivered     Status = "service_delivered"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusCompleted            Status = "completed"
	StatusDisputed             Status = "disputed"
	StatusCancelled            Status = "cancelled"
	StatusRejected             Status = "rejected"
)

// Info holds the display metadata and the legal forward transitions for a status.
type Info struct {
	Label       string
	Style       string
	Description string
	Active      bool
	Next        []Status
}

// statusTable defines the state machine and display metadata for every status.
// completed, cancelled and rejected are terminal: their Next set is empty.
var statusTable = map[Status]Info{
	StatusPaymentPending: {
		Label:       "Payment Pending",
		Style:       "warning",
		Description: "Awaiting payment before the booking reaches the provider.",
		Active:      true,
		Next:        []Status{StatusPending, StatusCancelled},
	},
	StatusPending: {
		Label:       "Pending",
		Style:       "warning",
		Description: "Waiting for the provider to confirm the booking.",
		Active:      true,
		Next:        []Status{StatusConfirmed, StatusRejected, StatusCancelled},
	},
	StatusConfirmed: {
		Label:       "Confirmed",
		Style:       "info",
		Description: "Confirmed by the provider and scheduled.",
		Active:      true,
		Next:        []Status{StatusServiceDelivered, StatusCancelled},
	},
	StatusServiceDelivered: {
		Label:       "Service Delivered",
		Style:       "info",
		Description: "The provider marked the service as delivered.",
		Active:      true,
		Next:        []Status{StatusAwaitingConfirmation, StatusCompleted, StatusDisputed},
	},
	StatusAwaitingConfirmation: {
		Label:       "Awaiting Confirmation",
		Style:       "warning",
		Description: "Waiting for the customer to confirm the delivered service.",
		Active:      true,
		Next:        []Status{StatusCompleted, StatusDisputed},
	},
	StatusCompleted: {
		Label:       "Completed",
		Style:       "success",
		Description: "The booking finished and payment settled.",
		Active:      false,
		Next:        []Status{},
	},
	StatusDisputed: {
		Label:       "Disputed",
		Style:       "danger",
		Description: "The customer raised an issue that needs resolution.",
		Active:      true,
		Next:        []Status{StatusCompleted, StatusCancelled},
	},
	StatusCancelled: {
		Label:       "Cancelled",
		Style:       "neutral",
		Description: "The booking was cancelled.",
		Active:      false,
		Next:        []Status{},
	},
	StatusRejected: {
		Label:       "Rejected",
		Style:       "danger",
		Description: "The provider rejected the booking.",
		Active:      false,
		Next:        []Status{},
	},
}

// lifecycleOrder lists all statuses in rough lifecycle order.
var lifecycleOrder = []Status{
	StatusPaymentPending,
	StatusPending,
	StatusConfirmed,
	StatusServiceDelivered,
	StatusAwaitingConfirmation,
	StatusCompleted,
	StatusDisputed,
	StatusCancelled,
	StatusRejected,
}

// Statuses returns every recognized booking status in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(lifecycleOrder))
	copy(out, lifecycleOrder)
	return out
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := statusTable[s]
	return exists
}

// Info returns the display metadata for the status.
//
// Unrecognized statuses fall back to the metadata of StatusPending. This keeps
// rendering total over whatever the backend sends; strict rejection of unknown
// statuses happens at the decode boundary in ParseStatus instead.
func (s Status) Info() Info {
	info, exists := statusTable[s]
	if !exists {
		info = statusTable[StatusPending]
	}
	info.Next = append([]Status(nil), info.Next...)
	return info
}

// CanTransitionTo returns true if a transition from this status to the target
// is allowed. Unrecognized statuses allow no transitions at all; the display
// fallback in Info never applies here.
func (s Status) CanTransitionTo(target Status) bool {
	info, exists := statusTable[s]
	if !exists {
		return false
	}
	for _, next := range info.Next {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal forward transitions from this status.
// Terminal and unrecognized statuses return an empty slice.
func (s Status) NextStatuses() []Status {
	info, exists := statusTable[s]
	if !exists {
		return nil
	}
	return append([]Status(nil), info.Next...)
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	info, exists := statusTable[s]
	if !exists {
		return true
	}
	return len(info.Next) == 0
}

// IsActive returns true if a booking in this status still requires attention.
func (s Status) IsActive() bool {
	return s.Info().Active
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// canceledAlias is the US spelling older backend payloads used for cancelled.
// Decoded bookings carry it verbatim, so BucketFor handles it alongside
// ParseStatus.
const canceledAlias Status = "canceled"

// ParseStatus converts a string to a Status, returning an error for anything
// the taxonomy does not know. The US spelling "canceled" is accepted as an
// alias for StatusCancelled because older backend payloads used both forms.
func ParseStatus(s string) (Status, error) {
	if Status(s) == canceledAlias {
		return StatusCancelled, nil
	}
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
	return status, nil
}
