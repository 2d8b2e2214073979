package booking

// Action tags the primary call-to-action a client should surface for a
// booking. Tags are advisory for UI affordances only; the backend remains the
// authority on whether an action is actually permitted.
type Action string

const (
	ActionConfirmCompletion  Action = "confirm_completion"
	ActionConfirmBooking     Action = "confirm_booking"
	ActionMarkDelivered      Action = "mark_delivered"
	ActionProcessCashPayment Action = "process_cash_payment"
	ActionResolveDispute     Action = "resolve_dispute"
)

// PrimaryAction returns the primary action for the booking as seen by the
// given role, and false when the role has nothing actionable to do.
func PrimaryAction(bk Booking, role Role) (Action, bool) {
	switch role {
	case RoleCustomer:
		if bk.Status == StatusServiceDelivered {
			return ActionConfirmCompletion, true
		}
		if bk.Status == StatusPending && bk.PaymentType == PaymentCash {
			return ActionConfirmBooking, true
		}
	case RoleProvider:
		if bk.Status == StatusConfirmed {
			return ActionMarkDelivered, true
		}
		if bk.Status == StatusServiceDelivered && bk.PaymentType == PaymentCash {
			return ActionProcessCashPayment, true
		}
	case RoleAdmin:
		if bk.Status == StatusDisputed {
			return ActionResolveDispute, true
		}
	}
	return "", false
}
