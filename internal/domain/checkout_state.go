package domain

type CheckoutState string

const (
	CheckoutStateIdle             CheckoutState = "IDLE"
	CheckoutStateBuilding         CheckoutState = "BUILDING"
	CheckoutStateAwaitingProvider CheckoutState = "AWAITING_PROVIDER"
	CheckoutStateRedirecting      CheckoutState = "REDIRECTING"
	CheckoutStateFailed           CheckoutState = "FAILED"
)

// Terminal states end a checkout attempt; there is no retry or resumption,
// a new attempt starts over from IDLE and re-reads current cart state.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateRedirecting || s == CheckoutStateFailed
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:             {CheckoutStateBuilding},
	CheckoutStateBuilding:         {CheckoutStateAwaitingProvider, CheckoutStateFailed},
	CheckoutStateAwaitingProvider: {CheckoutStateRedirecting, CheckoutStateFailed},
}

func CanTransitionTo(from, to CheckoutState) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
