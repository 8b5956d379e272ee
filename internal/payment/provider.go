package payment

import "context"

// SessionLineItem is one priced line of a checkout request. UnitAmount is
// an integer in minor currency units; the provider does all pricing math.
type SessionLineItem struct {
	Currency    string
	UnitAmount  int64
	ProductName string
	Quantity    int64
}

type SessionParams struct {
	LineItems  []SessionLineItem
	SuccessURL string
	CancelURL  string
}

// Session is the provider-issued checkout session. Its internal structure
// is opaque to the shop; only the redirect URL is consumed.
type Session struct {
	ID  string
	URL string
}

// Provider creates hosted checkout sessions with an external payment
// service. Implementations must translate every provider failure into a
// *ProviderError so callers get a displayable message rather than a fault.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params *SessionParams) (*Session, error)
}

// ProviderError is a recoverable failure from the payment provider
// (network, auth, request validation). The message is safe to show to
// the user.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}
