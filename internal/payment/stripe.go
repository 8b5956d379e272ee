package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeProvider creates hosted Stripe Checkout sessions: card-only,
// one-time "payment" mode, per-item price_data with integer unit amounts.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a provider around a dedicated Stripe client.
// The secret key comes from configuration, never from source.
func NewStripeProvider(apiKey string) *StripeProvider {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params *SessionParams) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, li := range params.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(li.Currency),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.ProductName),
				},
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}

	sess, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, asProviderError(err)
	}

	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// asProviderError keeps the provider's own message when Stripe returned a
// structured error, and falls back to the raw error text for transport
// failures.
func asProviderError(err error) *ProviderError {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &ProviderError{
			Code:    string(stripeErr.Code),
			Message: stripeErr.Msg,
		}
	}
	return &ProviderError{Message: err.Error()}
}
