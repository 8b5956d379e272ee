package checkout

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/catshop/storefront/internal/cart"
	"github.com/catshop/storefront/internal/catalog"
	"github.com/catshop/storefront/internal/domain"
	"github.com/catshop/storefront/internal/payment"
)

const DefaultProviderTimeout = 15 * time.Second

type Options struct {
	// BaseURL is the externally visible shop address. Success and cancel
	// redirects are this address suffixed ?success=true / ?canceled=true.
	BaseURL  string
	Currency string
	// ProviderTimeout bounds the one remote call of a checkout attempt.
	ProviderTimeout time.Duration
}

// Result is the successful outcome of a checkout attempt: a provider
// redirect URL for the caller to follow.
type Result struct {
	URL    string
	State  domain.CheckoutState
	Amount int64
}

// Builder materializes the current cart into a provider checkout session.
// Each attempt is independent: it re-reads cart state, runs the
// IDLE -> BUILDING -> AWAITING_PROVIDER -> {REDIRECTING | FAILED} machine
// to a terminal state, and never mutates the cart, so a failed attempt
// can simply be retried by the user.
type Builder struct {
	carts    cart.Store
	catalog  *catalog.Catalog
	provider payment.Provider
	opts     Options
	log      *logrus.Logger
	sfg      singleflight.Group // collapses concurrent attempts per session
}

func NewBuilder(carts cart.Store, cat *catalog.Catalog, provider payment.Provider, opts Options, log *logrus.Logger) (*Builder, error) {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = DefaultProviderTimeout
	}
	if err := validateAbsoluteURL(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("checkout base url: %w", err)
	}
	if opts.Currency == "" {
		return nil, fmt.Errorf("checkout currency is required")
	}
	return &Builder{
		carts:    carts,
		catalog:  cat,
		provider: provider,
		opts:     opts,
		log:      log,
	}, nil
}

// Create runs one checkout attempt for the given session. At most one
// attempt per session is in flight at a time; concurrent callers share
// the first attempt's outcome.
func (b *Builder) Create(ctx context.Context, sessionID string) (*Result, error) {
	v, err, _ := b.sfg.Do(sessionID, func() (interface{}, error) {
		return b.create(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (b *Builder) create(ctx context.Context, sessionID string) (*Result, error) {
	log := b.log.WithField("session_id", sessionID)
	state := domain.CheckoutStateBuilding

	entries, err := b.carts.Entries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	items := cart.Items(b.catalog, entries)
	if stale := staleIDs(b.catalog, entries); len(stale) > 0 {
		// Stale entries are dropped from the join, the total and the
		// provider request; the user is not warned.
		log.WithField("product_ids", stale).Warn("cart references products missing from catalog, excluding them")
	}

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]payment.SessionLineItem, 0, len(items))
	for _, li := range items {
		lineItems = append(lineItems, payment.SessionLineItem{
			Currency:    b.opts.Currency,
			UnitAmount:  li.Product.Price,
			ProductName: li.Product.Name,
			Quantity:    li.Quantity,
		})
	}
	amount := cart.Total(items)

	if !domain.CanTransitionTo(state, domain.CheckoutStateAwaitingProvider) {
		return nil, IllegalTransitionError
	}
	state = domain.CheckoutStateAwaitingProvider
	log.WithFields(logrus.Fields{
		"state":  state,
		"items":  len(lineItems),
		"amount": amount,
	}).Info("creating provider checkout session")

	providerCtx, cancel := context.WithTimeout(ctx, b.opts.ProviderTimeout)
	defer cancel()

	sess, err := b.provider.CreateCheckoutSession(providerCtx, &payment.SessionParams{
		LineItems:  lineItems,
		SuccessURL: b.opts.BaseURL + "?success=true",
		CancelURL:  b.opts.BaseURL + "?canceled=true",
	})
	if err != nil {
		log.WithField("state", domain.CheckoutStateFailed).WithError(err).Warn("provider rejected checkout session")
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &Result{
		URL:    sess.URL,
		State:  domain.CheckoutStateRedirecting,
		Amount: amount,
	}, nil
}

func staleIDs(cat *catalog.Catalog, entries map[int64]int64) []int64 {
	var stale []int64
	for id := range entries {
		if _, ok := cat.Get(id); !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	return nil
}
