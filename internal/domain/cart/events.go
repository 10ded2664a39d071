package cart

import (
	"github.com/shopspring/decimal"

	"github.com/atlanticave/storefront/internal/domain/shared"
)

// EventTypeCheckoutStarted is emitted once the backend has issued a checkout URL
const EventTypeCheckoutStarted = "checkout.started"

// CheckoutStarted records a hand-off to the hosted checkout.
// The aggregate is the backend cart; the session id is never published.
type CheckoutStarted struct {
	shared.BaseDomainEvent
	CheckoutURL string          `json:"checkout_url"`
	Lines       []CheckoutLine  `json:"lines"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Currency    string          `json:"currency"`
}

// NewCheckoutStarted builds the event from the cart that was checked out
func NewCheckoutStarted(backendCartID, checkoutURL string, c *Cart, currency string) *CheckoutStarted {
	return &CheckoutStarted{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCheckoutStarted, backendCartID),
		CheckoutURL:     checkoutURL,
		Lines:           c.CheckoutLines(),
		ItemCount:       c.ItemCount(),
		Subtotal:        c.Subtotal(),
		Currency:        currency,
	}
}
