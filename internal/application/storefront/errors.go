// Package storefront holds the application services behind the storefront API:
// catalog reads, the session cart and the checkout hand-off.
package storefront

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atlanticave/storefront/internal/domain/cart"
	"github.com/atlanticave/storefront/internal/domain/shared"
)

var (
	// ErrCartEmpty is returned by Checkout for a cart without lines; the backend is not called
	ErrCartEmpty = cart.ErrEmptyCart
	// ErrCheckoutFailed wraps transport and GraphQL failures of the hand-off
	ErrCheckoutFailed = errors.New("storefront: checkout failed")
	// ErrCheckoutURLMissing is returned when the backend created a cart but issued no checkout URL
	ErrCheckoutURLMissing = errors.New("storefront: checkout URL missing")
	// ErrSizeNotAvailable is returned when the chosen size does not exist on the product
	ErrSizeNotAvailable = shared.NewDomainError("SIZE_NOT_AVAILABLE", "Selected size is not available")
	// ErrProductUnavailable is returned when the product offers no sizes at all
	ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product cannot be added to the cart")
)

// CheckoutUserError is a backend rejection of the checkout input. Message is shown verbatim.
type CheckoutUserError struct {
	Field   []string
	Message string
}

func (e *CheckoutUserError) Error() string {
	if len(e.Field) == 0 {
		return fmt.Sprintf("checkout rejected: %s", e.Message)
	}
	return fmt.Sprintf("checkout rejected (%s): %s", strings.Join(e.Field, "."), e.Message)
}
