package cart

import (
	"errors"
	"fmt"

	"github.com/atlanticave/storefront/internal/domain/shared"
)

var (
	// ErrOutOfStock is returned when a new line is added for a size whose ceiling is zero
	ErrOutOfStock = shared.NewDomainError("OUT_OF_STOCK", "Product is out of stock")
	// ErrInsufficientStock is returned when a quantity would exceed the known ceiling
	ErrInsufficientStock = shared.ErrInsufficientStock
	// ErrLineNotFound is returned for a line index outside the cart
	ErrLineNotFound = shared.NewDomainError("NOT_FOUND", "Cart line not found")
	// ErrInvalidItem is returned when an item is missing its identity or carries a negative price
	ErrInvalidItem = shared.NewDomainError("INVALID_INPUT", "Invalid cart item")
	// ErrEmptyCart is returned when an operation needs at least one line
	ErrEmptyCart = shared.NewDomainError("CART_EMPTY", "Cart is empty")
)

// ErrConcurrentUpdate is returned by a Store that could not apply an update because the
// session's cart kept changing underneath it
var ErrConcurrentUpdate = errors.New("cart: modified concurrently")

// ErrCorruptSnapshot is returned when a persisted cart cannot be decoded or breaks an invariant
var ErrCorruptSnapshot = errors.New("cart: corrupt persisted snapshot")

// StockCeilingError reports a rejected quantity together with the known ceiling.
// It unwraps to ErrInsufficientStock.
type StockCeilingError struct {
	Ceiling   int
	Requested int
}

func (e *StockCeilingError) Error() string {
	return fmt.Sprintf("cart: requested quantity %d exceeds available stock %d", e.Requested, e.Ceiling)
}

func (e *StockCeilingError) Unwrap() error {
	return ErrInsufficientStock
}
