package cart

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store persists carts per session.
// Implementations must serialize concurrent Update calls for the same session.
type Store interface {
	// Load returns the session's cart, or an empty cart when none exists.
	Load(ctx context.Context, sessionID string) (*Cart, error)
	// Update applies fn to a copy of the session's cart and persists the result when fn succeeds.
	// A cart left empty by fn is deleted. If fn fails nothing is written and its error is returned.
	Update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error)
	// Delete destroys the session's cart
	Delete(ctx context.Context, sessionID string) error
}

// Encode serializes the cart as a JSON array of line items
func Encode(c *Cart) ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// Decode parses a persisted cart and checks its invariants
func Decode(data []byte) (*Cart, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	seen := make(map[[2]string]struct{}, len(items))
	for i, line := range items {
		if line.ID == "" || line.SelectedSize == "" || line.Quantity < 1 {
			return nil, fmt.Errorf("%w: line %d is incomplete", ErrCorruptSnapshot, i)
		}
		if line.AvailableQuantity != nil && *line.AvailableQuantity < 0 {
			return nil, fmt.Errorf("%w: line %d has a negative ceiling", ErrCorruptSnapshot, i)
		}
		key := [2]string{line.ID, line.SelectedSize}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate line for %s/%s", ErrCorruptSnapshot, line.ID, line.SelectedSize)
		}
		seen[key] = struct{}{}
	}
	if items == nil {
		items = []LineItem{}
	}
	return &Cart{Items: items}, nil
}
