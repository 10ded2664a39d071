package dto

import (
	"github.com/shopspring/decimal"

	"github.com/atlanticave/storefront/internal/domain/cart"
	"github.com/atlanticave/storefront/internal/domain/commerce"
)

// CartLineRequest is one {merchandiseId, quantity} line of a backend cart mutation
type CartLineRequest struct {
	MerchandiseID string `json:"merchandiseId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
}

// ToCartLines converts request lines into backend cart lines
func ToCartLines(lines []CartLineRequest) []commerce.CartLineInput {
	out := make([]commerce.CartLineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, commerce.CartLineInput{MerchandiseID: l.MerchandiseID, Quantity: l.Quantity})
	}
	return out
}

// CreateCartRequest is the body of POST /api/cart/create
type CreateCartRequest struct {
	Lines []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// AddCartLinesRequest is the body of POST /api/cart/add
type AddCartLinesRequest struct {
	CartID string            `json:"cartId" binding:"required"`
	Lines  []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RemoveCartLinesRequest is the body of POST /api/cart/remove
type RemoveCartLinesRequest struct {
	CartID  string   `json:"cartId" binding:"required"`
	LineIDs []string `json:"lineIds" binding:"required,min=1,dive,required"`
}

// AddItemRequest is the body of POST /api/session/cart/items.
// Price, name and image may be omitted when handle is given; they are then taken from the live product.
type AddItemRequest struct {
	ProductID         string              `json:"productId" binding:"required"`
	Size              string              `json:"size" binding:"required"`
	Price             decimal.NullDecimal `json:"price"`
	Image             string              `json:"image"`
	Name              string              `json:"name"`
	VariantID         string              `json:"variantId"`
	AvailableQuantity *int                `json:"availableQuantity" binding:"omitempty,gte=0"`
	Handle            string              `json:"handle"`
}

// ToAddItem converts the request into a cart add intent
func (r AddItemRequest) ToAddItem() cart.AddItem {
	return cart.AddItem{
		ProductID:         r.ProductID,
		Size:              r.Size,
		UnitPrice:         r.Price,
		Image:             r.Image,
		Name:              r.Name,
		VariantID:         r.VariantID,
		AvailableQuantity: r.AvailableQuantity,
		Handle:            r.Handle,
	}
}

// SetQuantityRequest is the body of PUT /api/session/cart/items/:index.
// A quantity below 1 removes the line.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// RefreshStockRequest is the body of PUT /api/session/cart/items/:index/stock.
// A null ceiling clears it.
type RefreshStockRequest struct {
	AvailableQuantity *int `json:"availableQuantity" binding:"omitempty,gte=0"`
}

// LineIndexURI binds the :index path segment
type LineIndexURI struct {
	Index int `uri:"index" binding:"min=0"`
}

// CheckoutQuery binds the checkout query string
type CheckoutQuery struct {
	Redirect bool `form:"redirect"`
}
