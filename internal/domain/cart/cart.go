// Package cart implements the session-owned shopping cart and its stock-ceiling rules.
//
// A Cart is an ordered list of line items keyed by (product id, size). Every mutation
// either succeeds completely or returns an error and leaves the cart untouched.
package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem is one (product, size, quantity) entry in the cart.
// Price, Image and Name are snapshots taken when the line was first added.
type LineItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	SelectedSize string          `json:"selectedSize"`
	Quantity     int             `json:"quantity"`
	VariantID    string          `json:"variantId,omitempty"`
	// AvailableQuantity is the last known stock ceiling. Nil means unknown (no limit enforced).
	AvailableQuantity *int   `json:"availableQuantity,omitempty"`
	Handle            string `json:"handle,omitempty"`
}

// LineTotal returns price * quantity
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MerchandiseID is the backend purchasable id for the line: the variant when known, else the product.
func (l LineItem) MerchandiseID() string {
	if l.VariantID != "" {
		return l.VariantID
	}
	return l.ID
}

func (l LineItem) matches(productID, size string) bool {
	return l.ID == productID && l.SelectedSize == size
}

// AddItem describes an add-to-cart intent. UnitPrice must be set before Add.
type AddItem struct {
	ProductID         string
	Size              string
	UnitPrice         decimal.NullDecimal
	Image             string
	Name              string
	VariantID         string
	AvailableQuantity *int
	Handle            string
}

// CheckoutLine is a {merchandiseId, quantity} pair sent to the backend
type CheckoutLine struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// Cart is the ordered list of line items owned by one session
type Cart struct {
	Items []LineItem
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Items: make([]LineItem, 0)}
}

// Add adds one unit of the item. An existing (product, size) line is incremented;
// otherwise a new line with quantity 1 is appended.
func (c *Cart) Add(item AddItem) error {
	if item.ProductID == "" || item.Size == "" || !item.UnitPrice.Valid || item.UnitPrice.Decimal.IsNegative() {
		return ErrInvalidItem
	}
	if item.AvailableQuantity != nil && *item.AvailableQuantity < 0 {
		return ErrInvalidItem
	}

	if idx := c.indexOf(item.ProductID, item.Size); idx >= 0 {
		line := &c.Items[idx]
		ceiling := line.AvailableQuantity
		if item.AvailableQuantity != nil {
			ceiling = item.AvailableQuantity
		}
		next := line.Quantity + 1
		if ceiling != nil && next > *ceiling {
			return &StockCeilingError{Ceiling: *ceiling, Requested: next}
		}
		line.Quantity = next
		if item.AvailableQuantity != nil {
			line.AvailableQuantity = copyInt(item.AvailableQuantity)
		}
		if line.VariantID == "" {
			line.VariantID = item.VariantID
		}
		return nil
	}

	if item.AvailableQuantity != nil && *item.AvailableQuantity == 0 {
		return ErrOutOfStock
	}

	c.Items = append(c.Items, LineItem{
		ID:                item.ProductID,
		Name:              item.Name,
		Price:             item.UnitPrice.Decimal,
		Image:             item.Image,
		SelectedSize:      item.Size,
		Quantity:          1,
		VariantID:         item.VariantID,
		AvailableQuantity: copyInt(item.AvailableQuantity),
		Handle:            item.Handle,
	})
	return nil
}

// Remove deletes the line at index
func (c *Cart) Remove(index int) error {
	if !c.validIndex(index) {
		return ErrLineNotFound
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return nil
}

// SetQuantity overwrites the quantity of a line. A quantity below 1 removes the line.
func (c *Cart) SetQuantity(index, quantity int) error {
	if !c.validIndex(index) {
		return ErrLineNotFound
	}
	if quantity < 1 {
		return c.Remove(index)
	}
	line := &c.Items[index]
	if line.AvailableQuantity != nil && quantity > *line.AvailableQuantity {
		return &StockCeilingError{Ceiling: *line.AvailableQuantity, Requested: quantity}
	}
	line.Quantity = quantity
	return nil
}

// RefreshStock replaces the cached ceiling of a line without touching its quantity.
// A nil ceiling clears it.
func (c *Cart) RefreshStock(index int, availableQuantity *int) error {
	if !c.validIndex(index) {
		return ErrLineNotFound
	}
	if availableQuantity != nil && *availableQuantity < 0 {
		return ErrInvalidItem
	}
	c.Items[index].AvailableQuantity = copyInt(availableQuantity)
	return nil
}

// Subtotal is the sum of price * quantity over all lines
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Items {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Total is the subtotal plus the flat shipping fee. An empty cart still pays the fee.
func (c *Cart) Total(shippingFee decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(shippingFee)
}

// ItemCount is the number of units across all lines
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.Items {
		n += line.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CheckoutLines builds the backend line list in cart order
func (c *Cart) CheckoutLines() []CheckoutLine {
	lines := make([]CheckoutLine, 0, len(c.Items))
	for _, line := range c.Items {
		lines = append(lines, CheckoutLine{
			MerchandiseID: line.MerchandiseID(),
			Quantity:      line.Quantity,
		})
	}
	return lines
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() *Cart {
	clone := &Cart{Items: make([]LineItem, len(c.Items))}
	for i, line := range c.Items {
		line.AvailableQuantity = copyInt(line.AvailableQuantity)
		clone.Items[i] = line
	}
	return clone
}

func (c *Cart) indexOf(productID, size string) int {
	for i, line := range c.Items {
		if line.matches(productID, size) {
			return i
		}
	}
	return -1
}

func (c *Cart) validIndex(index int) bool {
	return index >= 0 && index < len(c.Items)
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
