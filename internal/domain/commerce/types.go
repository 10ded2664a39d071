package commerce

// Validation tags are checked on every decoded response.

// Money is a decimal amount in the backend's string form
type Money struct {
	Amount       string `json:"amount" validate:"required,numeric"`
	CurrencyCode string `json:"currencyCode" validate:"required"`
}

// Image is a product image
type Image struct {
	URL     string  `json:"url" validate:"required"`
	AltText *string `json:"altText"`
}

type ImageEdge struct {
	Node Image `json:"node"`
}

type ImageConnection struct {
	Edges []ImageEdge `json:"edges" validate:"dive"`
}

// URLs returns the image URLs in backend order
func (c ImageConnection) URLs() []string {
	urls := make([]string, 0, len(c.Edges))
	for _, e := range c.Edges {
		urls = append(urls, e.Node.URL)
	}
	return urls
}

// Variant is a purchasable unit of a product. Its title is the size name.
type Variant struct {
	ID                string `json:"id" validate:"required"`
	Title             string `json:"title" validate:"required"`
	PriceV2           Money  `json:"priceV2"`
	AvailableForSale  bool   `json:"availableForSale"`
	QuantityAvailable *int   `json:"quantityAvailable"`
}

type VariantEdge struct {
	Node Variant `json:"node"`
}

type VariantConnection struct {
	Edges []VariantEdge `json:"edges" validate:"dive"`
}

// Nodes returns the variants in backend order
func (c VariantConnection) Nodes() []Variant {
	nodes := make([]Variant, 0, len(c.Edges))
	for _, e := range c.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
}

// Product is the backend product record
type Product struct {
	ID              string            `json:"id" validate:"required"`
	Title           string            `json:"title" validate:"required"`
	Description     string            `json:"description"`
	DescriptionHTML string            `json:"descriptionHtml,omitempty"`
	Handle          string            `json:"handle" validate:"required"`
	PriceRange      PriceRange        `json:"priceRange"`
	Images          ImageConnection   `json:"images"`
	Variants        VariantConnection `json:"variants"`
}

type ProductEdge struct {
	Node Product `json:"node"`
}

type ProductConnection struct {
	Edges []ProductEdge `json:"edges" validate:"dive"`
}

// ProductsData is the payload of the products query
type ProductsData struct {
	Products ProductConnection `json:"products"`
}

// Nodes returns the products in backend order
func (d *ProductsData) Nodes() []Product {
	nodes := make([]Product, 0, len(d.Products.Edges))
	for _, e := range d.Products.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

// ProductByHandleData is the payload of the productByHandle query
type ProductByHandleData struct {
	ProductByHandle *Product `json:"productByHandle"`
}

// ---------------------------------------------------------------------------
// Shop policies
// ---------------------------------------------------------------------------

type ShopPolicy struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Handle string `json:"handle"`
}

type Shop struct {
	PrivacyPolicy  *ShopPolicy `json:"privacyPolicy"`
	RefundPolicy   *ShopPolicy `json:"refundPolicy"`
	ShippingPolicy *ShopPolicy `json:"shippingPolicy"`
	TermsOfService *ShopPolicy `json:"termsOfService"`
}

// ShopPoliciesData is the payload of the shop policies query
type ShopPoliciesData struct {
	Shop Shop `json:"shop"`
}

// ---------------------------------------------------------------------------
// Carts
// ---------------------------------------------------------------------------

type MerchandiseProduct struct {
	Title  string          `json:"title"`
	Images ImageConnection `json:"images"`
}

// Merchandise is the variant a cart line points at
type Merchandise struct {
	ID      string             `json:"id" validate:"required"`
	Title   string             `json:"title"`
	PriceV2 Money              `json:"priceV2"`
	Product MerchandiseProduct `json:"product"`
}

type CartLine struct {
	ID          string      `json:"id" validate:"required"`
	Quantity    int         `json:"quantity" validate:"min=1"`
	Merchandise Merchandise `json:"merchandise"`
}

type CartLineEdge struct {
	Node CartLine `json:"node"`
}

type CartLineConnection struct {
	Edges []CartLineEdge `json:"edges" validate:"dive"`
}

type CartCost struct {
	TotalAmount    Money `json:"totalAmount"`
	SubtotalAmount Money `json:"subtotalAmount"`
}

// Cart is a backend cart. CheckoutURL may be empty.
type Cart struct {
	ID          string             `json:"id" validate:"required"`
	CheckoutURL string             `json:"checkoutUrl"`
	Lines       CartLineConnection `json:"lines"`
	Cost        CartCost           `json:"cost"`
}

// UserError is a backend rejection of a mutation input. It is data, not a transport failure.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message" validate:"required"`
}

// CartPayload is the common result of cart mutations
type CartPayload struct {
	Cart       *Cart       `json:"cart"`
	UserErrors []UserError `json:"userErrors" validate:"dive"`
}

// FirstUserError returns the first user error, if any
func (p *CartPayload) FirstUserError() (UserError, bool) {
	if p == nil || len(p.UserErrors) == 0 {
		return UserError{}, false
	}
	return p.UserErrors[0], true
}

// CheckoutURL returns the cart's checkout URL or "" when the cart is absent
func (p *CartPayload) CheckoutURL() string {
	if p == nil || p.Cart == nil {
		return ""
	}
	return p.Cart.CheckoutURL
}

type CartCreateData struct {
	CartCreate CartPayload `json:"cartCreate"`
}

type CartLinesAddData struct {
	CartLinesAdd CartPayload `json:"cartLinesAdd"`
}

type CartLinesRemoveData struct {
	CartLinesRemove CartPayload `json:"cartLinesRemove"`
}

type CartData struct {
	Cart *Cart `json:"cart"`
}
