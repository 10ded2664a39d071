// Package i18n holds the user-facing messages of the storefront API.
// Czech is the default; English is served when the client prefers it.
package i18n

import (
	"golang.org/x/text/language"
)

// Key identifies a user-facing message
type Key string

const (
	ProductsLoadFailed  Key = "products.load_failed"
	ProductNotFound     Key = "product.not_found"
	ProductLoadFailed   Key = "product.load_failed"
	PoliciesLoadFailed  Key = "policies.load_failed"
	PolicyNotFound      Key = "policy.not_found"
	CartNotFound        Key = "cart.not_found"
	CartLoadFailed      Key = "cart.load_failed"
	CartCreateFailed    Key = "cart.create_failed"
	CartAddFailed       Key = "cart.add_failed"
	CartRemoveFailed    Key = "cart.remove_failed"
	CartEmpty           Key = "cart.empty"
	CheckoutFailed      Key = "checkout.failed"
	CheckoutURLMissing  Key = "checkout.url_missing"
	InvalidRequestBody  Key = "request.invalid_body"
	InsufficientStock   Key = "stock.insufficient"
	OutOfStock          Key = "stock.out"
	SizeNotAvailable    Key = "stock.size_unavailable"
	ProductUnavailable  Key = "stock.product_unavailable"
	CartLineNotFound    Key = "cart.line_not_found"
	InternalServerError Key = "server.internal"
)

var supported = []language.Tag{
	language.Czech, // first tag is the fallback
	language.English,
}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]map[Key]string{
	language.Czech: {
		ProductsLoadFailed:  "Nepodařilo se načíst produkty",
		ProductNotFound:     "Produkt nebyl nalezen",
		ProductLoadFailed:   "Nepodařilo se načíst produkt",
		PoliciesLoadFailed:  "Nepodařilo se načíst obchodní podmínky",
		PolicyNotFound:      "Stránka nebyla nalezena",
		CartNotFound:        "Košík nebyl nalezen",
		CartLoadFailed:      "Nepodařilo se načíst košík",
		CartCreateFailed:    "Nepodařilo se vytvořit košík",
		CartAddFailed:       "Nepodařilo se přidat do košíku",
		CartRemoveFailed:    "Nepodařilo se odstranit z košíku",
		CartEmpty:           "Košík je prázdný",
		CheckoutFailed:      "Došlo k chybě při vytváření objednávky. Zkuste to prosím znovu.",
		CheckoutURLMissing:  "Nepodařilo se získat checkout URL",
		InvalidRequestBody:  "Invalid request body",
		InsufficientStock:   "Na skladě je pouze %d ks",
		OutOfStock:          "Tato velikost není skladem",
		SizeNotAvailable:    "Zvolená velikost není k dispozici",
		ProductUnavailable:  "Tento produkt nelze přidat do košíku",
		CartLineNotFound:    "Položka košíku nebyla nalezena",
		InternalServerError: "Interní chyba serveru",
	},
	language.English: {
		ProductsLoadFailed:  "Failed to load products",
		ProductNotFound:     "Product not found",
		ProductLoadFailed:   "Failed to load product",
		PoliciesLoadFailed:  "Failed to load store policies",
		PolicyNotFound:      "Page not found",
		CartNotFound:        "Cart not found",
		CartLoadFailed:      "Failed to load cart",
		CartCreateFailed:    "Failed to create cart",
		CartAddFailed:       "Failed to add to cart",
		CartRemoveFailed:    "Failed to remove from cart",
		CartEmpty:           "Your cart is empty",
		CheckoutFailed:      "Something went wrong while creating your order. Please try again.",
		CheckoutURLMissing:  "Failed to obtain checkout URL",
		InvalidRequestBody:  "Invalid request body",
		InsufficientStock:   "Only %d in stock",
		OutOfStock:          "This size is out of stock",
		SizeNotAvailable:    "The selected size is not available",
		ProductUnavailable:  "This product cannot be added to the cart",
		CartLineNotFound:    "Cart item not found",
		InternalServerError: "Internal server error",
	},
}

// Messages resolves message keys for one language
type Messages struct {
	tag language.Tag
}

// Default returns the Czech messages
func Default() Messages {
	return Messages{tag: language.Czech}
}

// ForAcceptLanguage picks the best supported language for an Accept-Language header.
// Malformed or empty headers fall back to Czech.
func ForAcceptLanguage(header string) Messages {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default()
	}
	return Messages{tag: supported[index]}
}

// Tag is the resolved language
func (m Messages) Tag() language.Tag {
	if m.tag == language.Und {
		return language.Czech
	}
	return m.tag
}

// Get returns the message for key, falling back to Czech and then to the key itself
func (m Messages) Get(key Key) string {
	if msg, ok := catalogs[m.Tag()][key]; ok {
		return msg
	}
	if msg, ok := catalogs[language.Czech][key]; ok {
		return msg
	}
	return string(key)
}
