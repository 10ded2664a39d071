package shopify

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const cartFields = `
  fragment CartFields on Cart {
    id
    checkoutUrl
    lines(first: 10) {
      edges {
        node {
          id
          quantity
          merchandise {
            ... on ProductVariant {
              id
              title
              priceV2 { amount currencyCode }
              product {
                title
                images(first: 1) { edges { node { url altText } } }
              }
            }
          }
        }
      }
    }
    cost {
      totalAmount { amount currencyCode }
      subtotalAmount { amount currencyCode }
    }
  }
`

const variantFields = `
  fragment VariantFields on ProductVariant {
    id
    title
    priceV2 { amount currencyCode }
    availableForSale
    quantityAvailable
  }
`

const getProductsQuery = `
  query GetProducts($first: Int!) {
    products(first: $first) {
      edges {
        node {
          id
          title
          description
          handle
          priceRange { minVariantPrice { amount currencyCode } }
          images(first: 1) { edges { node { url altText } } }
          variants(first: 10) { edges { node { ...VariantFields } } }
        }
      }
    }
  }
` + variantFields

const getProductByHandleQuery = `
  query GetProductByHandle($handle: String!) {
    productByHandle(handle: $handle) {
      id
      title
      description
      descriptionHtml
      handle
      priceRange { minVariantPrice { amount currencyCode } }
      images(first: 5) { edges { node { url altText } } }
      variants(first: 10) { edges { node { ...VariantFields } } }
    }
  }
` + variantFields

const getShopPoliciesQuery = `
  query GetShopPolicies {
    shop {
      privacyPolicy { title body handle }
      refundPolicy { title body handle }
      shippingPolicy { title body handle }
      termsOfService { title body handle }
    }
  }
`

const createCartMutation = `
  mutation CreateCart($input: CartInput!) {
    cartCreate(input: $input) {
      cart { ...CartFields }
      userErrors { field message }
    }
  }
` + cartFields

const addCartLinesMutation = `
  mutation AddCartLines($cartId: ID!, $lines: [CartLineInput!]!) {
    cartLinesAdd(cartId: $cartId, lines: $lines) {
      cart { ...CartFields }
      userErrors { field message }
    }
  }
` + cartFields

const removeCartLinesMutation = `
  mutation RemoveCartLines($cartId: ID!, $lineIds: [ID!]!) {
    cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
      cart { ...CartFields }
      userErrors { field message }
    }
  }
` + cartFields

const getCartQuery = `
  query GetCart($cartId: ID!) {
    cart(id: $cartId) { ...CartFields }
  }
` + cartFields

// operation is a parsed GraphQL document with a single named operation
type operation struct {
	Name     string
	Kind     ast.Operation
	Document string
}

var operationSources = []operation{
	{Name: "GetProducts", Kind: ast.Query, Document: getProductsQuery},
	{Name: "GetProductByHandle", Kind: ast.Query, Document: getProductByHandleQuery},
	{Name: "GetShopPolicies", Kind: ast.Query, Document: getShopPoliciesQuery},
	{Name: "CreateCart", Kind: ast.Mutation, Document: createCartMutation},
	{Name: "AddCartLines", Kind: ast.Mutation, Document: addCartLinesMutation},
	{Name: "RemoveCartLines", Kind: ast.Mutation, Document: removeCartLinesMutation},
	{Name: "GetCart", Kind: ast.Query, Document: getCartQuery},
}

// compileOperations parses every document and checks it declares exactly the expected operation
func compileOperations(sources []operation) (map[string]operation, error) {
	ops := make(map[string]operation, len(sources))
	for _, src := range sources {
		doc, err := parser.ParseQuery(&ast.Source{Name: src.Name, Input: src.Document})
		if err != nil {
			return nil, fmt.Errorf("shopify: invalid %s document: %w", src.Name, err)
		}
		if len(doc.Operations) != 1 {
			return nil, fmt.Errorf("shopify: %s document must declare one operation, got %d", src.Name, len(doc.Operations))
		}
		op := doc.Operations[0]
		if op.Name != src.Name || op.Operation != src.Kind {
			return nil, fmt.Errorf("shopify: %s document declares %s %s", src.Name, op.Operation, op.Name)
		}
		for _, frag := range doc.Fragments {
			if !fragmentUsed(doc, frag.Name) {
				return nil, fmt.Errorf("shopify: %s document has unused fragment %s", src.Name, frag.Name)
			}
		}
		ops[src.Name] = src
	}
	return ops, nil
}

func fragmentUsed(doc *ast.QueryDocument, name string) bool {
	var walk func(ast.SelectionSet) bool
	walk = func(set ast.SelectionSet) bool {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if walk(s.SelectionSet) {
					return true
				}
			case *ast.InlineFragment:
				if walk(s.SelectionSet) {
					return true
				}
			case *ast.FragmentSpread:
				if s.Name == name {
					return true
				}
			}
		}
		return false
	}
	for _, op := range doc.Operations {
		if walk(op.SelectionSet) {
			return true
		}
	}
	return false
}
