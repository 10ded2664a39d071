// Package commerce defines the port to the hosted commerce backend.
//
// The backend owns products, variants, stock, carts and checkout. This package declares the
// typed payloads it returns (JSON names match the backend's GraphQL fields so they can be relayed
// unchanged) and the StorefrontPlatform interface implemented in the infrastructure layer.
package commerce
