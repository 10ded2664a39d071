// Package session stores session-owned carts.
//
// Carts are persisted as the JSON line-item array produced by cart.Encode and are re-read on
// every request. Two backends exist: an in-process map for single-instance deployments and tests,
// and Redis for deployments with more than one instance.
package session
