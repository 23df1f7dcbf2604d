// Package authorizationregistry implements the owner-controlled caller
// allow-list inside the identity-access context.
//
// The module owns grant upserts (owner-only), authorization checks consumed
// by other modules through the checker port, and registry event production
// through the outbox-backed worker relay.
package authorizationregistry
