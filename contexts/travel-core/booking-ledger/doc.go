// Package bookingledger implements the escrow-backed booking lifecycle
// inside the travel-core context.
//
// The module owns booking creation and its state machine
// (pending/confirmed/completed/cancelled/refunded), the escrow journal,
// platform settings (owner, fee recipient, fee basis points, pause flag),
// and booking event production through the outbox-backed worker relay. It
// keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package bookingledger
