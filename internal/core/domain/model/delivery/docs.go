// Package delivery implements the delivery ledger.
//
// A Delivery is one truck-and-driver run. It owns the Legs it carries: each
// Leg is one attempted hand-off of a shipment, with its own addresses, load
// and delivery timestamps, and an explicit outcome.
//
// Delivery state machine:
//
//	scheduled ──> in_progress ──> completed
//	    │              │
//	    └──────────────┴──> cancelled
//
// Leg outcome:
//
//	pending ──┬──> delivered   (delivered_at set)
//	          └──> failed      (delivered_at stays nil forever)
//
// A leg is never moved to another delivery or shipment. A failed leg is
// never reopened; the next attempt gets a new leg. The most recent pending
// leg of a shipment is its open leg, and a delivery can only be completed
// once none of its legs is pending.
package delivery
