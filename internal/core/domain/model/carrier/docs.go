// Package carrier models a carrier company (tenant) in the freight system.
//
// The package includes:
//   - Carrier: the tenant aggregate root holding the running rating aggregate
//   - Status: a named, tenant-specific shipment status from the Status Catalog
//   - Event: the closed enumeration of lifecycle events
//   - Rulebook: one carrier's Status Catalog together with its event-to-status rules
//
// Key business rules:
//   - A carrier binds at most one status per lifecycle event
//   - A rule may only point at one of the carrier's own statuses
//   - An unbound event resolves to nothing; callers leave the shipment untouched
//   - The rating aggregate keeps average ≥ 0 and count ≥ 0 and is updated
//     incrementally from the pre-mutation values
package carrier
