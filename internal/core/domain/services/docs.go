// Package services provides domain services whose rules span several
// aggregates of the freight lifecycle.
//
// The package includes:
//   - StatusApplier: resolves a lifecycle event through a carrier's Rulebook
//     and applies the resulting status to a shipment
//   - LoadPlanner: checks a truck's capacity against the shipments it carries
//   - MaintenancePolicy: decides whether a truck is due for service from its
//     mileage and maintenance forms
package services
