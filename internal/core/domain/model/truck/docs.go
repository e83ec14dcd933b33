// Package truck provides the Truck aggregate: a carrier's vehicle with its
// odometer mileage, load capacity, and availability for new deliveries.
//
// Mileage only grows. It is written when a delivery run is closed with an
// odometer reading, and the same close evaluates the maintenance policy.
// A truck that is due is deactivated and raises MaintenanceDue; it takes no
// new runs until it is activated again.
package truck
