// Package shipment provides the Shipment aggregate: a physical consignment
// moving through one or more carriers on its way to the receiver.
//
// A shipment without a carrier is unclaimed and open to bidding; it never
// carries a status. Once claimed, its status always comes from the owning
// carrier's Status Catalog.
package shipment
