package delivery

import "freight/internal/core/domain/model/kernel"

// Event names as they appear in logs and metrics.
const (
	ShipmentDeliveredEventName   = "delivery.shipment_delivered"
	LegAddressesChangedEventName = "delivery.leg_addresses_changed"
)

// ShipmentDelivered is raised when a shipment's open leg is delivered.
type ShipmentDelivered struct {
	DeliveryID kernel.UUID
	LegID      kernel.UUID
	ShipmentID kernel.UUID
}

func (e ShipmentDelivered) Name() string {
	return ShipmentDeliveredEventName
}

func (e ShipmentDelivered) AggregateID() string {
	return e.DeliveryID.String()
}

// LegAddressesChanged asks the geocoding collaborator to resolve the
// addresses of a leg.
type LegAddressesChanged struct {
	DeliveryID kernel.UUID
	LegID      kernel.UUID
}

func (e LegAddressesChanged) Name() string {
	return LegAddressesChangedEventName
}

func (e LegAddressesChanged) AggregateID() string {
	return e.DeliveryID.String()
}
