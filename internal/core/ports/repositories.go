package ports

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/rating"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"
)

// CarrierRepository persists carrier aggregates.
type CarrierRepository interface {
	Add(ctx context.Context, c *carrier.Carrier) error
	Update(ctx context.Context, c *carrier.Carrier) error
	Get(ctx context.Context, id kernel.UUID) (*carrier.Carrier, error)

	// GetForUpdate loads the carrier and holds its row lock until the
	// transaction ends. Rating aggregate changes go through this method.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*carrier.Carrier, error)
}

// RulebookRepository persists a carrier's Status Catalog and rules.
type RulebookRepository interface {
	// Get loads and validates the rulebook of carrierID. A carrier without
	// statuses or rules yields an empty rulebook.
	Get(ctx context.Context, carrierID kernel.UUID) (*carrier.Rulebook, error)

	AddStatus(ctx context.Context, s *carrier.Status) error

	// SaveRule upserts the rule keyed by (carrier, event).
	SaveRule(ctx context.Context, carrierID kernel.UUID, rule carrier.Rule) error
}

// TruckRepository persists truck aggregates.
type TruckRepository interface {
	Add(ctx context.Context, t *truck.Truck) error
	Update(ctx context.Context, t *truck.Truck) error
	Get(ctx context.Context, id kernel.UUID) (*truck.Truck, error)

	// GetForUpdate loads the truck and holds its row lock until the
	// transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*truck.Truck, error)

	// ListActiveIDs returns the ids of all active trucks.
	ListActiveIDs(ctx context.Context) ([]kernel.UUID, error)
}

// ShipmentRepository persists shipment aggregates.
type ShipmentRepository interface {
	Add(ctx context.Context, s *shipment.Shipment) error
	Update(ctx context.Context, s *shipment.Shipment) error
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetForUpdate loads and locks one shipment row.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetManyForUpdate loads and locks the shipments that exist among ids,
	// in id order. Missing ids are skipped.
	GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*shipment.Shipment, error)

	// ListByTruck returns the shipments currently assigned to truckID.
	ListByTruck(ctx context.Context, truckID kernel.UUID) ([]*shipment.Shipment, error)
}

// DeliveryRepository persists deliveries together with their legs.
//
// Row locks are taken in the order truck, shipments, deliveries by every
// caller, so the locking methods here come last in a transaction.
type DeliveryRepository interface {
	Add(ctx context.Context, d *delivery.Delivery) error

	// Update writes the delivery row and upserts every leg it owns.
	Update(ctx context.Context, d *delivery.Delivery) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate loads the delivery with its legs and locks the delivery row.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// FindScheduled returns the scheduled delivery of truckID, locked, or
	// nil when there is none.
	FindScheduled(ctx context.Context, truckID kernel.UUID) (*delivery.Delivery, error)

	// HasInProgress reports whether truckID is currently on a run.
	HasInProgress(ctx context.Context, truckID kernel.UUID) (bool, error)

	// FindByOpenLeg returns the delivery holding the open leg of
	// shipmentID, locked, or nil when the shipment has no open leg.
	FindByOpenLeg(ctx context.Context, shipmentID kernel.UUID) (*delivery.Delivery, error)

	// FindByLeg returns the delivery owning legID without locking it.
	FindByLeg(ctx context.Context, legID kernel.UUID) (*delivery.Delivery, error)
}

// RatingRepository persists ratings. At most one rating exists per leg.
type RatingRepository interface {
	Add(ctx context.Context, r *rating.Rating) error
	Update(ctx context.Context, r *rating.Rating) error
	Delete(ctx context.Context, id kernel.UUID) error
	Get(ctx context.Context, id kernel.UUID) (*rating.Rating, error)

	// GetForUpdate loads and locks one rating row.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*rating.Rating, error)

	// ExistsForLeg reports whether legID was already rated.
	ExistsForLeg(ctx context.Context, legID kernel.UUID) (bool, error)
}

// FormRepository persists maintenance forms.
type FormRepository interface {
	Add(ctx context.Context, f *form.Form) error

	// History summarizes the forms of truckID, including forms filed
	// against deliveries driven by it.
	History(ctx context.Context, truckID kernel.UUID) (services.MaintenanceHistory, error)
}
