package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin share its transaction. Domain events raised by aggregates saved
// through them are published only after Commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CarrierRepository() CarrierRepository
	RulebookRepository() RulebookRepository
	TruckRepository() TruckRepository
	ShipmentRepository() ShipmentRepository
	DeliveryRepository() DeliveryRepository
	RatingRepository() RatingRepository
	FormRepository() FormRepository
}
