// Package commands contains the business operations that modify freight
// state. Every handler validates its command, runs inside one unit of work,
// and rolls back on any error.
package commands

import (
	"context"

	"freight/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each group of handlers touches.
type (
	// TxManager handles database transaction lifecycle.
	// Handlers defer Rollback right after Begin and ignore its error, which
	// is all it returns once Commit has run.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// CarrierRepoFactory provides the carrier repository bound to the open
	// transaction.
	CarrierRepoFactory interface {
		CarrierRepository() ports.CarrierRepository
	}

	RulebookRepoFactory interface {
		RulebookRepository() ports.RulebookRepository
	}

	TruckRepoFactory interface {
		TruckRepository() ports.TruckRepository
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	RatingRepoFactory interface {
		RatingRepository() ports.RatingRepository
	}

	FormRepoFactory interface {
		FormRepository() ports.FormRepository
	}

	// TenantUoW covers carrier, Status Catalog and rule changes.
	TenantUoW interface {
		TxManager
		CarrierRepoFactory
		RulebookRepoFactory
	}

	// TenantUoWFactory creates one TenantUoW per handled command.
	TenantUoWFactory interface {
		Create() TenantUoW
	}

	// LifecycleUoW covers the orchestrator: trucks, shipments, deliveries
	// and legs, resolved through the carrier's rulebook.
	//
	// Rows are locked in a fixed order to keep concurrent commands from
	// deadlocking: truck, then shipments, then delivery.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   truck, err := uow.TruckRepository().GetForUpdate(ctx, truckID)
	//   // ... mutate aggregates
	//
	//   return uow.Commit(ctx)
	LifecycleUoW interface {
		TxManager
		CarrierRepoFactory
		RulebookRepoFactory
		TruckRepoFactory
		ShipmentRepoFactory
		DeliveryRepoFactory
		FormRepoFactory
	}

	// LifecycleUoWFactory creates one LifecycleUoW per handled command.
	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// RatingUoW covers ratings and the carrier rating aggregate.
	RatingUoW interface {
		TxManager
		CarrierRepoFactory
		DeliveryRepoFactory
		RatingRepoFactory
	}

	RatingUoWFactory interface {
		Create() RatingUoW
	}
)
