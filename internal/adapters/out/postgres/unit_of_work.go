// Package postgres provides the GORM implementation of the Unit of Work and
// the database bootstrap shared by all repositories.
//
// A unit of work owns one transaction. Repositories handed out after Begin
// run inside it, and aggregates they save are tracked so their domain
// events can be published once Commit succeeds:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.TruckRepository().Update(ctx, truck); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Events of a rolled back transaction are dropped.
package postgres

import (
	"context"

	"freight/internal/adapters/out/postgres/carrierrepo"
	"freight/internal/adapters/out/postgres/deliveryrepo"
	"freight/internal/adapters/out/postgres/formrepo"
	"freight/internal/adapters/out/postgres/ratingrepo"
	"freight/internal/adapters/out/postgres/rulebookrepo"
	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/adapters/out/postgres/truckrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/ddd"
	"freight/internal/pkg/logger"
	"freight/internal/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trackedAggregate is an aggregate saved during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate ddd.EventSource
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one event publisher.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
}

// NewGormUnitOfWorkFactory returns a factory. publisher may be nil, in which
// case domain events are discarded after commit.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, publisher: publisher}
}

// Create returns an idle unit of work. Nothing touches the database until
// Begin.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork is not safe for concurrent use; each business operation
// creates its own.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is
// open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and then publishes the domain events of
// every tracked aggregate. A publishing failure is logged and counted but
// does not fail the commit.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards the transaction and the tracked aggregates' events.
// After Commit it returns gorm.ErrInvalidTransaction, which deferred
// rollbacks ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	for _, tracked := range uow.trackedAggregates {
		tracked.Aggregate.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// CarrierRepository and the other repository getters return a repository
// bound to the open transaction, or to the pool before Begin.
func (uow *GormUnitOfWork) CarrierRepository() ports.CarrierRepository {
	return carrierrepo.NewGormCarrierRepository(uow.conn())
}

func (uow *GormUnitOfWork) RulebookRepository() ports.RulebookRepository {
	return rulebookrepo.NewGormRulebookRepository(uow.conn())
}

// TruckRepository tracks saved trucks for event publishing.
func (uow *GormUnitOfWork) TruckRepository() ports.TruckRepository {
	return truckrepo.NewGormTruckRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn())
}

// DeliveryRepository tracks saved deliveries for event publishing.
func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) RatingRepository() ports.RatingRepository {
	return ratingrepo.NewGormRatingRepository(uow.conn())
}

func (uow *GormUnitOfWork) FormRepository() ports.FormRepository {
	return formrepo.NewGormFormRepository(uow.conn())
}

// TrackAggregate registers an aggregate whose events are published after
// commit. Saving the same aggregate twice tracks it once.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate ddd.EventSource) {
	for _, tracked := range uow.trackedAggregates {
		if tracked.ID.IsEqual(id) && tracked.Aggregate == aggregate {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction, or the pool outside of one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// publishEvents drains every tracked aggregate. A publisher failure is
// logged per aggregate and does not stop the remaining ones.
func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	for _, t := range tracked {
		events := t.Aggregate.DomainEvents()
		t.Aggregate.ClearDomainEvents()
		if len(events) == 0 || uow.publisher == nil {
			continue
		}

		if err := uow.publisher.Publish(ctx, events...); err != nil {
			for _, e := range events {
				metrics.EventsPublishFailedTotal.WithLabelValues(e.Name()).Inc()
			}
			logger.Z().Error("failed to publish domain events",
				zap.String("aggregate_id", t.ID.String()),
				zap.Int("events", len(events)),
				zap.Error(err),
			)
		}
	}
}
