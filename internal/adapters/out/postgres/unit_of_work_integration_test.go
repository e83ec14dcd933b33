package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/deliveryrepo"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type lifecycleFactory struct{ f ports.UnitOfWorkFactory }

func (l lifecycleFactory) Create() commands.LifecycleUoW { return l.f.Create() }

type ratingFactory struct{ f ports.UnitOfWorkFactory }

func (r ratingFactory) Create() commands.RatingUoW { return r.f.Create() }

// UnitOfWorkIntegrationTestSuite runs the unit of work and the lifecycle
// handlers against a real PostgreSQL, where row locks and the partial unique
// indexes are enforced.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("freight"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open("postgres", dsn, postgres_adapter.PoolOptions{MaxOpenConns: 10}, false)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, nil)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE ratings, legs, deliveries, forms, shipments, trucks, rules, statuses, carriers",
	).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) addCarrier(ctx context.Context) *carrier.Carrier {
	c, err := carrier.NewCarrier(kernel.NewUUID(), "Northwind")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().CarrierRepository().Add(ctx, c))
	return c
}

func (suite *UnitOfWorkIntegrationTestSuite) addTruck(ctx context.Context, carrierID kernel.UUID) *truck.Truck {
	capacity, err := kernel.NewDimensions(10000, 40)
	suite.Require().NoError(err)
	t, err := truck.NewTruck(kernel.NewUUID(), carrierID, "NW-001", 1000, capacity, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().TruckRepository().Add(ctx, t))
	return t
}

func (suite *UnitOfWorkIntegrationTestSuite) addShipment(ctx context.Context, carrierID kernel.UUID) *shipment.Shipment {
	dimensions, err := kernel.NewDimensions(100, 1)
	suite.Require().NoError(err)
	sender := suite.party("Acme", "1 Dock Road, Rotterdam")
	receiver := suite.party("Globex", "9 Harbour St, Antwerp")

	s, err := shipment.NewShipment(kernel.NewUUID(), dimensions, sender, receiver, time.Now().Add(24*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(s.Claim(carrierID))
	suite.Require().NoError(suite.factory.Create().ShipmentRepository().Add(ctx, s))
	return s
}

func (suite *UnitOfWorkIntegrationTestSuite) party(name, address string) shipment.Party {
	addr, err := kernel.NewAddress(address)
	suite.Require().NoError(err)
	p, err := shipment.NewParty(name, addr)
	suite.Require().NoError(err)
	return p
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Error(uow.Commit(ctx), "commit without an open transaction")
	suite.Error(uow.Rollback(ctx), "rollback without an open transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsEveryRepository() {
	ctx := context.Background()
	c := suite.addCarrier(ctx)
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	capacity, err := kernel.NewDimensions(500, 5)
	suite.Require().NoError(err)
	t, err := truck.NewTruck(kernel.NewUUID(), c.ID(), "NW-002", 0, capacity, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.TruckRepository().Add(ctx, t))

	d, err := delivery.NewDelivery(kernel.NewUUID(), c.ID(), t.ID(), "Dana", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, d))

	suite.Require().NoError(uow.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.TruckRepository().Get(ctx, t.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
	_, err = fresh.DeliveryRepository().Get(ctx, d.ID())
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OneScheduledDeliveryPerTruck() {
	ctx := context.Background()
	c := suite.addCarrier(ctx)
	t := suite.addTruck(ctx, c.ID())

	first, err := delivery.NewDelivery(kernel.NewUUID(), c.ID(), t.ID(), "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().DeliveryRepository().Add(ctx, first))

	second, err := delivery.NewDelivery(kernel.NewUUID(), c.ID(), t.ID(), "", time.Now())
	suite.Require().NoError(err)
	err = suite.factory.Create().DeliveryRepository().Add(ctx, second)

	suite.Error(err, "the partial unique index rejects a second scheduled delivery")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSchedule_ConcurrentCallsShareOneDelivery() {
	ctx := context.Background()
	c := suite.addCarrier(ctx)
	t := suite.addTruck(ctx, c.ID())

	const callers = 4
	shipments := make([]*shipment.Shipment, callers)
	for i := range shipments {
		shipments[i] = suite.addShipment(ctx, c.ID())
	}

	handler := commands.NewScheduleDeliveryCommandHandler(lifecycleFactory{suite.factory})
	results := make([]commands.ScheduleDeliveryResult, callers)
	outcomes := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd, err := commands.NewScheduleDeliveryCommand(c.ID(), t.ID(), []kernel.UUID{shipments[i].ID()}, "Dana")
			if err != nil {
				outcomes[i] = err
				return
			}
			results[i], outcomes[i] = handler.Handle(ctx, cmd)
		}(i)
	}
	wg.Wait()

	created := 0
	for i := range callers {
		suite.Require().NoError(outcomes[i])
		suite.True(results[i].DeliveryID.IsEqual(results[0].DeliveryID))
		if results[i].Created {
			created++
		}
	}
	suite.Equal(1, created)

	var scheduled int64
	suite.Require().NoError(suite.db.Model(&deliveryrepo.DeliveryDTO{}).
		Where("truck_id = ? AND state = ?", t.ID().Bytes(), string(delivery.StateScheduled)).
		Count(&scheduled).Error)
	suite.Equal(int64(1), scheduled)

	d, err := suite.factory.Create().DeliveryRepository().Get(ctx, results[0].DeliveryID)
	suite.Require().NoError(err)
	suite.Len(d.Legs(), callers)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRating_ConcurrentCreatesKeepAggregateExact() {
	ctx := context.Background()
	c := suite.addCarrier(ctx)
	t := suite.addTruck(ctx, c.ID())
	lifecycle := lifecycleFactory{suite.factory}

	const legs = 5
	ids := make([]kernel.UUID, legs)
	for i := range ids {
		ids[i] = suite.addShipment(ctx, c.ID()).ID()
	}

	schedule, err := commands.NewScheduleDeliveryCommand(c.ID(), t.ID(), ids, "Dana")
	suite.Require().NoError(err)
	scheduled, err := commands.NewScheduleDeliveryCommandHandler(lifecycle).Handle(ctx, schedule)
	suite.Require().NoError(err)

	initiate, err := commands.NewInitiateDeliveryCommand(c.ID(), t.ID(), "")
	suite.Require().NoError(err)
	_, err = commands.NewInitiateDeliveryCommandHandler(lifecycle).Handle(ctx, initiate)
	suite.Require().NoError(err)

	// Deliver the legs directly: the carrier has no delivered rule.
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	d, err := uow.DeliveryRepository().GetForUpdate(ctx, scheduled.DeliveryID)
	suite.Require().NoError(err)
	for _, id := range ids {
		_, err = d.DeliverShipment(id, time.Now())
		suite.Require().NoError(err)
	}
	suite.Require().NoError(uow.DeliveryRepository().Update(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))

	policy, err := services.NewMaintenancePolicy(100000, 365*24*time.Hour)
	suite.Require().NoError(err)
	closeCmd, err := commands.NewCloseDeliveryCommand(c.ID(), scheduled.DeliveryID, 1200)
	suite.Require().NoError(err)
	_, err = commands.NewCloseDeliveryCommandHandler(lifecycle, policy).Handle(ctx, closeCmd)
	suite.Require().NoError(err)

	handler := commands.NewCreateRatingCommandHandler(ratingFactory{suite.factory})
	var wg sync.WaitGroup
	failures := make([]error, legs)
	for i, leg := range d.Legs() {
		wg.Add(1)
		go func(i int, legID kernel.UUID) {
			defer wg.Done()
			cmd, err := commands.NewCreateRatingCommand(kernel.NewUUID(), legID, i+1, "")
			if err != nil {
				failures[i] = err
				return
			}
			failures[i] = handler.Handle(ctx, cmd)
		}(i, leg.ID())
	}
	wg.Wait()

	for _, err := range failures {
		suite.Require().NoError(err)
	}

	stored, err := suite.factory.Create().CarrierRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal(legs, stored.Rating().Count())
	suite.InDelta(3.0, stored.Rating().AverageFloat(), 0.001)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
