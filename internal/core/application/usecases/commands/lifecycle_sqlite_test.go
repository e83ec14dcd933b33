package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/rating"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/ddd"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var sqliteDBSeq atomic.Int64

type capturingPublisher struct {
	mu     sync.Mutex
	events []ddd.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...ddd.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Name())
	}
	return names
}

type tenantFactory struct{ f ports.UnitOfWorkFactory }

func (t tenantFactory) Create() commands.TenantUoW { return t.f.Create() }

type lifecycleFactory struct{ f ports.UnitOfWorkFactory }

func (l lifecycleFactory) Create() commands.LifecycleUoW { return l.f.Create() }

type ratingFactory struct{ f ports.UnitOfWorkFactory }

func (r ratingFactory) Create() commands.RatingUoW { return r.f.Create() }

// brokenDeliveryWrites makes every delivery Update fail inside an otherwise
// real unit of work.
type brokenDeliveryWrites struct {
	f   ports.UnitOfWorkFactory
	err error
}

func (b brokenDeliveryWrites) Create() commands.LifecycleUoW {
	return brokenDeliveryUoW{UnitOfWork: b.f.Create(), err: b.err}
}

type brokenDeliveryUoW struct {
	ports.UnitOfWork
	err error
}

func (u brokenDeliveryUoW) DeliveryRepository() ports.DeliveryRepository {
	return brokenDeliveryRepository{DeliveryRepository: u.UnitOfWork.DeliveryRepository(), err: u.err}
}

type brokenDeliveryRepository struct {
	ports.DeliveryRepository
	err error
}

func (r brokenDeliveryRepository) Update(context.Context, *delivery.Delivery) error {
	return r.err
}

// LifecycleTestSuite drives the orchestrator end to end over an in-memory
// SQLite database.
type LifecycleTestSuite struct {
	suite.Suite
	ctx       context.Context
	db        *gorm.DB
	uows      ports.UnitOfWorkFactory
	publisher *capturingPublisher

	tenants   commands.TenantUoWFactory
	lifecycle commands.LifecycleUoWFactory
	ratings   commands.RatingUoWFactory

	carrierID  kernel.UUID
	truckID    kernel.UUID
	loaded     kernel.UUID
	dispatched kernel.UUID
	delivered  kernel.UUID
}

func (s *LifecycleTestSuite) SetupTest() {
	s.ctx = context.Background()

	dsn := fmt.Sprintf("file:lifecycle_%d?mode=memory&cache=shared", sqliteDBSeq.Add(1))
	db, err := postgres.Open("sqlite", dsn, postgres.PoolOptions{MaxOpenConns: 1}, false)
	s.Require().NoError(err)
	s.Require().NoError(postgres.Migrate(db))
	s.db = db

	s.publisher = &capturingPublisher{}
	s.uows = postgres.NewGormUnitOfWorkFactory(db, s.publisher)
	s.tenants = tenantFactory{s.uows}
	s.lifecycle = lifecycleFactory{s.uows}
	s.ratings = ratingFactory{s.uows}

	s.carrierID = kernel.NewUUID()
	s.provisionTenant(s.carrierID, "Northwind")
	s.truckID = s.registerTruck(s.carrierID, 1000)
}

func (s *LifecycleTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *LifecycleTestSuite) provisionTenant(carrierID kernel.UUID, name string) {
	cmd, err := commands.NewProvisionTenantCommand(carrierID, name,
		[]commands.TenantStatus{
			{Name: "Loaded"},
			{Name: "Dispatched", LockedForCustomers: true},
			{Name: "Delivered", Closed: true},
		},
		map[carrier.Event]string{
			carrier.EventLoaded:     "Loaded",
			carrier.EventDispatched: "Dispatched",
			carrier.EventDelivered:  "Delivered",
		},
	)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewProvisionTenantCommandHandler(s.tenants, nil).Handle(s.ctx, cmd))

	rb := s.rulebook(carrierID)
	for name, target := range map[string]*kernel.UUID{"Loaded": &s.loaded, "Dispatched": &s.dispatched, "Delivered": &s.delivered} {
		status, ok := rb.StatusByName(name)
		s.Require().True(ok, name)
		if carrierID.IsEqual(s.carrierID) {
			*target = status.ID()
		}
	}
}

func (s *LifecycleTestSuite) rulebook(carrierID kernel.UUID) *carrier.Rulebook {
	rb, err := s.uows.Create().RulebookRepository().Get(s.ctx, carrierID)
	s.Require().NoError(err)
	return rb
}

func (s *LifecycleTestSuite) registerTruck(carrierID kernel.UUID, mileage int) kernel.UUID {
	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterTruckCommand(id, carrierID, "FR-"+id.String()[:6], mileage, 10000, 40)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterTruckCommandHandler(s.lifecycle).Handle(s.ctx, cmd))
	return id
}

func (s *LifecycleTestSuite) claimedShipment(carrierID kernel.UUID) kernel.UUID {
	id := kernel.NewUUID()
	create, err := commands.NewCreateShipmentCommand(id, 120, 1.5,
		"Acme", "1 Dock Road, Rotterdam", "Globex", "9 Harbour St, Antwerp",
		time.Now().Add(48*time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCreateShipmentCommandHandler(s.lifecycle).Handle(s.ctx, create))

	claim, err := commands.NewClaimShipmentCommand(carrierID, id)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewClaimShipmentCommandHandler(s.lifecycle).Handle(s.ctx, claim))
	return id
}

func (s *LifecycleTestSuite) schedule(shipmentIDs ...kernel.UUID) (commands.ScheduleDeliveryResult, error) {
	cmd, err := commands.NewScheduleDeliveryCommand(s.carrierID, s.truckID, shipmentIDs, "Dana")
	s.Require().NoError(err)
	return commands.NewScheduleDeliveryCommandHandler(s.lifecycle).Handle(s.ctx, cmd)
}

func (s *LifecycleTestSuite) initiate() commands.InitiateDeliveryResult {
	cmd, err := commands.NewInitiateDeliveryCommand(s.carrierID, s.truckID, "")
	s.Require().NoError(err)
	result, err := commands.NewInitiateDeliveryCommandHandler(s.lifecycle).Handle(s.ctx, cmd)
	s.Require().NoError(err)
	return result
}

func (s *LifecycleTestSuite) closeDelivery(deliveryID kernel.UUID, odometer int) (commands.CloseDeliveryResult, error) {
	policy, err := services.NewMaintenancePolicy(5000, 365*24*time.Hour)
	s.Require().NoError(err)
	cmd, err := commands.NewCloseDeliveryCommand(s.carrierID, deliveryID, odometer)
	s.Require().NoError(err)
	return commands.NewCloseDeliveryCommandHandler(s.lifecycle, policy).Handle(s.ctx, cmd)
}

func (s *LifecycleTestSuite) deliver(shipmentID kernel.UUID) services.StatusChange {
	cmd, err := commands.NewDeliverShipmentCommand(s.carrierID, shipmentID)
	s.Require().NoError(err)
	change, err := commands.NewDeliverShipmentCommandHandler(s.lifecycle).Handle(s.ctx, cmd)
	s.Require().NoError(err)
	return change
}

func (s *LifecycleTestSuite) loadDelivery(id kernel.UUID) *delivery.Delivery {
	d, err := s.uows.Create().DeliveryRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	return d
}

func (s *LifecycleTestSuite) loadTruck(id kernel.UUID) *truck.Truck {
	t, err := s.uows.Create().TruckRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	return t
}

func (s *LifecycleTestSuite) statusOf(shipmentID kernel.UUID) *kernel.UUID {
	sh, err := s.uows.Create().ShipmentRepository().Get(s.ctx, shipmentID)
	s.Require().NoError(err)
	return sh.StatusID()
}

func (s *LifecycleTestSuite) legOf(d *delivery.Delivery, shipmentID kernel.UUID) *delivery.Leg {
	for _, l := range d.Legs() {
		if l.ShipmentID().IsEqual(shipmentID) {
			return l
		}
	}
	s.FailNow("no leg for shipment", shipmentID.String())
	return nil
}

func (s *LifecycleTestSuite) TestSchedule_TwiceReusesScheduledDelivery() {
	first := s.claimedShipment(s.carrierID)
	second := s.claimedShipment(s.carrierID)

	r1, err := s.schedule(first)
	s.Require().NoError(err)
	r2, err := s.schedule(second)
	s.Require().NoError(err)

	s.True(r1.Created)
	s.False(r2.Created)
	s.True(r1.DeliveryID.IsEqual(r2.DeliveryID))

	d := s.loadDelivery(r1.DeliveryID)
	s.Equal(delivery.StateScheduled, d.State())
	s.Len(d.Legs(), 2)
	for _, l := range d.Legs() {
		s.NotNil(l.LoadedAt())
		s.Equal(delivery.OutcomePending, l.Outcome())
	}

	s.Require().NotNil(s.statusOf(first))
	s.True(s.statusOf(first).IsEqual(s.loaded))
	s.True(s.statusOf(second).IsEqual(s.loaded))
}

func (s *LifecycleTestSuite) TestSchedule_SameShipmentTwiceKeepsOneLeg() {
	id := s.claimedShipment(s.carrierID)

	r1, err := s.schedule(id)
	s.Require().NoError(err)
	_, err = s.schedule(id)
	s.Require().NoError(err)

	s.Len(s.loadDelivery(r1.DeliveryID).Legs(), 1)
}

func (s *LifecycleTestSuite) TestSchedule_ForeignShipmentsOnly() {
	other := kernel.NewUUID()
	s.provisionTenant(other, "Contoso")
	foreign := s.claimedShipment(other)

	_, err := s.schedule(foreign)

	s.ErrorIs(err, commands.ErrNoShipmentsToSchedule)
	s.Nil(s.statusOf(foreign))
}

func (s *LifecycleTestSuite) TestSchedule_RejectedWhileTruckOnRun() {
	_, err := s.schedule(s.claimedShipment(s.carrierID))
	s.Require().NoError(err)
	s.initiate()

	_, err = s.schedule(s.claimedShipment(s.carrierID))

	s.ErrorIs(err, commands.ErrTruckOnRun)
}

func (s *LifecycleTestSuite) TestInitiate_StartsDeliveryAndAppliesDispatched() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)

	result := s.initiate()

	s.True(result.DeliveryID.IsEqual(scheduled.DeliveryID))
	s.Empty(result.Failures)
	s.Len(result.Dispatched, 1)
	d := s.loadDelivery(result.DeliveryID)
	s.Equal(delivery.StateInProgress, d.State())
	s.NotNil(d.StartedAt())
	s.True(s.statusOf(id).IsEqual(s.dispatched))
}

func (s *LifecycleTestSuite) TestClose_PendingLegsLeaveEverythingUntouched() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()

	_, err = s.closeDelivery(scheduled.DeliveryID, 1500)

	s.ErrorIs(err, delivery.ErrDeliveryHasOpenLegs)
	s.Equal(1000, s.loadTruck(s.truckID).Mileage())
	d := s.loadDelivery(scheduled.DeliveryID)
	s.Equal(delivery.StateInProgress, d.State())
	s.Nil(d.Odometer())
}

func (s *LifecycleTestSuite) TestClose_OdometerMustExceedMileage() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()
	s.deliver(id)

	_, err = s.closeDelivery(scheduled.DeliveryID, 900)

	s.True(errs.IsValidation(err))
	s.Equal(1000, s.loadTruck(s.truckID).Mileage())
	s.Equal(delivery.StateInProgress, s.loadDelivery(scheduled.DeliveryID).State())
}

func (s *LifecycleTestSuite) TestClose_DeliveryWriteFailureKeepsMileage() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()
	s.deliver(id)

	writeErr := errors.New("delivery row is gone")
	policy, err := services.NewMaintenancePolicy(5000, 365*24*time.Hour)
	s.Require().NoError(err)
	cmd, err := commands.NewCloseDeliveryCommand(s.carrierID, scheduled.DeliveryID, 1500)
	s.Require().NoError(err)

	_, err = commands.NewCloseDeliveryCommandHandler(brokenDeliveryWrites{f: s.uows, err: writeErr}, policy).
		Handle(s.ctx, cmd)

	s.ErrorIs(err, writeErr)
	s.Equal(1000, s.loadTruck(s.truckID).Mileage())
	s.True(s.loadTruck(s.truckID).Active())
	d := s.loadDelivery(scheduled.DeliveryID)
	s.Equal(delivery.StateInProgress, d.State())
	s.Nil(d.Odometer())
}

func (s *LifecycleTestSuite) TestDeliverThenClose() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()

	change := s.deliver(id)
	s.True(change.Changed)
	s.True(change.EnteredClosed)
	s.True(s.statusOf(id).IsEqual(s.delivered))

	leg := s.legOf(s.loadDelivery(scheduled.DeliveryID), id)
	s.Equal(delivery.OutcomeDelivered, leg.Outcome())
	s.NotNil(leg.DeliveredAt())
	s.Contains(s.publisher.names(), delivery.ShipmentDeliveredEventName)

	result, err := s.closeDelivery(scheduled.DeliveryID, 1500)
	s.Require().NoError(err)

	s.Equal(1500, result.Mileage)
	s.False(result.MaintenanceDue)
	t := s.loadTruck(s.truckID)
	s.Equal(1500, t.Mileage())
	s.True(t.Active())
	d := s.loadDelivery(scheduled.DeliveryID)
	s.Equal(delivery.StateCompleted, d.State())
	s.Require().NotNil(d.Odometer())
	s.Equal(1500, *d.Odometer())
}

func (s *LifecycleTestSuite) TestClose_IncidentDeactivatesTruck() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()
	s.deliver(id)

	incident, err := commands.NewRecordFormCommand(kernel.NewUUID(), form.KindIncident,
		form.TruckSubject{TruckID: s.truckID}, 1200, "mirror broken")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRecordFormCommandHandler(s.lifecycle).Handle(s.ctx, incident))

	result, err := s.closeDelivery(scheduled.DeliveryID, 1300)
	s.Require().NoError(err)

	s.True(result.MaintenanceDue)
	t := s.loadTruck(s.truckID)
	s.False(t.Active())
	s.NotNil(t.DeactivatedAt())
	s.Contains(s.publisher.names(), truck.MaintenanceDueEventName)

	_, err = s.schedule(s.claimedShipment(s.carrierID))
	s.ErrorIs(err, truck.ErrTruckIsInactive)
}

func (s *LifecycleTestSuite) TestFailLeg_ReleasesShipmentForNextRun() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()
	leg := s.legOf(s.loadDelivery(scheduled.DeliveryID), id)

	cmd, err := commands.NewFailLegCommand(s.carrierID, leg.ID(), "receiver absent")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewFailLegCommandHandler(s.lifecycle).Handle(s.ctx, cmd))

	failed := s.legOf(s.loadDelivery(scheduled.DeliveryID), id)
	s.Equal(delivery.OutcomeFailed, failed.Outcome())
	s.Equal("receiver absent", failed.FailureReason())
	s.NotNil(failed.LoadedAt())
	s.Nil(failed.DeliveredAt())

	_, err = s.closeDelivery(scheduled.DeliveryID, 1100)
	s.Require().NoError(err)

	next, err := s.schedule(id)
	s.Require().NoError(err)
	s.True(next.Created)
	s.False(next.DeliveryID.IsEqual(scheduled.DeliveryID))
}

func (s *LifecycleTestSuite) TestCancel_FailsPendingLegs() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)

	cmd, err := commands.NewCancelDeliveryCommand(s.carrierID, scheduled.DeliveryID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCancelDeliveryCommandHandler(s.lifecycle).Handle(s.ctx, cmd))

	d := s.loadDelivery(scheduled.DeliveryID)
	s.Equal(delivery.StateCancelled, d.State())
	s.Equal(delivery.CancelledLegReason, s.legOf(d, id).FailureReason())

	sh, err := s.uows.Create().ShipmentRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	s.False(sh.OnTruck(s.truckID))
}

func (s *LifecycleTestSuite) TestCancel_OtherCarrierIsRejected() {
	scheduled, err := s.schedule(s.claimedShipment(s.carrierID))
	s.Require().NoError(err)

	cmd, err := commands.NewCancelDeliveryCommand(kernel.NewUUID(), scheduled.DeliveryID)
	s.Require().NoError(err)
	err = commands.NewCancelDeliveryCommandHandler(s.lifecycle).Handle(s.ctx, cmd)

	s.ErrorIs(err, commands.ErrDeliveryNotOwned)
	s.Equal(delivery.StateScheduled, s.loadDelivery(scheduled.DeliveryID).State())
}

func (s *LifecycleTestSuite) TestUpdateStatus_ClosedStatusDeliversLeg() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()

	cmd, err := commands.NewUpdateShipmentStatusCommand(s.carrierID, id, s.delivered)
	s.Require().NoError(err)
	change, err := commands.NewUpdateShipmentStatusCommandHandler(s.lifecycle).Handle(s.ctx, cmd)
	s.Require().NoError(err)
	s.True(change.EnteredClosed)

	s.Equal(delivery.OutcomeDelivered, s.legOf(s.loadDelivery(scheduled.DeliveryID), id).Outcome())

	// Re-applying the same closed status is not a new transition.
	change, err = commands.NewUpdateShipmentStatusCommandHandler(s.lifecycle).Handle(s.ctx, cmd)
	s.Require().NoError(err)
	s.False(change.Changed)
	s.False(change.EnteredClosed)
}

func (s *LifecycleTestSuite) release(carrierID, shipmentID kernel.UUID) error {
	cmd, err := commands.NewReleaseShipmentCommand(carrierID, shipmentID)
	s.Require().NoError(err)
	return commands.NewReleaseShipmentCommandHandler(s.lifecycle).Handle(s.ctx, cmd)
}

func (s *LifecycleTestSuite) TestHandOff_NextCarrierSchedulesSecondLeg() {
	id := s.claimedShipment(s.carrierID)
	first, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()
	s.deliver(id)

	s.Require().NoError(s.release(s.carrierID, id))

	sh, err := s.uows.Create().ShipmentRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(sh.CarrierID())
	s.Nil(sh.StatusID())
	s.Nil(sh.TruckID())

	next := kernel.NewUUID()
	s.provisionTenant(next, "Contoso")
	nextTruck := s.registerTruck(next, 500)

	claim, err := commands.NewClaimShipmentCommand(next, id)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewClaimShipmentCommandHandler(s.lifecycle).Handle(s.ctx, claim))

	cmd, err := commands.NewScheduleDeliveryCommand(next, nextTruck, []kernel.UUID{id}, "Lee")
	s.Require().NoError(err)
	second, err := commands.NewScheduleDeliveryCommandHandler(s.lifecycle).Handle(s.ctx, cmd)
	s.Require().NoError(err)

	s.True(second.Created)
	s.False(second.DeliveryID.IsEqual(first.DeliveryID))

	d := s.loadDelivery(second.DeliveryID)
	s.True(d.BelongsTo(next))
	s.Len(d.Legs(), 1)
	s.Equal(delivery.OutcomePending, s.legOf(d, id).Outcome())
	s.Equal(delivery.OutcomeDelivered, s.legOf(s.loadDelivery(first.DeliveryID), id).Outcome())

	rb := s.rulebook(next)
	loaded, ok := rb.StatusByName("Loaded")
	s.Require().True(ok)
	s.True(s.statusOf(id).IsEqual(loaded.ID()))
}

func (s *LifecycleTestSuite) TestRelease_OpenLegBlocksHandOff() {
	id := s.claimedShipment(s.carrierID)
	_, err := s.schedule(id)
	s.Require().NoError(err)

	err = s.release(s.carrierID, id)

	s.ErrorIs(err, commands.ErrShipmentHasOpenLeg)
	s.True(s.statusOf(id).IsEqual(s.loaded))
}

func (s *LifecycleTestSuite) TestRelease_OnlyOwnerMayRelease() {
	id := s.claimedShipment(s.carrierID)

	err := s.release(kernel.NewUUID(), id)

	s.ErrorIs(err, shipment.ErrShipmentNotOwned)
	sh, err := s.uows.Create().ShipmentRepository().Get(s.ctx, id)
	s.Require().NoError(err)
	s.True(sh.OwnedBy(s.carrierID))
}

func (s *LifecycleTestSuite) deliveredLeg() kernel.UUID {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	s.initiate()
	s.deliver(id)
	return s.legOf(s.loadDelivery(scheduled.DeliveryID), id).ID()
}

func (s *LifecycleTestSuite) carrierRating() carrier.RatingAggregate {
	c, err := s.uows.Create().CarrierRepository().Get(s.ctx, s.carrierID)
	s.Require().NoError(err)
	return c.Rating()
}

func (s *LifecycleTestSuite) TestRating_AggregateFollowsEveryChange() {
	legID := s.deliveredLeg()
	ratingID := kernel.NewUUID()

	create, err := commands.NewCreateRatingCommand(ratingID, legID, 4, "on time")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCreateRatingCommandHandler(s.ratings).Handle(s.ctx, create))
	s.Equal(1, s.carrierRating().Count())
	s.InDelta(4.0, s.carrierRating().AverageFloat(), 0.001)

	duplicate, err := commands.NewCreateRatingCommand(kernel.NewUUID(), legID, 1, "")
	s.Require().NoError(err)
	err = commands.NewCreateRatingCommandHandler(s.ratings).Handle(s.ctx, duplicate)
	s.ErrorIs(err, commands.ErrLegAlreadyRated)
	s.Equal(1, s.carrierRating().Count())

	update, err := commands.NewUpdateRatingCommand(ratingID, 2, nil)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewUpdateRatingCommandHandler(s.ratings).Handle(s.ctx, update))
	s.Equal(1, s.carrierRating().Count())
	s.InDelta(2.0, s.carrierRating().AverageFloat(), 0.001)

	r, err := s.uows.Create().RatingRepository().Get(s.ctx, ratingID)
	s.Require().NoError(err)
	s.Equal("on time", r.Comment())

	del, err := commands.NewDeleteRatingCommand(ratingID)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewDeleteRatingCommandHandler(s.ratings).Handle(s.ctx, del))
	s.Equal(0, s.carrierRating().Count())
	s.True(s.carrierRating().Average().IsZero())
}

func (s *LifecycleTestSuite) TestRating_PendingLegCannotBeRated() {
	id := s.claimedShipment(s.carrierID)
	scheduled, err := s.schedule(id)
	s.Require().NoError(err)
	legID := s.legOf(s.loadDelivery(scheduled.DeliveryID), id).ID()

	cmd, err := commands.NewCreateRatingCommand(kernel.NewUUID(), legID, 5, "")
	s.Require().NoError(err)
	err = commands.NewCreateRatingCommandHandler(s.ratings).Handle(s.ctx, cmd)

	s.ErrorIs(err, rating.ErrLegNotDelivered)
	s.Equal(0, s.carrierRating().Count())
}

func TestLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}
