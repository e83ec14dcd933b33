package commands_test

import (
	"context"
	"testing"
	"time"

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

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTruckRepository struct {
	mock.Mock
}

func (m *MockTruckRepository) Add(ctx context.Context, t *truck.Truck) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTruckRepository) Update(ctx context.Context, t *truck.Truck) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTruckRepository) Get(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*truck.Truck)
	return t, args.Error(1)
}

func (m *MockTruckRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*truck.Truck)
	return t, args.Error(1)
}

func (m *MockTruckRepository) ListActiveIDs(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentRepository) GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, ids)
	s, _ := args.Get(0).([]*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentRepository) ListByTruck(ctx context.Context, truckID kernel.UUID) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, truckID)
	s, _ := args.Get(0).([]*shipment.Shipment)
	return s, args.Error(1)
}

type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) FindScheduled(ctx context.Context, truckID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, truckID)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) HasInProgress(ctx context.Context, truckID kernel.UUID) (bool, error) {
	args := m.Called(ctx, truckID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRepository) FindByOpenLeg(ctx context.Context, shipmentID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, shipmentID)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

func (m *MockDeliveryRepository) FindByLeg(ctx context.Context, legID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, legID)
	d, _ := args.Get(0).(*delivery.Delivery)
	return d, args.Error(1)
}

type MockRulebookRepository struct {
	mock.Mock
}

func (m *MockRulebookRepository) Get(ctx context.Context, carrierID kernel.UUID) (*carrier.Rulebook, error) {
	args := m.Called(ctx, carrierID)
	rb, _ := args.Get(0).(*carrier.Rulebook)
	return rb, args.Error(1)
}

func (m *MockRulebookRepository) AddStatus(ctx context.Context, s *carrier.Status) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRulebookRepository) SaveRule(ctx context.Context, carrierID kernel.UUID, rule carrier.Rule) error {
	args := m.Called(ctx, carrierID, rule)
	return args.Error(0)
}

type MockFormRepository struct {
	mock.Mock
}

func (m *MockFormRepository) Add(ctx context.Context, f *form.Form) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFormRepository) History(ctx context.Context, truckID kernel.UUID) (services.MaintenanceHistory, error) {
	args := m.Called(ctx, truckID)
	h, _ := args.Get(0).(services.MaintenanceHistory)
	return h, args.Error(1)
}

type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Add(ctx context.Context, r *rating.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) Update(ctx context.Context, r *rating.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRatingRepository) Get(ctx context.Context, id kernel.UUID) (*rating.Rating, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*rating.Rating)
	return r, args.Error(1)
}

func (m *MockRatingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*rating.Rating, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*rating.Rating)
	return r, args.Error(1)
}

func (m *MockRatingRepository) ExistsForLeg(ctx context.Context, legID kernel.UUID) (bool, error) {
	args := m.Called(ctx, legID)
	return args.Bool(0), args.Error(1)
}

// MockLifecycleUoW hands out the repositories it was built with. Accessors
// are plain getters so tests only set expectations on the calls that matter.
type MockLifecycleUoW struct {
	mock.Mock

	carriers   *MockCarrierRepository
	rulebooks  *MockRulebookRepository
	trucks     *MockTruckRepository
	shipments  *MockShipmentRepository
	deliveries *MockDeliveryRepository
	forms      *MockFormRepository
}

func newMockLifecycleUoW() *MockLifecycleUoW {
	return &MockLifecycleUoW{
		carriers:   new(MockCarrierRepository),
		rulebooks:  new(MockRulebookRepository),
		trucks:     new(MockTruckRepository),
		shipments:  new(MockShipmentRepository),
		deliveries: new(MockDeliveryRepository),
		forms:      new(MockFormRepository),
	}
}

func (m *MockLifecycleUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLifecycleUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLifecycleUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLifecycleUoW) CarrierRepository() ports.CarrierRepository {
	return m.carriers
}

func (m *MockLifecycleUoW) RulebookRepository() ports.RulebookRepository {
	return m.rulebooks
}

func (m *MockLifecycleUoW) TruckRepository() ports.TruckRepository {
	return m.trucks
}

func (m *MockLifecycleUoW) ShipmentRepository() ports.ShipmentRepository {
	return m.shipments
}

func (m *MockLifecycleUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.deliveries
}

func (m *MockLifecycleUoW) FormRepository() ports.FormRepository {
	return m.forms
}

func (m *MockLifecycleUoW) assertRepositories(t *testing.T) {
	t.Helper()
	m.carriers.AssertExpectations(t)
	m.rulebooks.AssertExpectations(t)
	m.trucks.AssertExpectations(t)
	m.shipments.AssertExpectations(t)
	m.deliveries.AssertExpectations(t)
	m.forms.AssertExpectations(t)
}

type MockLifecycleUoWFactory struct {
	mock.Mock
}

func (m *MockLifecycleUoWFactory) Create() commands.LifecycleUoW {
	args := m.Called()
	return args.Get(0).(commands.LifecycleUoW)
}

type MockRatingUoW struct {
	mock.Mock

	carriers   *MockCarrierRepository
	deliveries *MockDeliveryRepository
	ratings    *MockRatingRepository
}

func newMockRatingUoW() *MockRatingUoW {
	return &MockRatingUoW{
		carriers:   new(MockCarrierRepository),
		deliveries: new(MockDeliveryRepository),
		ratings:    new(MockRatingRepository),
	}
}

func (m *MockRatingUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRatingUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRatingUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRatingUoW) CarrierRepository() ports.CarrierRepository {
	return m.carriers
}

func (m *MockRatingUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.deliveries
}

func (m *MockRatingUoW) RatingRepository() ports.RatingRepository {
	return m.ratings
}

type MockRatingUoWFactory struct {
	mock.Mock
}

func (m *MockRatingUoWFactory) Create() commands.RatingUoW {
	args := m.Called()
	return args.Get(0).(commands.RatingUoW)
}

// Fixtures shared by the handler tests.

var fixtureNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func fixtureTruck(t *testing.T, carrierID kernel.UUID, mileage int) *truck.Truck {
	t.Helper()
	capacity, err := kernel.NewDimensions(1000, 10)
	require.NoError(t, err)
	tr, err := truck.NewTruck(kernel.NewUUID(), carrierID, "FR-001", mileage, capacity, fixtureNow)
	require.NoError(t, err)
	return tr
}

// fixtureShipment returns a shipment claimed by carrierID, or an unclaimed
// one when carrierID is nil.
func fixtureShipment(t *testing.T, carrierID *kernel.UUID, truckID *kernel.UUID) *shipment.Shipment {
	t.Helper()
	dims, err := kernel.NewDimensions(10, 0.1)
	require.NoError(t, err)
	addr, err := kernel.NewAddress("1 High St")
	require.NoError(t, err)
	party, err := shipment.NewParty("Someone", addr)
	require.NoError(t, err)
	s, err := shipment.RestoreShipment(kernel.NewUUID(), dims, party, party, fixtureNow.Add(48*time.Hour),
		carrierID, nil, truckID)
	require.NoError(t, err)
	return s
}

func fixtureRulebook(t *testing.T, carrierID kernel.UUID) *carrier.Rulebook {
	t.Helper()
	rb, err := carrier.NewRulebook(carrierID, nil, nil)
	require.NoError(t, err)
	return rb
}

func fixtureInProgressDelivery(t *testing.T, carrierID, truckID kernel.UUID) *delivery.Delivery {
	t.Helper()
	started := fixtureNow
	d, err := delivery.RestoreDelivery(kernel.NewUUID(), carrierID, truckID, "Dana",
		delivery.StateInProgress, &started, nil, nil, nil, fixtureNow)
	require.NoError(t, err)
	return d
}
