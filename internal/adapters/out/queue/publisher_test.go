package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"freight/internal/adapters/out/queue"
	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

type unknownEvent struct{}

func (unknownEvent) Name() string        { return "test.unknown" }
func (unknownEvent) AggregateID() string { return "x" }

func TestPublisher_MapsEventsToTasks(t *testing.T) {
	enqueuer := &mockEnqueuer{}
	publisher := queue.NewPublisher(enqueuer, "")

	deliveryID, legID, shipmentID, truckID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	var tasks []*asynq.Task
	enqueuer.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			tasks = append(tasks, args.Get(1).(*asynq.Task))
		}).
		Return(&asynq.TaskInfo{}, nil)

	err := publisher.Publish(context.Background(),
		delivery.LegAddressesChanged{DeliveryID: deliveryID, LegID: legID},
		delivery.ShipmentDelivered{DeliveryID: deliveryID, LegID: legID, ShipmentID: shipmentID},
		truck.MaintenanceDue{TruckID: truckID, CarrierID: kernel.NewUUID(), Mileage: 12000},
		unknownEvent{},
	)

	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, queue.TaskLegGeocode, tasks[0].Type())
	assert.Equal(t, queue.TaskNotifyShipmentDelivered, tasks[1].Type())
	assert.Equal(t, queue.TaskNotifyMaintenanceDue, tasks[2].Type())

	var geocode queue.LegGeocodePayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload(), &geocode))
	assert.Equal(t, legID.String(), geocode.LegID)

	var maintenance queue.MaintenanceDuePayload
	require.NoError(t, json.Unmarshal(tasks[2].Payload(), &maintenance))
	assert.Equal(t, truckID.String(), maintenance.TruckID)
	assert.Equal(t, 12000, maintenance.Mileage)
}

func TestPublisher_JoinsEnqueueErrors(t *testing.T) {
	enqueuer := &mockEnqueuer{}
	publisher := queue.NewPublisher(enqueuer, "freight")

	enqueuer.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("redis down")).Twice()

	err := publisher.Publish(context.Background(),
		delivery.LegAddressesChanged{DeliveryID: kernel.NewUUID(), LegID: kernel.NewUUID()},
		truck.MaintenanceDue{TruckID: kernel.NewUUID(), CarrierID: kernel.NewUUID(), Mileage: 1},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), queue.TaskLegGeocode)
	assert.Contains(t, err.Error(), queue.TaskNotifyMaintenanceDue)
	enqueuer.AssertExpectations(t)
}
