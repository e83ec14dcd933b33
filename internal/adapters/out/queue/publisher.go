package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/ddd"
	"freight/internal/pkg/logger"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const defaultMaxRetry = 10

// Enqueuer is the part of *asynq.Client the publisher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RedisOptions locates the Redis instance backing the queue.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func (o RedisOptions) ClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: o.Addr, Password: o.Password, DB: o.DB}
}

// Publisher implements ports.EventPublisher on top of asynq.
type Publisher struct {
	enqueuer Enqueuer
	queue    string
	maxRetry int
	timeout  time.Duration
}

func NewPublisher(enqueuer Enqueuer, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{enqueuer: enqueuer, queue: queue, maxRetry: defaultMaxRetry, timeout: time.Minute}
}

// NewClient opens an asynq client. The caller closes it.
func NewClient(opts RedisOptions) *asynq.Client {
	return asynq.NewClient(opts.ClientOpt())
}

// Publish enqueues one task per known event. Events without a consumer are
// skipped. All events are attempted; the errors are joined.
func (p *Publisher) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	var errs []error
	for _, event := range events {
		task, err := taskFor(event)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if task == nil {
			logger.Z().Debug("no task for domain event", zap.String("event", event.Name()))
			continue
		}

		if _, err = p.enqueuer.EnqueueContext(ctx, task,
			asynq.Queue(p.queue),
			asynq.MaxRetry(p.maxRetry),
			asynq.Timeout(p.timeout),
		); err != nil {
			errs = append(errs, fmt.Errorf("enqueue %s: %w", task.Type(), err))
		}
	}
	return errors.Join(errs...)
}

func taskFor(event ddd.DomainEvent) (*asynq.Task, error) {
	switch e := event.(type) {
	case delivery.LegAddressesChanged:
		return NewLegGeocodeTask(LegGeocodePayload{
			DeliveryID: e.DeliveryID.String(),
			LegID:      e.LegID.String(),
		})
	case delivery.ShipmentDelivered:
		return NewShipmentDeliveredTask(ShipmentDeliveredPayload{
			DeliveryID: e.DeliveryID.String(),
			LegID:      e.LegID.String(),
			ShipmentID: e.ShipmentID.String(),
		})
	case truck.MaintenanceDue:
		return NewMaintenanceDueTask(MaintenanceDuePayload{
			TruckID:   e.TruckID.String(),
			CarrierID: e.CarrierID.String(),
			Mileage:   e.Mileage,
		})
	default:
		return nil, nil
	}
}
