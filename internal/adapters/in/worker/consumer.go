// Package worker consumes the asynq tasks produced from domain events.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"freight/internal/adapters/out/queue"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// LegAddressesReader reads the addresses of a leg and whether each side is
// already geocoded.
type LegAddressesReader interface {
	Handle(ctx context.Context, query queries.GetLegAddressesQuery) (queries.GetLegAddressesQueryResponse, error)
}

// LegCoordinatesWriter stores the geocoding result.
type LegCoordinatesWriter interface {
	Handle(ctx context.Context, command commands.SetLegCoordinatesCommand) error
}

// Consumer handles geocoding and notification tasks. Returning an error
// makes asynq retry the task; asynq.SkipRetry marks payloads that can never
// succeed.
type Consumer struct {
	legs        LegAddressesReader
	coordinates LegCoordinatesWriter
	geocoder    ports.Geocoder
	notifier    ports.Notifier
	log         *zap.Logger
}

func NewConsumer(
	legs LegAddressesReader,
	coordinates LegCoordinatesWriter,
	geocoder ports.Geocoder,
	notifier ports.Notifier,
	log *zap.Logger,
) *Consumer {
	return &Consumer{
		legs:        legs,
		coordinates: coordinates,
		geocoder:    geocoder,
		notifier:    notifier,
		log:         log.With(zap.String("component", "worker")),
	}
}

// Register binds every task type the consumer understands to mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskLegGeocode, c.HandleLegGeocode)
	mux.HandleFunc(queue.TaskNotifyMaintenanceDue, c.HandleMaintenanceDue)
	mux.HandleFunc(queue.TaskNotifyShipmentDelivered, c.HandleShipmentDelivered)
}

// HandleLegGeocode geocodes the sides of a leg that have no coordinates
// yet. A leg deleted since the task was queued is dropped with a warning.
// An address the geocoder does not know is stored as not geocoded and is
// not retried.
func (c *Consumer) HandleLegGeocode(ctx context.Context, task *asynq.Task) error {
	var payload queue.LegGeocodePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	legID, err := kernel.UUIDFromString(payload.LegID)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}

	query, err := queries.NewGetLegAddressesQuery(legID)
	if err != nil {
		return err
	}
	addresses, err := c.legs.Handle(ctx, query)
	if errors.Is(err, errs.ErrObjectNotFound) {
		c.log.Warn("leg to geocode not found", zap.String("leg_id", payload.LegID))
		return nil
	}
	if err != nil {
		return err
	}

	var sender, receiver commands.GeocodedAddress
	if !addresses.SenderGeocoded {
		if sender, err = c.geocode(ctx, addresses.SenderAddress); err != nil {
			return err
		}
	}
	if !addresses.ReceiverGeocoded {
		if receiver, err = c.geocode(ctx, addresses.ReceiverAddress); err != nil {
			return err
		}
	}
	if sender.Coordinates == nil && receiver.Coordinates == nil {
		c.log.Debug("nothing to geocode", zap.String("leg_id", payload.LegID))
		return nil
	}

	command, err := commands.NewSetLegCoordinatesCommand(legID, sender, receiver)
	if err != nil {
		return err
	}
	return c.coordinates.Handle(ctx, command)
}

func (c *Consumer) geocode(ctx context.Context, address string) (commands.GeocodedAddress, error) {
	coordinates, err := c.geocoder.Geocode(ctx, address)
	if err != nil {
		return commands.GeocodedAddress{}, fmt.Errorf("geocode address: %w", err)
	}
	if coordinates == nil {
		c.log.Info("address could not be geocoded", zap.String("address", address))
	}
	return commands.GeocodedAddress{Text: address, Coordinates: coordinates}, nil
}

// HandleMaintenanceDue forwards a deactivated truck to the notifier.
func (c *Consumer) HandleMaintenanceDue(ctx context.Context, task *asynq.Task) error {
	var payload queue.MaintenanceDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	truckID, err := kernel.UUIDFromString(payload.TruckID)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return c.notifier.MaintenanceDue(ctx, truckID)
}

func (c *Consumer) HandleShipmentDelivered(ctx context.Context, task *asynq.Task) error {
	var payload queue.ShipmentDeliveredPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	shipmentID, err := kernel.UUIDFromString(payload.ShipmentID)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return c.notifier.ShipmentDelivered(ctx, shipmentID)
}
