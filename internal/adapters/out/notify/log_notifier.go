// Package notify holds the default Notifier, which records notifications
// as structured log lines.
package notify

import (
	"context"

	"freight/internal/core/domain/model/kernel"

	"go.uber.org/zap"
)

type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("component", "notifier"))}
}

func (n *LogNotifier) MaintenanceDue(_ context.Context, truckID kernel.UUID) error {
	n.log.Info("truck is due for maintenance", zap.String("truck_id", truckID.String()))
	return nil
}

func (n *LogNotifier) ShipmentDelivered(_ context.Context, shipmentID kernel.UUID) error {
	n.log.Info("shipment delivered", zap.String("shipment_id", shipmentID.String()))
	return nil
}
