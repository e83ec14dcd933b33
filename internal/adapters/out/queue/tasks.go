// Package queue turns committed domain events into asynq tasks.
package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names. They are part of the queue's wire format; renaming one
// orphans tasks already queued under the old name.
const (
	DefaultQueue = "default"

	TaskLegGeocode              = "leg:geocode"
	TaskNotifyMaintenanceDue    = "notify:maintenance_due"
	TaskNotifyShipmentDelivered = "notify:shipment_delivered"
)

// LegGeocodePayload asks for the addresses of one leg to be geocoded.
type LegGeocodePayload struct {
	DeliveryID string `json:"delivery_id"`
	LegID      string `json:"leg_id"`
}

// MaintenanceDuePayload announces a truck taken off the road.
type MaintenanceDuePayload struct {
	TruckID   string `json:"truck_id"`
	CarrierID string `json:"carrier_id"`
	Mileage   int    `json:"mileage"`
}

// ShipmentDeliveredPayload announces a leg closed as delivered.
type ShipmentDeliveredPayload struct {
	DeliveryID string `json:"delivery_id"`
	LegID      string `json:"leg_id"`
	ShipmentID string `json:"shipment_id"`
}

func NewLegGeocodeTask(payload LegGeocodePayload) (*asynq.Task, error) {
	return newTask(TaskLegGeocode, payload)
}

func NewMaintenanceDueTask(payload MaintenanceDuePayload) (*asynq.Task, error) {
	return newTask(TaskNotifyMaintenanceDue, payload)
}

func NewShipmentDeliveredTask(payload ShipmentDeliveredPayload) (*asynq.Task, error) {
	return newTask(TaskNotifyShipmentDelivered, payload)
}

func newTask(typename string, payload any) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, body), nil
}
