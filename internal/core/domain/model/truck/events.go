package truck

import "freight/internal/core/domain/model/kernel"

// MaintenanceDueEventName labels MaintenanceDue in logs and metrics.
const MaintenanceDueEventName = "truck.maintenance_due"

// MaintenanceDue is raised when a truck is taken off the road for service.
type MaintenanceDue struct {
	TruckID   kernel.UUID
	CarrierID kernel.UUID
	Mileage   int
}

func (e MaintenanceDue) Name() string {
	return MaintenanceDueEventName
}

func (e MaintenanceDue) AggregateID() string {
	return e.TruckID.String()
}
