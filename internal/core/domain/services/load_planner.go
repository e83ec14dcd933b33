package services

import (
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"
)

// LoadPlanner keeps the load of a truck within its capacity.
type LoadPlanner struct{}

func NewLoadPlanner() LoadPlanner {
	return LoadPlanner{}
}

// Load sums the dimensions of shipments.
func (LoadPlanner) Load(shipments []*shipment.Shipment) kernel.Dimensions {
	total := kernel.ZeroDimensions()
	for _, s := range shipments {
		total = total.Add(s.Dimensions())
	}
	return total
}

// CheckCapacity fails when shipments together exceed the truck's capacity.
func (p LoadPlanner) CheckCapacity(t *truck.Truck, shipments []*shipment.Shipment) error {
	if err := t.Validate(); err != nil {
		return err
	}
	load := p.Load(shipments)
	if !load.FitsWithin(t.Capacity()) {
		return errs.NewPreconditionFailedErrorWithCause(
			"truck capacity exceeded",
			fmt.Errorf("load %s exceeds capacity %s of truck %s", load, t.Capacity(), t.Plate()),
		)
	}
	return nil
}
