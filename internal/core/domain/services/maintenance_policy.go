package services

import (
	"fmt"
	"time"

	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"
)

// MaintenanceHistory is what the maintenance-form collaborator knows about a
// truck.
type MaintenanceHistory struct {
	// LastInspection is the most recent inspection form, nil if never inspected.
	LastInspection *form.Form
	// IncidentsSinceInspection counts incident forms filed after LastInspection.
	IncidentsSinceInspection int
}

// MaintenancePolicy decides when a truck has to be taken off the road.
//
// A truck is due when any incident was reported since its last inspection,
// when it has driven MileageInterval since then, or when TimeInterval has
// elapsed. Without an inspection the baseline is zero mileage at
// commissioning. A zero interval disables that criterion.
type MaintenancePolicy struct {
	mileageInterval int
	timeInterval    time.Duration
}

// NewMaintenancePolicy rejects negative intervals. A zero interval turns
// its trigger off.
func NewMaintenancePolicy(mileageInterval int, timeInterval time.Duration) (MaintenancePolicy, error) {
	if mileageInterval < 0 {
		return MaintenancePolicy{}, errs.NewValueIsInvalidErrorWithCause("maintenance mileage interval",
			fmt.Errorf("%d is negative", mileageInterval))
	}
	if timeInterval < 0 {
		return MaintenancePolicy{}, errs.NewValueIsInvalidErrorWithCause("maintenance time interval",
			fmt.Errorf("%s is negative", timeInterval))
	}
	return MaintenancePolicy{mileageInterval: mileageInterval, timeInterval: timeInterval}, nil
}

// IsDue reports whether t needs maintenance. Any incident since the last
// inspection makes it due. Otherwise mileage and time are measured from
// the last inspection, or from commissioning when there was none.
func (p MaintenancePolicy) IsDue(t *truck.Truck, history MaintenanceHistory, now time.Time) bool {
	if history.IncidentsSinceInspection > 0 {
		return true
	}

	baseMileage, baseTime := 0, t.CommissionedAt()
	if history.LastInspection != nil {
		baseMileage = history.LastInspection.Mileage()
		baseTime = history.LastInspection.SubmittedAt()
	}

	if p.mileageInterval > 0 && t.Mileage()-baseMileage >= p.mileageInterval {
		return true
	}
	if p.timeInterval > 0 && now.Sub(baseTime) >= p.timeInterval {
		return true
	}
	return false
}

// Evaluate deactivates t when maintenance is due and reports whether it did.
func (p MaintenancePolicy) Evaluate(t *truck.Truck, history MaintenanceHistory, now time.Time) bool {
	if !t.Active() || !p.IsDue(t, history, now) {
		return false
	}
	t.Deactivate(now)
	return true
}
