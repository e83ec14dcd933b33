package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrProvisionTenantCommandIsNotConstructed = errors.New(
	"ProvisionTenantCommand must be created via NewProvisionTenantCommand constructor",
)

// TenantStatus declares one status of a provisioned tenant.
type TenantStatus struct {
	Name               string
	LockedForCustomers bool
	Closed             bool
}

// ProvisionTenantCommand upserts a carrier with its statuses and rules from
// declarative configuration. Rules reference statuses by name; an empty name
// binds the event to no status.
type ProvisionTenantCommand struct {
	carrierID kernel.UUID
	name      string
	statuses  []TenantStatus
	rules     map[carrier.Event]string
	guard     guard.ConstructorGuard
}

// NewProvisionTenantCommand validates the declaration as a whole. Status
// names are compared case-insensitively and every non-empty rule target must
// name a declared status.
//
// Example:
//
//	cmd, err := NewProvisionTenantCommand(id, "Acme Freight",
//		[]TenantStatus{{Name: "On the road"}, {Name: "Delivered", Closed: true}},
//		map[carrier.Event]string{
//			carrier.EventDispatched: "On the road",
//			carrier.EventDelivered:  "Delivered",
//		})
func NewProvisionTenantCommand(
	carrierID kernel.UUID,
	name string,
	statuses []TenantStatus,
	rules map[carrier.Event]string,
) (ProvisionTenantCommand, error) {
	if err := carrierID.Validate(); err != nil {
		return ProvisionTenantCommand{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ProvisionTenantCommand{}, errs.NewValueIsRequiredError("name")
	}

	declared := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" {
			return ProvisionTenantCommand{}, errs.NewValueIsRequiredError("status name")
		}
		declared[key] = struct{}{}
	}
	for event, statusName := range rules {
		if err := event.Validate(); err != nil {
			return ProvisionTenantCommand{}, err
		}
		if statusName == "" {
			continue
		}
		if _, ok := declared[strings.ToLower(strings.TrimSpace(statusName))]; !ok {
			return ProvisionTenantCommand{}, errs.NewValueIsInvalidErrorWithCause("rule",
				errors.New("rule "+string(event)+" references undeclared status "+statusName))
		}
	}

	return ProvisionTenantCommand{
		carrierID: carrierID,
		name:      name,
		statuses:  statuses,
		rules:     rules,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ProvisionTenantCommand) Validate() error {
	return c.guard.Validate(ErrProvisionTenantCommandIsNotConstructed)
}

func (c ProvisionTenantCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c ProvisionTenantCommand) Name() string {
	return c.name
}

func (c ProvisionTenantCommand) Statuses() []TenantStatus {
	return c.statuses
}

func (c ProvisionTenantCommand) Rules() map[carrier.Event]string {
	return c.rules
}
