package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisterTruckCommand_ValidInput(t *testing.T) {
	truckID, carrierID := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewRegisterTruckCommand(truckID, carrierID, "FR-001", 1200, 18000, 80)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, truckID, cmd.TruckID())
	assert.Equal(t, carrierID, cmd.CarrierID())
	assert.Equal(t, "FR-001", cmd.Plate())
	assert.Equal(t, 1200, cmd.Mileage())
	assert.InDelta(t, 80, cmd.Capacity().VolumeM3(), 0.0001)
}

func TestNewRegisterTruckCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewRegisterTruckCommand(kernel.NewUUID(), kernel.NewUUID(), " ", 0, 1, 1)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewRegisterTruckCommand(kernel.NewUUID(), kernel.NewUUID(), "FR-001", -5, 1, 1)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewRegisterTruckCommand(kernel.NewUUID(), kernel.NewUUID(), "FR-001", 0, 1, 0)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewRegisterTruckCommand(kernel.NewUUID(), kernel.UUID{}, "FR-001", 0, 1, 1)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
