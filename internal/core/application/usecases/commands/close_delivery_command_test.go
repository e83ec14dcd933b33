package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloseDeliveryCommand_ValidInput(t *testing.T) {
	carrierID, deliveryID := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewCloseDeliveryCommand(carrierID, deliveryID, 12500)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, carrierID, cmd.CarrierID())
	assert.Equal(t, deliveryID, cmd.DeliveryID())
	assert.Equal(t, 12500, cmd.Odometer())
}

func TestNewCloseDeliveryCommand_NonPositiveOdometer(t *testing.T) {
	for _, odometer := range []int{0, -1} {
		_, err := commands.NewCloseDeliveryCommand(kernel.NewUUID(), kernel.NewUUID(), odometer)
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid, "odometer %d", odometer)
	}
}

func TestNewCloseDeliveryCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewCloseDeliveryCommand(kernel.UUID{}, kernel.NewUUID(), 100)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = commands.NewCloseDeliveryCommand(kernel.NewUUID(), kernel.UUID{}, 100)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestCloseDeliveryCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.CloseDeliveryCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrCloseDeliveryCommandIsNotConstructed, err)
}
