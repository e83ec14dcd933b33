package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCancelDeliveryCommand_ValidInput(t *testing.T) {
	carrierID, deliveryID := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewCancelDeliveryCommand(carrierID, deliveryID)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, carrierID, cmd.CarrierID())
	assert.Equal(t, deliveryID, cmd.DeliveryID())
}

func TestNewCancelDeliveryCommand_InvalidDeliveryID(t *testing.T) {
	_, err := commands.NewCancelDeliveryCommand(kernel.NewUUID(), kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestCancelDeliveryCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.CancelDeliveryCommand
	assert.Equal(t, commands.ErrCancelDeliveryCommandIsNotConstructed, cmd.Validate())
}
