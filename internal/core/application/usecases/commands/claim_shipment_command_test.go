package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClaimShipmentCommand(t *testing.T) {
	carrierID, shipmentID := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewClaimShipmentCommand(carrierID, shipmentID)
	require.NoError(t, err)
	assert.Equal(t, carrierID, cmd.CarrierID())
	assert.Equal(t, shipmentID, cmd.ShipmentID())

	_, err = commands.NewClaimShipmentCommand(kernel.UUID{}, shipmentID)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.Equal(t, commands.ErrClaimShipmentCommandIsNotConstructed, commands.ClaimShipmentCommand{}.Validate())
}
