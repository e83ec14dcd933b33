package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeliverShipmentCommand(t *testing.T) {
	cmd, err := commands.NewDeliverShipmentCommand(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())

	_, err = commands.NewDeliverShipmentCommand(kernel.NewUUID(), kernel.UUID{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
