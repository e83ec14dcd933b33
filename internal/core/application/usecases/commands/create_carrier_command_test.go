package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateCarrierCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewCreateCarrierCommand(id, "  Acme Freight ")
	require.NoError(t, err)
	assert.Equal(t, id, cmd.CarrierID())
	assert.Equal(t, "Acme Freight", cmd.Name())
}

func TestNewCreateCarrierCommand_EmptyName(t *testing.T) {
	_, err := commands.NewCreateCarrierCommand(kernel.NewUUID(), " ")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateCarrierCommand_InvalidID(t *testing.T) {
	_, err := commands.NewCreateCarrierCommand(kernel.UUID{}, "Acme Freight")
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
