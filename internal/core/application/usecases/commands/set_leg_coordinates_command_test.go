package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetLegCoordinatesCommand_OneSideIsEnough(t *testing.T) {
	coords, err := kernel.NewCoordinates(52.52, 13.405)
	require.NoError(t, err)
	legID := kernel.NewUUID()

	cmd, err := commands.NewSetLegCoordinatesCommand(legID,
		commands.GeocodedAddress{Text: "1 High St", Coordinates: &coords},
		commands.GeocodedAddress{Text: "nowhere"})
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, legID, cmd.LegID())
	assert.Equal(t, &coords, cmd.Sender().Coordinates)
	assert.Nil(t, cmd.Receiver().Coordinates)
}

func TestNewSetLegCoordinatesCommand_NoCoordinates(t *testing.T) {
	_, err := commands.NewSetLegCoordinatesCommand(kernel.NewUUID(),
		commands.GeocodedAddress{Text: "a"}, commands.GeocodedAddress{Text: "b"})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSetLegCoordinatesCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.SetLegCoordinatesCommand
	assert.Equal(t, commands.ErrSetLegCoordinatesCommandIsNotConstructed, cmd.Validate())
}
