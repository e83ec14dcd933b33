package form_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForm(t *testing.T) {
	truckID := kernel.NewUUID()

	f, err := form.NewForm(kernel.NewUUID(), form.KindInspection, form.TruckSubject{TruckID: truckID}, 12000, "ok", time.Now())
	require.NoError(t, err)

	subject, ok := f.Subject().(form.TruckSubject)
	require.True(t, ok)
	assert.True(t, subject.TruckID.IsEqual(truckID))

	_, err = form.NewForm(kernel.NewUUID(), "audit", form.DeliverySubject{DeliveryID: kernel.NewUUID()}, 0, "", time.Now())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = form.NewForm(kernel.NewUUID(), form.KindIncident, nil, 0, "", time.Now())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = form.NewForm(kernel.NewUUID(), form.KindIncident, form.TruckSubject{}, 0, "", time.Now())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
