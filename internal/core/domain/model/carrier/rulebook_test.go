package carrier_test

import (
	"testing"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStatus(t *testing.T, carrierID kernel.UUID, name string, closed bool) *carrier.Status {
	t.Helper()
	s, err := carrier.NewStatus(kernel.NewUUID(), carrierID, name, false, closed)
	require.NoError(t, err)
	return s
}

func ptr(id kernel.UUID) *kernel.UUID {
	return &id
}

func TestRulebook_Resolve(t *testing.T) {
	carrierID := kernel.NewUUID()
	loaded := mustStatus(t, carrierID, "On truck", false)
	done := mustStatus(t, carrierID, "Delivered", true)

	rb, err := carrier.NewRulebook(carrierID,
		[]*carrier.Status{loaded, done},
		[]carrier.Rule{
			{Event: carrier.EventLoaded, StatusID: ptr(loaded.ID())},
			{Event: carrier.EventDelivered, StatusID: ptr(done.ID())},
			{Event: carrier.EventClaimed, StatusID: nil},
		})
	require.NoError(t, err)

	assert.Equal(t, loaded, rb.Resolve(carrier.EventLoaded))
	assert.Equal(t, done, rb.Resolve(carrier.EventDelivered))
	assert.Nil(t, rb.Resolve(carrier.EventClaimed), "explicit empty binding")
	assert.Nil(t, rb.Resolve(carrier.EventDispatched), "no binding at all")

	for range 3 {
		assert.Equal(t, loaded, rb.Resolve(carrier.EventLoaded))
	}
}

func TestRulebook_CarriersDoNotInterfere(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()
	sa := mustStatus(t, a, "Loaded", false)
	sb := mustStatus(t, b, "Loaded", false)

	rbA, err := carrier.NewRulebook(a, []*carrier.Status{sa}, []carrier.Rule{{Event: carrier.EventLoaded, StatusID: ptr(sa.ID())}})
	require.NoError(t, err)
	rbB, err := carrier.NewRulebook(b, []*carrier.Status{sb}, []carrier.Rule{{Event: carrier.EventLoaded, StatusID: ptr(sb.ID())}})
	require.NoError(t, err)

	assert.True(t, rbA.Resolve(carrier.EventLoaded).ID().IsEqual(sa.ID()))
	assert.True(t, rbB.Resolve(carrier.EventLoaded).ID().IsEqual(sb.ID()))
}

func TestRulebook_RejectsInvalidConfiguration(t *testing.T) {
	carrierID := kernel.NewUUID()
	own := mustStatus(t, carrierID, "Mine", false)
	foreign := mustStatus(t, kernel.NewUUID(), "Theirs", false)

	t.Run("foreign status in catalog", func(t *testing.T) {
		_, err := carrier.NewRulebook(carrierID, []*carrier.Status{foreign}, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rule points outside catalog", func(t *testing.T) {
		_, err := carrier.NewRulebook(carrierID, []*carrier.Status{own},
			[]carrier.Rule{{Event: carrier.EventLoaded, StatusID: ptr(foreign.ID())}})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("event bound twice", func(t *testing.T) {
		_, err := carrier.NewRulebook(carrierID, []*carrier.Status{own}, []carrier.Rule{
			{Event: carrier.EventLoaded, StatusID: ptr(own.ID())},
			{Event: carrier.EventLoaded, StatusID: nil},
		})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := carrier.NewRulebook(carrierID, nil, []carrier.Rule{{Event: "lost"}})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("duplicate status name", func(t *testing.T) {
		_, err := carrier.NewRulebook(carrierID, []*carrier.Status{own, mustStatus(t, carrierID, "mine", true)}, nil)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})
}

func TestRulebook_BindReplacesRule(t *testing.T) {
	carrierID := kernel.NewUUID()
	first := mustStatus(t, carrierID, "First", false)
	second := mustStatus(t, carrierID, "Second", false)

	rb, err := carrier.NewRulebook(carrierID, []*carrier.Status{first, second}, nil)
	require.NoError(t, err)

	require.NoError(t, rb.Bind(carrier.EventLoaded, ptr(first.ID())))
	require.NoError(t, rb.Bind(carrier.EventLoaded, ptr(second.ID())))
	assert.Equal(t, second, rb.Resolve(carrier.EventLoaded))

	rule, ok := rb.Rule(carrier.EventLoaded)
	require.True(t, ok)
	assert.True(t, rule.StatusID.IsEqual(second.ID()))

	require.NoError(t, rb.Bind(carrier.EventLoaded, nil))
	assert.Nil(t, rb.Resolve(carrier.EventLoaded))
}
