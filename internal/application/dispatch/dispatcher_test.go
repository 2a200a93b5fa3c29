package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/erp/backoffice/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	d := New(nil)

	var called int
	d.Register(contract.FamilyCities, contract.ModeGet, Bind(func(_ context.Context, p contract.CityIDParams) (int64, error) {
		called++
		return p.CityID * 10, nil
	}))

	t.Run("runs the bound operation", func(t *testing.T) {
		res, err := d.Dispatch(ctx, contract.FamilyCities, contract.Envelope{Mode: contract.ModeGet, Parameters: json.RawMessage(`{"CityID":4}`)})
		require.NoError(t, err)
		assert.Equal(t, int64(40), res)
		assert.Equal(t, 1, called)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := d.Dispatch(ctx, contract.FamilyCities, contract.Envelope{Mode: 99})
		var me *contract.ModeError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, contract.Mode(99), me.Mode)
	})

	t.Run("supported but unregistered mode", func(t *testing.T) {
		_, err := d.Dispatch(ctx, contract.FamilyCities, contract.Envelope{Mode: contract.ModeDelete})
		var me *contract.ModeError
		assert.ErrorAs(t, err, &me)
	})

	t.Run("unknown field is a decode error", func(t *testing.T) {
		_, err := d.Dispatch(ctx, contract.FamilyCities, contract.Envelope{Mode: contract.ModeGet, Parameters: json.RawMessage(`{"CityId":4}`)})
		var de *contract.DecodeError
		assert.ErrorAs(t, err, &de)
	})

	t.Run("validation failure never reaches the service", func(t *testing.T) {
		before := called
		_, err := d.Dispatch(ctx, contract.FamilyCities, contract.Envelope{Mode: contract.ModeGet, Parameters: json.RawMessage(`{}`)})
		var ve *contract.ValidationErrors
		require.ErrorAs(t, err, &ve)
		assert.True(t, ve.Has("CityID"))
		assert.Equal(t, before, called)
	})
}

func TestDispatcher_RegisterRejectsUndefinedMode(t *testing.T) {
	d := New(nil)
	assert.Panics(t, func() {
		d.Register(contract.FamilyLeaseInvoices, contract.ModeDelete, BindNoParams(func(context.Context) (any, error) { return nil, nil }))
	})
}

func TestNewFromServices_NilServicesRegisterNothing(t *testing.T) {
	d := NewFromServices(nil, Services{})
	for _, f := range contract.Families() {
		for _, m := range contract.Modes(f) {
			assert.False(t, d.Handles(f, m), "%s/%d", f, m)
		}
	}
}
