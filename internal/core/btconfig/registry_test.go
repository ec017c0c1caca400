package btconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/zeusbt/internal/core/bt"
)

func TestRegistryCustomAction(t *testing.T) {
	reg := NewRegistry()
	var got map[string]any
	reg.RegisterAction("shout", func(params map[string]any) (bt.ActionFunc, error) {
		got = params
		return func(*bt.TickContext) bt.Status { return bt.StatusRunning }, nil
	})

	fn, err := reg.NewAction("shout", map[string]any{"volume": 11})
	require.NoError(t, err)
	assert.Equal(t, bt.StatusRunning, fn(nil))
	assert.Equal(t, 11, got["volume"])

	_, err = reg.NewAction("whisper", nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
	_, err = reg.NewCondition("shout", nil)
	assert.ErrorIs(t, err, ErrUnknownCondition)
}

func TestRegistryListsNames(t *testing.T) {
	reg := NewDefaultRegistry()
	assert.Equal(t, []string{"fail", "running", "succeed"}, reg.Actions())
	assert.Equal(t, []string{"compare", "exists", "is_true"}, reg.Conditions())
}

func TestBuiltinConditions(t *testing.T) {
	reg := NewDefaultRegistry()
	ctx := &bt.TickContext{Values: map[string]any{"alert": true, "hp": 40, "name": "bob"}}

	isTrue, err := reg.NewCondition("is_true", map[string]any{"key": "alert"})
	require.NoError(t, err)
	assert.True(t, isTrue(ctx))
	assert.False(t, isTrue(nil))

	exists, err := reg.NewCondition("exists", map[string]any{"key": "name"})
	require.NoError(t, err)
	assert.True(t, exists(ctx))

	tests := []struct {
		op    string
		value any
		want  bool
	}{
		{"==", 40.0, true},
		{"eq", 40, true},
		{"!=", 41, true},
		{">", 39, true},
		{"gte", 40, true},
		{"<", 40, false},
		{"lte", 40.5, true},
	}
	for _, tt := range tests {
		cond, err := reg.NewCondition("compare", map[string]any{"key": "hp", "op": tt.op, "value": tt.value})
		require.NoError(t, err)
		assert.Equal(t, tt.want, cond(ctx), "hp %s %v", tt.op, tt.value)
	}

	strEq, err := reg.NewCondition("compare", map[string]any{"key": "name", "op": "==", "value": "bob"})
	require.NoError(t, err)
	assert.True(t, strEq(ctx))

	_, err = reg.NewCondition("compare", map[string]any{"key": "hp", "op": "~", "value": 1})
	assert.ErrorIs(t, err, ErrInvalidParam)
	_, err = reg.NewCondition("is_true", nil)
	assert.ErrorIs(t, err, ErrInvalidParam)
}
