package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences(t *testing.T) {
	svc := NewPreferenceService(newFakePreferenceRepo())
	ctx := context.Background()

	prefs, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{PrefShowMealPlan: false, PrefShowAllPrefix: false}, prefs)

	require.NoError(t, svc.Set(ctx, alice, PrefShowMealPlan, true))
	require.NoError(t, svc.Set(ctx, alice, "showAll.upcoming", true))
	assert.ErrorIs(t, svc.Set(ctx, alice, "theme", true), ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(ctx, alice, "showAll.", true), ErrInvalidInput)

	prefs, err = svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.True(t, prefs[PrefShowMealPlan])
	assert.True(t, prefs["showAll.upcoming"])
	assert.False(t, prefs[PrefShowAllPrefix])

	others, err := svc.Get(ctx, bob)
	require.NoError(t, err)
	assert.False(t, others[PrefShowMealPlan])
}
