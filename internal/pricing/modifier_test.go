package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPriceModifiers(t *testing.T) {
	result, err := ApplyPriceModifiers(1000, []PriceModifier{
		{Name: "Urgent delivery", Type: ModifierPercentage, Value: 10, IsPositive: true},
		{Name: "Loyal client", Type: ModifierFixed, Value: 50, IsPositive: false},
	})
	require.NoError(t, err)

	assert.Equal(t, 1050.0, result.FinalPrice)
	require.Len(t, result.Adjustments, 2)
	assert.Equal(t, 100.0, result.Adjustments[0].Amount)
	assert.Equal(t, -50.0, result.Adjustments[1].Amount)
}

func TestApplyPriceModifiers_Multiplier(t *testing.T) {
	result, err := ApplyPriceModifiers(200, []PriceModifier{
		{Name: "Volume deal", Type: ModifierMultiplier, Value: 0.9, IsPositive: true},
	})
	require.NoError(t, err)

	// 200*0.9 - 200 = -20
	assert.InDelta(t, 180.0, result.FinalPrice, 1e-9)
	assert.InDelta(t, -20.0, result.Adjustments[0].Amount, 1e-9)
}

// Adjustments are computed against the original base, so order is irrelevant.
func TestApplyPriceModifiers_Commutative(t *testing.T) {
	m1 := PriceModifier{Name: "a", Type: ModifierPercentage, Value: 10, IsPositive: true}
	m2 := PriceModifier{Name: "b", Type: ModifierMultiplier, Value: 1.2, IsPositive: false}
	m3 := PriceModifier{Name: "c", Type: ModifierFixed, Value: 35, IsPositive: true}

	forward, err := ApplyPriceModifiers(640, []PriceModifier{m1, m2, m3})
	require.NoError(t, err)
	backward, err := ApplyPriceModifiers(640, []PriceModifier{m3, m2, m1})
	require.NoError(t, err)

	assert.InDelta(t, forward.FinalPrice, backward.FinalPrice, 1e-9)
}

func TestApplyPriceModifiers_NoModifiers(t *testing.T) {
	result, err := ApplyPriceModifiers(123.45, nil)
	require.NoError(t, err)
	assert.Equal(t, 123.45, result.FinalPrice)
	assert.Empty(t, result.Adjustments)
}

func TestApplyPriceModifiers_UnknownTypeFails(t *testing.T) {
	_, err := ApplyPriceModifiers(100, []PriceModifier{
		{Name: "broken", Type: ModifierType("EXPONENT"), Value: 2},
	})
	assert.ErrorIs(t, err, ErrInvalidModifierType)
}
