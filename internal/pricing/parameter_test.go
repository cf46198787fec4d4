package pricing

import (
	"testing"

	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func floatPtr(v float64) *float64 { return &v }

func TestParameterImpact_FixedMode(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name:        "setup",
		Type:        catalogdomain.ParamNumber,
		ImpactMode:  catalogdomain.ImpactFixed,
		ImpactValue: 40,
	}

	impact, err := ParameterImpact(param, NumberValue(999), 100)
	assert.NoError(t, err)
	assert.Equal(t, 40.0, impact)
}

func TestParameterImpact_PerUnit(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name:        "pages",
		Type:        catalogdomain.ParamNumber,
		ImpactMode:  catalogdomain.ImpactPerUnit,
		ImpactValue: 20,
	}

	impact, err := ParameterImpact(param, NumberValue(5), 100)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, impact)

	// booleans coerce to 0/1
	impact, err = ParameterImpact(param, BoolValue(true), 100)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, impact)

	// text coerces to zero
	impact, err = ParameterImpact(param, TextValue("five"), 100)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, impact)
}

func TestParameterImpact_Percentage(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name:        "rush",
		Type:        catalogdomain.ParamNumber,
		ImpactMode:  catalogdomain.ImpactPercentage,
		ImpactValue: 15,
	}

	impact, err := ParameterImpact(param, NumberValue(1), 200)
	assert.NoError(t, err)
	assert.Equal(t, 30.0, impact)
}

func TestParameterImpact_Multiplier(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name:        "languages",
		Type:        catalogdomain.ParamNumber,
		ImpactMode:  catalogdomain.ImpactMultiplier,
		ImpactValue: 1.5,
	}

	impact, err := ParameterImpact(param, NumberValue(2), 100)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, impact)
}

func TestParameterImpact_CheckboxFalsyIsAlwaysZero(t *testing.T) {
	modes := []catalogdomain.PriceImpactMode{
		catalogdomain.ImpactFixed,
		catalogdomain.ImpactPerUnit,
		catalogdomain.ImpactPercentage,
		catalogdomain.ImpactMultiplier,
		catalogdomain.ImpactTiered,
	}

	for _, mode := range modes {
		param := catalogdomain.PricingParameter{
			Name:        "express",
			Type:        catalogdomain.ParamCheckbox,
			ImpactMode:  mode,
			ImpactValue: 50,
		}

		impact, err := ParameterImpact(param, BoolValue(false), 100)
		assert.NoError(t, err, "mode %s", mode)
		assert.Equal(t, 0.0, impact, "mode %s", mode)

		impact, err = ParameterImpact(param, NoValue(), 100)
		assert.NoError(t, err, "mode %s", mode)
		assert.Equal(t, 0.0, impact, "mode %s", mode)
	}
}

func TestParameterImpact_CheckboxChecked(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name:        "express",
		Type:        catalogdomain.ParamCheckbox,
		ImpactMode:  catalogdomain.ImpactFixed,
		ImpactValue: 50,
	}

	impact, err := ParameterImpact(param, BoolValue(true), 100)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, impact)
}

func TestParameterImpact_OptionsOverrideModeArithmetic(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name:        "finish",
		Type:        catalogdomain.ParamSelect,
		ImpactMode:  catalogdomain.ImpactPercentage, // ignored when options exist
		ImpactValue: 500,
		Options: datatypes.NewJSONSlice([]catalogdomain.ParameterOption{
			{Value: "matte", Label: "Matte", PriceImpact: 10},
			{Value: "gloss", Label: "Gloss", PriceImpact: 25},
		}),
	}

	impact, err := ParameterImpact(param, TextValue("gloss"), 100)
	assert.NoError(t, err)
	assert.Equal(t, 25.0, impact)

	// no matching option degrades to zero
	impact, err = ParameterImpact(param, TextValue("satin"), 100)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, impact)
}

func TestParameterImpact_NumericOptionValue(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name: "seats",
		Type: catalogdomain.ParamRangeSelect,
		Options: datatypes.NewJSONSlice([]catalogdomain.ParameterOption{
			{Value: "10", Label: "Up to 10", PriceImpact: 100},
			{Value: "50", Label: "Up to 50", PriceImpact: 400},
		}),
		ImpactMode: catalogdomain.ImpactFixed,
	}

	impact, err := ParameterImpact(param, NumberValue(50), 0)
	assert.NoError(t, err)
	assert.Equal(t, 400.0, impact)
}

func TestParameterImpact_UnknownModeFails(t *testing.T) {
	param := catalogdomain.PricingParameter{
		Name:       "broken",
		Type:       catalogdomain.ParamNumber,
		ImpactMode: catalogdomain.PriceImpactMode("EXPONENTIAL"),
	}

	_, err := ParameterImpact(param, NumberValue(1), 100)
	assert.ErrorIs(t, err, ErrInvalidImpactMode)
}

func TestTieredImpact_GreedyConsumption(t *testing.T) {
	tiers := []catalogdomain.PriceTier{
		{Min: 0, Max: floatPtr(9), PricePerUnit: 10},
		{Min: 10, Max: nil, PricePerUnit: 7},
	}

	// 10 units at 10, then 5 units at 7
	assert.Equal(t, 135.0, TieredImpact(tiers, 15))
}

func TestTieredImpact_EmptyTiers(t *testing.T) {
	assert.Equal(t, 0.0, TieredImpact(nil, 100))
	assert.Equal(t, 0.0, TieredImpact([]catalogdomain.PriceTier{}, 100))
}

func TestTieredImpact_UnsortedInput(t *testing.T) {
	tiers := []catalogdomain.PriceTier{
		{Min: 10, Max: nil, PricePerUnit: 7},
		{Min: 0, Max: floatPtr(9), PricePerUnit: 10},
	}

	assert.Equal(t, 135.0, TieredImpact(tiers, 15))
}

func TestTieredImpact_Monotonicity(t *testing.T) {
	tiers := []catalogdomain.PriceTier{
		{Min: 0, Max: floatPtr(9), PricePerUnit: 10},
		{Min: 10, Max: floatPtr(49), PricePerUnit: 7},
		{Min: 50, Max: nil, PricePerUnit: 4},
	}

	previous := 0.0
	for units := 0.0; units <= 120; units++ {
		impact := TieredImpact(tiers, units)
		assert.GreaterOrEqual(t, impact, previous, "units %v", units)
		previous = impact
	}
}
