package pricing

import (
	"math"
	"sort"
	"strconv"

	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
)

// ParameterImpact computes the price delta contributed by one pricing
// parameter given a concrete value. basePrice is the reference amount for
// PERCENTAGE and MULTIPLIER modes.
//
// A falsy checkbox always contributes zero, whatever the impact mode.
// SELECT / RANGE_SELECT parameters with options bypass the mode arithmetic
// entirely and use the matched option's impact.
func ParameterImpact(param catalogdomain.PricingParameter, value ParamValue, basePrice float64) (float64, error) {
	if param.Type == catalogdomain.ParamCheckbox && !value.Truthy() {
		return 0, nil
	}

	if (param.Type == catalogdomain.ParamSelect || param.Type == catalogdomain.ParamRangeSelect) && len(param.Options) > 0 {
		return optionImpact(param.Options, value), nil
	}

	switch param.ImpactMode {
	case catalogdomain.ImpactFixed:
		return param.ImpactValue, nil
	case catalogdomain.ImpactPerUnit:
		return param.ImpactValue * value.Numeric(), nil
	case catalogdomain.ImpactPercentage:
		return basePrice * (param.ImpactValue / 100), nil
	case catalogdomain.ImpactMultiplier:
		return basePrice * (param.ImpactValue - 1) * value.Numeric(), nil
	case catalogdomain.ImpactTiered:
		return TieredImpact(param.PriceTiers, value.Numeric()), nil
	default:
		return 0, ErrInvalidImpactMode
	}
}

// TieredImpact greedily consumes units across tiers sorted ascending by
// Min. Each tier supplies Max-Min+1 units (unbounded when Max is nil) at
// its own unit price. An empty tier list contributes zero.
func TieredImpact(tiers []catalogdomain.PriceTier, units float64) float64 {
	if len(tiers) == 0 || units <= 0 {
		return 0
	}

	sorted := make([]catalogdomain.PriceTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	remaining := units
	total := 0.0
	for _, tier := range sorted {
		if remaining <= 0 {
			break
		}
		span := math.Inf(1)
		if tier.Max != nil {
			span = *tier.Max - tier.Min + 1
		}
		if span <= 0 {
			continue
		}
		consumed := math.Min(remaining, span)
		total += consumed * tier.PricePerUnit
		remaining -= consumed
	}
	return total
}

func optionImpact(options []catalogdomain.ParameterOption, value ParamValue) float64 {
	for _, opt := range options {
		if optionMatches(opt.Value, value) {
			return opt.PriceImpact
		}
	}
	return 0
}

func optionMatches(optionValue string, value ParamValue) bool {
	if optionValue == value.text() {
		return true
	}
	// option values are stored as text; "10" must still match a numeric 10
	if value.Kind == KindNumber {
		if parsed, err := strconv.ParseFloat(optionValue, 64); err == nil {
			return parsed == value.Number
		}
	}
	return false
}
