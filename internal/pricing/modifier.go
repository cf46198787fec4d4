package pricing

type ModifierType string

var (
	ModifierPercentage ModifierType = "PERCENTAGE"
	ModifierFixed      ModifierType = "FIXED"
	ModifierMultiplier ModifierType = "MULTIPLIER"
)

// PriceModifier is a named quote-level adjustment.
type PriceModifier struct {
	Name       string       `json:"name"`
	Type       ModifierType `json:"modifier_type"`
	Value      float64      `json:"value"`
	IsPositive bool         `json:"is_positive"`
}

// Adjustment is one itemized modifier contribution.
type Adjustment struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ModifierResult is the adjusted price plus the itemized adjustments.
type ModifierResult struct {
	FinalPrice  float64      `json:"final_price"`
	Adjustments []Adjustment `json:"adjustments"`
}

// ApplyPriceModifiers folds an ordered modifier list into a price. Each
// adjustment is computed against the original base price, never the
// running total, so modifiers are independent and their order does not
// change the result. This matches how the modifiers are described to
// sales staff: "loyal client -10%" is ten percent of the original price.
func ApplyPriceModifiers(basePrice float64, modifiers []PriceModifier) (ModifierResult, error) {
	result := ModifierResult{FinalPrice: basePrice}

	for _, modifier := range modifiers {
		var adjustment float64
		switch modifier.Type {
		case ModifierPercentage:
			adjustment = basePrice * (modifier.Value / 100)
		case ModifierFixed:
			adjustment = modifier.Value
		case ModifierMultiplier:
			adjustment = basePrice*modifier.Value - basePrice
		default:
			return ModifierResult{}, ErrInvalidModifierType
		}

		if !modifier.IsPositive {
			adjustment = -adjustment
		}

		result.FinalPrice += adjustment
		result.Adjustments = append(result.Adjustments, Adjustment{
			Name:   modifier.Name,
			Amount: adjustment,
		})
	}

	return result, nil
}
