package pricing

import "errors"

// Unknown enum values are configuration bugs and fail fast; every other
// data gap degrades to a zero contribution.
var (
	ErrInvalidImpactMode      = errors.New("invalid_price_impact_mode")
	ErrInvalidVariantModifier = errors.New("invalid_variant_modifier_type")
	ErrInvalidModifierType    = errors.New("invalid_modifier_type")
)
