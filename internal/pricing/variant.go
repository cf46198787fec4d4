package pricing

import (
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
)

// ResolveVariantPrice resolves a service's effective base price under the
// selected variant. A nil variant passes the base price through unchanged.
// The variant adjustment reported downstream is the delta from the base,
// always recomputed against the live base price.
func ResolveVariantPrice(basePrice float64, variant *catalogdomain.ServiceVariant) (float64, error) {
	if variant == nil {
		return basePrice, nil
	}

	switch variant.ModifierType {
	case catalogdomain.VariantOverride:
		return variant.ModifierValue, nil
	case catalogdomain.VariantAdd:
		return basePrice + variant.ModifierValue, nil
	case catalogdomain.VariantMultiply:
		return basePrice * variant.ModifierValue, nil
	default:
		return 0, ErrInvalidVariantModifier
	}
}
