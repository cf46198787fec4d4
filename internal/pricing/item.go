package pricing

import (
	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
)

// ItemOptions is the caller's selection for one quote line.
type ItemOptions struct {
	VariantID        *snowflake.ID
	Quantity         float64
	ParameterValues  map[string]ParamValue
	SelectedAddonIDs []snowflake.ID
}

// ParameterImpactLine is the per-parameter entry of the item breakdown.
type ParameterImpactLine struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Impact float64 `json:"impact"`
}

// ItemPrice is the full price breakdown of one quote line.
type ItemPrice struct {
	BasePrice         float64               `json:"base_price"`
	VariantAdjustment float64               `json:"variant_adjustment"`
	ParametersImpact  float64               `json:"parameters_impact"`
	AddonsTotal       float64               `json:"addons_total"`
	UnitPrice         float64               `json:"unit_price"`
	Quantity          float64               `json:"quantity"`
	LineTotal         float64               `json:"line_total"`
	Parameters        []ParameterImpactLine `json:"parameters,omitempty"`
	Addons            []AddonLine           `json:"addons,omitempty"`
}

// CalculateItemPrice composes variant resolution, parameter impacts and
// add-on aggregation into one line's price breakdown.
//
// Percentage and multiplier parameter impacts are computed against the
// variant-adjusted price, not the raw base price. Add-ons are not
// multiplied by quantity. Quantity defaults to 1 when unset; enforcing a
// minimum quantity is the caller's concern.
func CalculateItemPrice(service catalogdomain.Service, opts ItemOptions) (ItemPrice, error) {
	basePrice := service.BasePrice

	var variant *catalogdomain.ServiceVariant
	if opts.VariantID != nil {
		for i := range service.Variants {
			if service.Variants[i].ID == *opts.VariantID {
				variant = &service.Variants[i]
				break
			}
		}
	}

	priceAfterVariant, err := ResolveVariantPrice(basePrice, variant)
	if err != nil {
		return ItemPrice{}, err
	}

	result := ItemPrice{
		BasePrice:         basePrice,
		VariantAdjustment: priceAfterVariant - basePrice,
	}

	for _, param := range service.Parameters {
		value, provided := opts.ParameterValues[param.Name]
		if !provided {
			continue
		}
		impact, err := ParameterImpact(param, value, priceAfterVariant)
		if err != nil {
			return ItemPrice{}, err
		}
		result.ParametersImpact += impact
		result.Parameters = append(result.Parameters, ParameterImpactLine{
			Name:   param.Name,
			Label:  param.Label,
			Impact: impact,
		})
	}

	result.UnitPrice = priceAfterVariant + result.ParametersImpact

	addons := AggregateAddons(service.Addons, opts.SelectedAddonIDs)
	result.AddonsTotal = addons.Total
	result.Addons = addons.Lines

	quantity := opts.Quantity
	if quantity == 0 {
		quantity = 1
	}
	result.Quantity = quantity
	result.LineTotal = result.UnitPrice*quantity + result.AddonsTotal

	return result, nil
}
