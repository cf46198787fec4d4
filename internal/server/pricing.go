package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
	"github.com/offerlab/preventivo/internal/pricing"
	quotedomain "github.com/offerlab/preventivo/internal/quote/domain"
	"gorm.io/datatypes"
)

type previewServicePayload struct {
	BasePrice         float64                          `json:"base_price"`
	IsRecurring       bool                             `json:"is_recurring"`
	RecurringInterval *catalogdomain.RecurringInterval `json:"recurring_interval,omitempty"`
	Variants          []catalogdomain.VariantInput     `json:"variants,omitempty"`
	Parameters        []catalogdomain.ParameterInput   `json:"parameters,omitempty"`
	Addons            []catalogdomain.AddonInput       `json:"addons,omitempty"`
}

type previewRequest struct {
	Service         previewServicePayload       `json:"service"`
	Variant         string                      `json:"variant,omitempty"`
	Quantity        float64                     `json:"quantity,omitempty"`
	ParameterValues map[string]any              `json:"parameter_values,omitempty"`
	Addons          []string                    `json:"addons,omitempty"`
	DiscountPercent float64                     `json:"discount_percent,omitempty"`
	TaxPercent      float64                     `json:"tax_percent,omitempty"`
	Modifiers       []quotedomain.ModifierInput `json:"modifiers,omitempty"`
}

type previewResponse struct {
	Item        pricing.ItemPrice    `json:"item"`
	Totals      pricing.QuoteTotals  `json:"totals"`
	FinalTotal  float64              `json:"final_total"`
	Adjustments []pricing.Adjustment `json:"adjustments,omitempty"`
}

// PreviewPricing runs the pricing engine over a posted service definition
// without touching the catalog. Variants and add-ons are selected by name
// since the payload has no stored identifiers.
func (s *Server) PreviewPricing(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	service, opts := s.buildPreviewInput(req)

	item, err := pricing.CalculateItemPrice(service, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	totals := pricing.CalculateQuoteTotals([]pricing.LineItem{{
		LineTotal:         item.LineTotal,
		IsRecurring:       service.IsRecurring,
		RecurringInterval: service.RecurringInterval,
		Addons:            item.Addons,
	}}, req.DiscountPercent, req.TaxPercent)

	modifiers := make([]pricing.PriceModifier, 0, len(req.Modifiers))
	for _, m := range req.Modifiers {
		modifiers = append(modifiers, pricing.PriceModifier{
			Name:       m.Name,
			Type:       m.Type,
			Value:      m.Value,
			IsPositive: m.IsPositive,
		})
	}
	applied, err := pricing.ApplyPriceModifiers(totals.GrandTotal, modifiers)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.PricingPreview()
	c.JSON(http.StatusOK, gin.H{"data": previewResponse{
		Item:        item,
		Totals:      totals,
		FinalTotal:  applied.FinalPrice,
		Adjustments: applied.Adjustments,
	}})
}

// buildPreviewInput materializes the posted payload as a catalog service
// with ephemeral ids so the engine can resolve selections.
func (s *Server) buildPreviewInput(req previewRequest) (catalogdomain.Service, pricing.ItemOptions) {
	service := catalogdomain.Service{
		ID:                s.genID.Generate(),
		BasePrice:         req.Service.BasePrice,
		IsRecurring:       req.Service.IsRecurring,
		RecurringInterval: req.Service.RecurringInterval,
	}

	opts := pricing.ItemOptions{
		Quantity:        req.Quantity,
		ParameterValues: make(map[string]pricing.ParamValue, len(req.ParameterValues)),
	}

	for _, v := range req.Service.Variants {
		variant := catalogdomain.ServiceVariant{
			ID:            s.genID.Generate(),
			ServiceID:     service.ID,
			Name:          v.Name,
			ModifierType:  v.ModifierType,
			ModifierValue: v.ModifierValue,
			IsDefault:     v.IsDefault,
		}
		service.Variants = append(service.Variants, variant)
		if strings.EqualFold(v.Name, req.Variant) && req.Variant != "" {
			id := variant.ID
			opts.VariantID = &id
		}
	}

	for i, p := range req.Service.Parameters {
		service.Parameters = append(service.Parameters, catalogdomain.PricingParameter{
			ID:          s.genID.Generate(),
			ServiceID:   service.ID,
			Name:        p.Name,
			Label:       p.Label,
			Type:        p.Type,
			Min:         p.Min,
			Max:         p.Max,
			Step:        p.Step,
			ImpactMode:  p.ImpactMode,
			ImpactValue: p.ImpactValue,
			PriceTiers:  datatypes.NewJSONSlice(p.PriceTiers),
			Options:     datatypes.NewJSONSlice(p.Options),
			Position:    i,
		})
	}

	for i, a := range req.Service.Addons {
		addon := catalogdomain.ServiceAddon{
			ID:                s.genID.Generate(),
			ServiceID:         service.ID,
			Name:              a.Name,
			Price:             a.Price,
			IsRecurring:       a.IsRecurring,
			RecurringInterval: a.RecurringInterval,
			Position:          i,
		}
		service.Addons = append(service.Addons, addon)
		for _, selected := range req.Addons {
			if strings.EqualFold(selected, a.Name) {
				opts.SelectedAddonIDs = append(opts.SelectedAddonIDs, addon.ID)
				break
			}
		}
	}

	for name, raw := range req.ParameterValues {
		opts.ParameterValues[name] = pricing.FromJSONValue(raw)
	}

	return service, opts
}
