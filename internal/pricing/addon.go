package pricing

import (
	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
)

// AddonLine is one matched add-on with the metadata the totals aggregator
// needs to classify it into a recurring bucket later.
type AddonLine struct {
	AddonID           snowflake.ID                     `json:"addon_id"`
	Name              string                           `json:"name"`
	Price             float64                          `json:"price"`
	IsRecurring       bool                             `json:"is_recurring"`
	RecurringInterval *catalogdomain.RecurringInterval `json:"recurring_interval,omitempty"`
}

// AddonSummary is the aggregate of all selected add-ons on a line.
type AddonSummary struct {
	Total float64
	Lines []AddonLine
}

// AggregateAddons sums the prices of the selected add-ons. Selection is a
// membership test by identifier; ids with no matching add-on are skipped.
// Each add-on counts once, add-ons are one-unit attachments to a line.
func AggregateAddons(available []catalogdomain.ServiceAddon, selected []snowflake.ID) AddonSummary {
	if len(available) == 0 || len(selected) == 0 {
		return AddonSummary{}
	}

	byID := make(map[snowflake.ID]catalogdomain.ServiceAddon, len(available))
	for _, addon := range available {
		byID[addon.ID] = addon
	}

	var summary AddonSummary
	for _, id := range selected {
		addon, ok := byID[id]
		if !ok {
			continue
		}
		summary.Total += addon.Price
		summary.Lines = append(summary.Lines, AddonLine{
			AddonID:           addon.ID,
			Name:              addon.Name,
			Price:             addon.Price,
			IsRecurring:       addon.IsRecurring,
			RecurringInterval: addon.RecurringInterval,
		})
	}
	return summary
}
