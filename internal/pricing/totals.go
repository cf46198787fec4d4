package pricing

import (
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
)

// LineItem is the opaque input row of the totals aggregator: one priced
// quote line with its recurring metadata and add-on lines.
type LineItem struct {
	LineTotal         float64
	IsRecurring       bool
	RecurringInterval *catalogdomain.RecurringInterval
	Addons            []AddonLine
}

// QuoteTotals is the aggregate of a whole quote. The recurring totals are
// per-period amounts; annualization (monthly x12) is applied only inside
// the tax and grand total so the quote shows a one-year cash commitment.
type QuoteTotals struct {
	SubtotalOneTime       float64 `json:"subtotal_one_time"`
	DiscountAmount        float64 `json:"discount_amount"`
	TotalOneTime          float64 `json:"total_one_time"`
	TotalRecurringMonthly float64 `json:"total_recurring_monthly"`
	TotalRecurringYearly  float64 `json:"total_recurring_yearly"`
	TaxAmount             float64 `json:"tax_amount"`
	GrandTotal            float64 `json:"grand_total"`
}

// CalculateQuoteTotals splits line items into one-time, monthly-recurring
// and yearly-recurring buckets, applies the percentage discount to the
// one-time bucket only, and computes tax over the annualized total.
//
// Recurring add-ons are bucketed on their own interval and stripped from
// the item's line total before the item itself is bucketed; monthly is the
// default bucket for any non-year recurring interval.
func CalculateQuoteTotals(items []LineItem, discountPercent, taxPercent float64) QuoteTotals {
	var oneTime, monthly, yearly float64

	for _, item := range items {
		var addonsSum, oneTimeAddons float64
		for _, addon := range item.Addons {
			addonsSum += addon.Price
			switch {
			case addon.IsRecurring && isYearly(addon.RecurringInterval):
				yearly += addon.Price
			case addon.IsRecurring:
				monthly += addon.Price
			default:
				oneTimeAddons += addon.Price
			}
		}

		itemBase := item.LineTotal - addonsSum
		switch {
		case item.IsRecurring && isYearly(item.RecurringInterval):
			yearly += itemBase
		case item.IsRecurring:
			monthly += itemBase
		default:
			oneTime += itemBase + oneTimeAddons
		}
	}

	discountAmount := oneTime * (discountPercent / 100)
	totalOneTime := oneTime - discountAmount

	annualized := totalOneTime + monthly*12 + yearly
	taxAmount := annualized * (taxPercent / 100)

	return QuoteTotals{
		SubtotalOneTime:       oneTime,
		DiscountAmount:        discountAmount,
		TotalOneTime:          totalOneTime,
		TotalRecurringMonthly: monthly,
		TotalRecurringYearly:  yearly,
		TaxAmount:             taxAmount,
		GrandTotal:            annualized + taxAmount,
	}
}

func isYearly(interval *catalogdomain.RecurringInterval) bool {
	return interval != nil && *interval == catalogdomain.IntervalYear
}
