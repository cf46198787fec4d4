// Package domain contains the quote models and service contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
	"github.com/offerlab/preventivo/internal/pricing"
	"gorm.io/datatypes"
)

type QuoteStatus string

var (
	StatusDraft    QuoteStatus = "DRAFT"
	StatusSent     QuoteStatus = "SENT"
	StatusAccepted QuoteStatus = "ACCEPTED"
	StatusRejected QuoteStatus = "REJECTED"
	StatusExpired  QuoteStatus = "EXPIRED"
)

// Quote is a commercial offer composed of priced line items. The stored
// totals are snapshots; Recalculate rebuilds them from the items.
type Quote struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	Reference       string       `json:"reference" gorm:"type:text;not null;uniqueIndex"`
	Number          string       `json:"number" gorm:"type:text;not null"`
	CustomerName    string       `json:"customer_name" gorm:"type:text;not null"`
	CustomerEmail   string       `json:"customer_email,omitempty" gorm:"type:text"`
	CustomerCompany string       `json:"customer_company,omitempty" gorm:"type:text"`
	Status          QuoteStatus  `json:"status" gorm:"type:text;not null;default:DRAFT"`
	Currency        string       `json:"currency" gorm:"type:text;not null"`
	Notes           string       `json:"notes,omitempty" gorm:"type:text"`

	DiscountPercent float64 `json:"discount_percent" gorm:"type:numeric;not null;default:0"`
	TaxPercent      float64 `json:"tax_percent" gorm:"type:numeric;not null;default:0"`

	SubtotalOneTime       float64 `json:"subtotal_one_time" gorm:"type:numeric;not null;default:0"`
	DiscountAmount        float64 `json:"discount_amount" gorm:"type:numeric;not null;default:0"`
	TotalOneTime          float64 `json:"total_one_time" gorm:"type:numeric;not null;default:0"`
	TotalRecurringMonthly float64 `json:"total_recurring_monthly" gorm:"type:numeric;not null;default:0"`
	TotalRecurringYearly  float64 `json:"total_recurring_yearly" gorm:"type:numeric;not null;default:0"`
	TaxAmount             float64 `json:"tax_amount" gorm:"type:numeric;not null;default:0"`
	GrandTotal            float64 `json:"grand_total" gorm:"type:numeric;not null;default:0"`

	// FinalTotal is the grand total after quote-level modifiers.
	FinalTotal  float64                                 `json:"final_total" gorm:"type:numeric;not null;default:0"`
	Adjustments datatypes.JSONSlice[pricing.Adjustment] `json:"adjustments,omitempty"`

	ValidUntil *time.Time      `json:"valid_until,omitempty"`
	Items      []QuoteItem     `json:"items,omitempty" gorm:"foreignKey:QuoteID;references:ID"`
	Modifiers  []QuoteModifier `json:"modifiers,omitempty" gorm:"foreignKey:QuoteID;references:ID"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Quote) TableName() string { return "quotes" }

// QuoteItem is one priced line. The breakdown produced by the pricing
// engine is stored alongside so sent quotes keep their numbers even if the
// catalog changes afterwards.
type QuoteItem struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	QuoteID     snowflake.ID  `json:"quote_id" gorm:"not null;index"`
	ServiceID   snowflake.ID  `json:"service_id" gorm:"not null;index"`
	ServiceName string        `json:"service_name" gorm:"type:text;not null"`
	VariantID   *snowflake.ID `json:"variant_id,omitempty"`
	VariantName string        `json:"variant_name,omitempty" gorm:"type:text"`

	Quantity          float64                          `json:"quantity" gorm:"type:numeric;not null;default:1"`
	BasePrice         float64                          `json:"base_price" gorm:"type:numeric;not null"`
	VariantAdjustment float64                          `json:"variant_adjustment" gorm:"type:numeric;not null;default:0"`
	ParametersImpact  float64                          `json:"parameters_impact" gorm:"type:numeric;not null;default:0"`
	AddonsTotal       float64                          `json:"addons_total" gorm:"type:numeric;not null;default:0"`
	UnitPrice         float64                          `json:"unit_price" gorm:"type:numeric;not null"`
	LineTotal         float64                          `json:"line_total" gorm:"type:numeric;not null"`
	IsRecurring       bool                             `json:"is_recurring" gorm:"not null;default:false"`
	RecurringInterval *catalogdomain.RecurringInterval `json:"recurring_interval,omitempty" gorm:"type:text"`

	Parameters datatypes.JSONSlice[pricing.ParameterImpactLine] `json:"parameters,omitempty"`
	Addons     datatypes.JSONSlice[pricing.AddonLine]           `json:"addons,omitempty"`

	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (QuoteItem) TableName() string { return "quote_items" }

// QuoteModifier is a stored quote-level price modifier, applied in
// position order by the pricing engine.
type QuoteModifier struct {
	ID         snowflake.ID         `json:"id" gorm:"primaryKey"`
	QuoteID    snowflake.ID         `json:"quote_id" gorm:"not null;index"`
	Name       string               `json:"name" gorm:"type:text;not null"`
	Type       pricing.ModifierType `json:"modifier_type" gorm:"type:text;not null"`
	Value      float64              `json:"value" gorm:"type:numeric;not null"`
	IsPositive bool                 `json:"is_positive" gorm:"not null;default:true"`
	Position   int                  `json:"position" gorm:"not null;default:0"`
	CreatedAt  time.Time            `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (QuoteModifier) TableName() string { return "quote_modifiers" }
