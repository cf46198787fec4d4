// Package domain contains the service catalog models consumed by the
// pricing engine and the catalog CRUD surface.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type PricingType string

var (
	PricingFixed     PricingType = "FIXED"
	PricingRange     PricingType = "RANGE"
	PricingRecurring PricingType = "RECURRING"
	PricingTimeBased PricingType = "TIME_BASED"
	PricingTiered    PricingType = "TIERED"
	PricingComposite PricingType = "COMPOSITE"
)

type RecurringInterval string

var (
	IntervalMonth   RecurringInterval = "MONTH"
	IntervalQuarter RecurringInterval = "QUARTER"
	IntervalYear    RecurringInterval = "YEAR"
)

type VariantModifierType string

var (
	VariantOverride VariantModifierType = "OVERRIDE"
	VariantAdd      VariantModifierType = "ADD"
	VariantMultiply VariantModifierType = "MULTIPLY"
)

type ParameterType string

var (
	ParamNumber      ParameterType = "NUMBER"
	ParamSlider      ParameterType = "SLIDER"
	ParamSelect      ParameterType = "SELECT"
	ParamRangeSelect ParameterType = "RANGE_SELECT"
	ParamCheckbox    ParameterType = "CHECKBOX"
)

type PriceImpactMode string

var (
	ImpactFixed      PriceImpactMode = "FIXED"
	ImpactPerUnit    PriceImpactMode = "PER_UNIT"
	ImpactPercentage PriceImpactMode = "PERCENTAGE"
	ImpactMultiplier PriceImpactMode = "MULTIPLIER"
	ImpactTiered     PriceImpactMode = "TIERED"
)

// PriceTier is one step of a graduated price ladder. A nil Max means the
// tier is unbounded.
type PriceTier struct {
	Min          float64  `json:"min"`
	Max          *float64 `json:"max,omitempty"`
	PricePerUnit float64  `json:"price_per_unit"`
}

// ParameterOption is one selectable choice of a SELECT / RANGE_SELECT
// parameter. When options are present they override the parameter's
// generic impact-mode arithmetic.
type ParameterOption struct {
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	PriceImpact float64 `json:"price_impact"`
}

// Service is a sellable catalog offering. It is referenced, never mutated,
// by the pricing engine.
type Service struct {
	ID                snowflake.ID                        `json:"id" gorm:"primaryKey"`
	Code              string                              `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name              string                              `json:"name" gorm:"type:text;not null"`
	Description       string                              `json:"description,omitempty" gorm:"type:text"`
	BasePrice         float64                             `json:"base_price" gorm:"type:numeric;not null"`
	PricingType       PricingType                         `json:"pricing_type" gorm:"type:text;not null"`
	IsRecurring       bool                                `json:"is_recurring" gorm:"not null;default:false"`
	RecurringInterval *RecurringInterval                  `json:"recurring_interval,omitempty" gorm:"type:text"`
	MaxPrice          *float64                            `json:"max_price,omitempty" gorm:"type:numeric"`
	MinQuantity       float64                             `json:"min_quantity" gorm:"type:numeric;not null;default:1"`
	PriceTiers        datatypes.JSONSlice[PriceTier]      `json:"price_tiers,omitempty"`
	Active            bool                                `json:"active" gorm:"not null;default:true"`
	Metadata          datatypes.JSONMap                   `json:"metadata,omitempty"`
	Parameters        []PricingParameter                  `json:"parameters,omitempty" gorm:"foreignKey:ServiceID;references:ID"`
	Variants          []ServiceVariant                    `json:"variants,omitempty" gorm:"foreignKey:ServiceID;references:ID"`
	Addons            []ServiceAddon                      `json:"addons,omitempty" gorm:"foreignKey:ServiceID;references:ID"`
	CreatedAt         time.Time                           `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time                           `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Service) TableName() string { return "services" }

// ServiceVariant is a named alternative configuration of a service. Its
// effective price is always computed against the live base price, never
// stored.
type ServiceVariant struct {
	ID            snowflake.ID        `json:"id" gorm:"primaryKey"`
	ServiceID     snowflake.ID        `json:"service_id" gorm:"not null;index"`
	Name          string              `json:"name" gorm:"type:text;not null"`
	ModifierType  VariantModifierType `json:"price_modifier_type" gorm:"type:text;not null"`
	ModifierValue float64             `json:"price_modifier_value" gorm:"type:numeric;not null"`
	IsDefault     bool                `json:"is_default" gorm:"not null;default:false"`
	Position      int                 `json:"position" gorm:"not null;default:0"`
	CreatedAt     time.Time           `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time           `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ServiceVariant) TableName() string { return "service_variants" }

// PricingParameter is a configurable axis of price variation on a service.
type PricingParameter struct {
	ID          snowflake.ID                         `json:"id" gorm:"primaryKey"`
	ServiceID   snowflake.ID                         `json:"service_id" gorm:"not null;index"`
	Name        string                               `json:"name" gorm:"type:text;not null"`
	Label       string                               `json:"label" gorm:"type:text;not null"`
	Type        ParameterType                        `json:"type" gorm:"type:text;not null"`
	Min         *float64                             `json:"min,omitempty" gorm:"type:numeric"`
	Max         *float64                             `json:"max,omitempty" gorm:"type:numeric"`
	Step        *float64                             `json:"step,omitempty" gorm:"type:numeric"`
	Default     datatypes.JSON                       `json:"default_value,omitempty" gorm:"column:default_value"`
	ImpactMode  PriceImpactMode                      `json:"price_impact_mode" gorm:"type:text;not null"`
	ImpactValue float64                              `json:"price_impact_value" gorm:"type:numeric;not null;default:0"`
	PriceTiers  datatypes.JSONSlice[PriceTier]       `json:"price_tiers,omitempty"`
	Options     datatypes.JSONSlice[ParameterOption] `json:"options,omitempty"`
	Position    int                                  `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time                            `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                            `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PricingParameter) TableName() string { return "pricing_parameters" }

// ServiceAddon is an optional one-unit extra attached to a service line.
type ServiceAddon struct {
	ID                snowflake.ID       `json:"id" gorm:"primaryKey"`
	ServiceID         snowflake.ID       `json:"service_id" gorm:"not null;index"`
	Name              string             `json:"name" gorm:"type:text;not null"`
	Price             float64            `json:"price" gorm:"type:numeric;not null"`
	IsRecurring       bool               `json:"is_recurring" gorm:"not null;default:false"`
	RecurringInterval *RecurringInterval `json:"recurring_interval,omitempty" gorm:"type:text"`
	Position          int                `json:"position" gorm:"not null;default:0"`
	CreatedAt         time.Time          `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time          `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ServiceAddon) TableName() string { return "service_addons" }
