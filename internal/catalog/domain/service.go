package domain

import (
	"context"
	"errors"

	"github.com/offerlab/preventivo/pkg/db/pagination"
)

type VariantInput struct {
	Name          string              `json:"name"`
	ModifierType  VariantModifierType `json:"price_modifier_type"`
	ModifierValue float64             `json:"price_modifier_value"`
	IsDefault     bool                `json:"is_default"`
}

type ParameterInput struct {
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Type        ParameterType     `json:"type"`
	Min         *float64          `json:"min,omitempty"`
	Max         *float64          `json:"max,omitempty"`
	Step        *float64          `json:"step,omitempty"`
	Default     any               `json:"default_value,omitempty"`
	ImpactMode  PriceImpactMode   `json:"price_impact_mode"`
	ImpactValue float64           `json:"price_impact_value"`
	PriceTiers  []PriceTier       `json:"price_tiers,omitempty"`
	Options     []ParameterOption `json:"options,omitempty"`
}

type AddonInput struct {
	Name              string             `json:"name"`
	Price             float64            `json:"price"`
	IsRecurring       bool               `json:"is_recurring"`
	RecurringInterval *RecurringInterval `json:"recurring_interval,omitempty"`
}

type CreateServiceRequest struct {
	Name              string             `json:"name"`
	Description       string             `json:"description,omitempty"`
	BasePrice         float64            `json:"base_price"`
	PricingType       PricingType        `json:"pricing_type"`
	IsRecurring       bool               `json:"is_recurring"`
	RecurringInterval *RecurringInterval `json:"recurring_interval,omitempty"`
	MaxPrice          *float64           `json:"max_price,omitempty"`
	MinQuantity       float64            `json:"min_quantity,omitempty"`
	PriceTiers        []PriceTier        `json:"price_tiers,omitempty"`
	Variants          []VariantInput     `json:"variants,omitempty"`
	Parameters        []ParameterInput   `json:"parameters,omitempty"`
	Addons            []AddonInput       `json:"addons,omitempty"`
}

type UpdateServiceRequest struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	BasePrice   *float64     `json:"base_price,omitempty"`
	PricingType *PricingType `json:"pricing_type,omitempty"`
	MaxPrice    *float64     `json:"max_price,omitempty"`
	Active      *bool        `json:"active,omitempty"`
}

type ListServicesRequest struct {
	pagination.Pagination
	Name   string `form:"name"`
	Active *bool  `form:"active"`
}

type ListServicesResponse struct {
	pagination.PageInfo
	Services []Service `json:"services"`
}

type CatalogService interface {
	Create(context.Context, CreateServiceRequest) (*Service, error)
	Get(context.Context, string) (*Service, error)
	List(context.Context, ListServicesRequest) (*ListServicesResponse, error)
	Update(context.Context, string, UpdateServiceRequest) (*Service, error)
	Delete(context.Context, string) error
}

var (
	ErrInvalidID               = errors.New("invalid_id")
	ErrInvalidName             = errors.New("invalid_name")
	ErrInvalidBasePrice        = errors.New("invalid_base_price")
	ErrInvalidPricingType      = errors.New("invalid_pricing_type")
	ErrInvalidInterval         = errors.New("invalid_recurring_interval")
	ErrInvalidVariantModifier  = errors.New("invalid_variant_modifier_type")
	ErrInvalidParameterType    = errors.New("invalid_parameter_type")
	ErrInvalidImpactMode       = errors.New("invalid_price_impact_mode")
	ErrDuplicateDefaultVariant = errors.New("duplicate_default_variant")
	ErrDuplicateParameterName  = errors.New("duplicate_parameter_name")
	ErrDuplicateCode           = errors.New("duplicate_code")
	ErrNotFound                = errors.New("not_found")
)
