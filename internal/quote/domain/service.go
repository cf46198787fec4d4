package domain

import (
	"context"
	"errors"

	"github.com/offerlab/preventivo/internal/pricing"
	"github.com/offerlab/preventivo/pkg/db/pagination"
)

type ModifierInput struct {
	Name       string               `json:"name"`
	Type       pricing.ModifierType `json:"modifier_type"`
	Value      float64              `json:"value"`
	IsPositive bool                 `json:"is_positive"`
}

type CreateQuoteRequest struct {
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerCompany string          `json:"customer_company,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	DiscountPercent float64         `json:"discount_percent,omitempty"`
	TaxPercent      *float64        `json:"tax_percent,omitempty"`
	Modifiers       []ModifierInput `json:"modifiers,omitempty"`
}

type UpdateQuoteRequest struct {
	Status          *QuoteStatus    `json:"status,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	DiscountPercent *float64        `json:"discount_percent,omitempty"`
	TaxPercent      *float64        `json:"tax_percent,omitempty"`
	Modifiers       []ModifierInput `json:"modifiers,omitempty"`
}

type AddItemRequest struct {
	ServiceID       string         `json:"service_id"`
	VariantID       *string        `json:"variant_id,omitempty"`
	Quantity        float64        `json:"quantity,omitempty"`
	ParameterValues map[string]any `json:"parameter_values,omitempty"`
	AddonIDs        []string       `json:"addon_ids,omitempty"`
}

type ListQuotesRequest struct {
	pagination.Pagination
	Status   string `form:"status"`
	Customer string `form:"customer"`
}

type ListQuotesResponse struct {
	pagination.PageInfo
	Quotes []Quote `json:"quotes"`
}

type QuoteService interface {
	Create(context.Context, CreateQuoteRequest) (*Quote, error)
	Get(context.Context, string) (*Quote, error)
	List(context.Context, ListQuotesRequest) (*ListQuotesResponse, error)
	Update(context.Context, string, UpdateQuoteRequest) (*Quote, error)
	Delete(context.Context, string) error
	AddItem(context.Context, string, AddItemRequest) (*Quote, error)
	RemoveItem(ctx context.Context, quoteID, itemID string) (*Quote, error)
	Recalculate(context.Context, string) (*Quote, error)
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidDiscount     = errors.New("invalid_discount_percent")
	ErrInvalidTax          = errors.New("invalid_tax_percent")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidModifierType = errors.New("invalid_modifier_type")
	ErrQuoteNotEditable    = errors.New("quote_not_editable")
	ErrServiceNotFound     = errors.New("service_not_found")
	ErrItemNotFound        = errors.New("item_not_found")
	ErrNotFound            = errors.New("not_found")
)
