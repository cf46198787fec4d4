// Package seed bootstraps a demo service catalog so a fresh install has
// something to quote against.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDemoCatalog seeds a small set of demo services. It is idempotent:
// services are looked up by code and never overwritten.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, build := range []func(*snowflake.Node) *catalogdomain.Service{
			demoWebsiteService,
			demoHostingService,
			demoTranslationService,
		} {
			if err := ensureServiceTx(ctx, tx, build(node)); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureServiceTx(ctx context.Context, tx *gorm.DB, service *catalogdomain.Service) error {
	var existing catalogdomain.Service
	err := tx.WithContext(ctx).Where("code = ?", service.Code).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.WithContext(ctx).Create(service).Error
}

func demoWebsiteService(node *snowflake.Node) *catalogdomain.Service {
	now := time.Now().UTC()
	id := node.Generate()
	return &catalogdomain.Service{
		ID:          id,
		Code:        "website-development",
		Name:        "Website development",
		Description: "Custom website built from a shared design system.",
		BasePrice:   1500,
		PricingType: catalogdomain.PricingFixed,
		MinQuantity: 1,
		Active:      true,
		Variants: []catalogdomain.ServiceVariant{
			{
				ID:            node.Generate(),
				ServiceID:     id,
				Name:          "Standard",
				ModifierType:  catalogdomain.VariantAdd,
				ModifierValue: 0,
				IsDefault:     true,
				Position:      0,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
			{
				ID:            node.Generate(),
				ServiceID:     id,
				Name:          "E-commerce",
				ModifierType:  catalogdomain.VariantMultiply,
				ModifierValue: 1.8,
				Position:      1,
				CreatedAt:     now,
				UpdatedAt:     now,
			},
		},
		Parameters: []catalogdomain.PricingParameter{
			{
				ID:          node.Generate(),
				ServiceID:   id,
				Name:        "pages",
				Label:       "Number of pages",
				Type:        catalogdomain.ParamSlider,
				ImpactMode:  catalogdomain.ImpactPerUnit,
				ImpactValue: 120,
				Position:    0,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			{
				ID:         node.Generate(),
				ServiceID:  id,
				Name:       "seo_setup",
				Label:      "SEO setup",
				Type:       catalogdomain.ParamCheckbox,
				ImpactMode: catalogdomain.ImpactFixed,
				// impact applies only when the box is checked
				ImpactValue: 350,
				Position:    1,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		},
		Addons: []catalogdomain.ServiceAddon{
			{
				ID:        node.Generate(),
				ServiceID: id,
				Name:      "Content migration",
				Price:     400,
				Position:  0,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func demoHostingService(node *snowflake.Node) *catalogdomain.Service {
	now := time.Now().UTC()
	id := node.Generate()
	interval := catalogdomain.IntervalMonth
	yearly := catalogdomain.IntervalYear
	return &catalogdomain.Service{
		ID:                id,
		Code:              "managed-hosting",
		Name:              "Managed hosting",
		Description:       "Monitored hosting with backups and updates.",
		BasePrice:         49,
		PricingType:       catalogdomain.PricingRecurring,
		IsRecurring:       true,
		RecurringInterval: &interval,
		MinQuantity:       1,
		Active:            true,
		Addons: []catalogdomain.ServiceAddon{
			{
				ID:                node.Generate(),
				ServiceID:         id,
				Name:              "SSL certificate",
				Price:             60,
				IsRecurring:       true,
				RecurringInterval: &yearly,
				Position:          0,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func demoTranslationService(node *snowflake.Node) *catalogdomain.Service {
	now := time.Now().UTC()
	id := node.Generate()
	max1 := 1000.0
	max2 := 5000.0
	return &catalogdomain.Service{
		ID:          id,
		Code:        "document-translation",
		Name:        "Document translation",
		Description: "Per-word translation with volume discounts.",
		BasePrice:   0,
		PricingType: catalogdomain.PricingTiered,
		MinQuantity: 1,
		Active:      true,
		Parameters: []catalogdomain.PricingParameter{
			{
				ID:         node.Generate(),
				ServiceID:  id,
				Name:       "words",
				Label:      "Word count",
				Type:       catalogdomain.ParamNumber,
				ImpactMode: catalogdomain.ImpactTiered,
				PriceTiers: datatypes.NewJSONSlice([]catalogdomain.PriceTier{
					{Min: 1, Max: &max1, PricePerUnit: 0.12},
					{Min: 1001, Max: &max2, PricePerUnit: 0.10},
					{Min: 5001, PricePerUnit: 0.08},
				}),
				Position:  0,
				CreatedAt: now,
				UpdatedAt: now,
			},
			{
				ID:         node.Generate(),
				ServiceID:  id,
				Name:       "language_pair",
				Label:      "Language pair",
				Type:       catalogdomain.ParamSelect,
				ImpactMode: catalogdomain.ImpactFixed,
				Options: datatypes.NewJSONSlice([]catalogdomain.ParameterOption{
					{Value: "en-it", Label: "English to Italian", PriceImpact: 0},
					{Value: "de-it", Label: "German to Italian", PriceImpact: 50},
					{Value: "ja-it", Label: "Japanese to Italian", PriceImpact: 150},
				}),
				Position:  1,
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
