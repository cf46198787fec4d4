package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
	catalogrepository "github.com/offerlab/preventivo/internal/catalog/repository"
	"github.com/offerlab/preventivo/internal/clock"
	"github.com/offerlab/preventivo/internal/config"
	"github.com/offerlab/preventivo/internal/pricing"
	"github.com/offerlab/preventivo/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.QuoteService
	db    *gorm.DB
	node  *snowflake.Node
	repo  catalogdomain.Repository
	defts config.QuoteDefaults
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalogdomain.Service{},
		&catalogdomain.ServiceVariant{},
		&catalogdomain.PricingParameter{},
		&catalogdomain.ServiceAddon{},
		&domain.Quote{},
		&domain.QuoteItem{},
		&domain.QuoteModifier{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	holder, err := config.NewQuoteConfigHolder()
	require.NoError(t, err)

	repo := catalogrepository.Provide(catalogrepository.Params{})

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clock.NewFakeClock(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)),
		CatalogRepo: repo,
		QuoteCfg:    holder,
	})

	return &fixture{svc: svc, db: db, node: node, repo: repo, defts: holder.Current()}
}

func (f *fixture) seedService(t *testing.T) *catalogdomain.Service {
	t.Helper()

	now := time.Now().UTC()
	entity := &catalogdomain.Service{
		ID:          f.node.Generate(),
		Code:        "website-redesign",
		Name:        "Website redesign",
		BasePrice:   100,
		PricingType: catalogdomain.PricingFixed,
		MinQuantity: 1,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	entity.Variants = []catalogdomain.ServiceVariant{{
		ID:            f.node.Generate(),
		ServiceID:     entity.ID,
		Name:          "Premium",
		ModifierType:  catalogdomain.VariantOverride,
		ModifierValue: 150,
	}}
	entity.Parameters = []catalogdomain.PricingParameter{{
		ID:          f.node.Generate(),
		ServiceID:   entity.ID,
		Name:        "pages",
		Label:       "Pages",
		Type:        catalogdomain.ParamNumber,
		ImpactMode:  catalogdomain.ImpactPerUnit,
		ImpactValue: 20,
	}}
	entity.Addons = []catalogdomain.ServiceAddon{{
		ID:        f.node.Generate(),
		ServiceID: entity.ID,
		Name:      "Onboarding",
		Price:     30,
	}}
	require.NoError(t, f.repo.Insert(context.Background(), f.db, entity))
	return entity
}

func taxPtr(v float64) *float64 { return &v }

func TestCreateQuote(t *testing.T) {
	f := setup(t)

	quote, err := f.svc.Create(context.Background(), domain.CreateQuoteRequest{
		CustomerName: "ACME Srl",
		TaxPercent:   taxPtr(22),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDraft, quote.Status)
	assert.Equal(t, 22.0, quote.TaxPercent)
	assert.NotEmpty(t, quote.Reference)
	assert.Equal(t, "Q-202503-0001", quote.Number)
	assert.Equal(t, f.defts.Currency, quote.Currency)
}

func TestCreateQuote_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateQuoteRequest{CustomerName: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomer)

	_, err = f.svc.Create(ctx, domain.CreateQuoteRequest{
		CustomerName:    "ACME Srl",
		DiscountPercent: f.defts.MaxDiscountPercent + 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDiscount)

	_, err = f.svc.Create(ctx, domain.CreateQuoteRequest{
		CustomerName: "ACME Srl",
		Modifiers: []domain.ModifierInput{
			{Name: "broken", Type: pricing.ModifierType("EXPONENT"), Value: 2},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidModifierType)
}

func TestAddItem_FullBreakdownAndTotals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	service := f.seedService(t)

	quote, err := f.svc.Create(ctx, domain.CreateQuoteRequest{
		CustomerName:    "ACME Srl",
		DiscountPercent: 10,
		TaxPercent:      taxPtr(22),
		Modifiers: []domain.ModifierInput{
			{Name: "Urgent delivery", Type: pricing.ModifierPercentage, Value: 10, IsPositive: true},
		},
	})
	require.NoError(t, err)

	variantID := service.Variants[0].ID.String()
	quote, err = f.svc.AddItem(ctx, quote.ID.String(), domain.AddItemRequest{
		ServiceID:       service.ID.String(),
		VariantID:       &variantID,
		Quantity:        2,
		ParameterValues: map[string]any{"pages": float64(5)},
		AddonIDs:        []string{service.Addons[0].ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, quote.Items, 1)

	item := quote.Items[0]
	assert.Equal(t, 100.0, item.BasePrice)
	assert.Equal(t, 50.0, item.VariantAdjustment)
	assert.Equal(t, 100.0, item.ParametersImpact)
	assert.Equal(t, 250.0, item.UnitPrice)
	assert.Equal(t, 30.0, item.AddonsTotal)
	assert.Equal(t, 530.0, item.LineTotal)
	assert.Equal(t, "Premium", item.VariantName)

	// one-time bucket 530, 10% discount, 22% tax, +10% modifier on top
	assert.InDelta(t, 530.0, quote.SubtotalOneTime, 1e-9)
	assert.InDelta(t, 53.0, quote.DiscountAmount, 1e-9)
	assert.InDelta(t, 477.0, quote.TotalOneTime, 1e-9)
	assert.InDelta(t, 104.94, quote.TaxAmount, 1e-9)
	assert.InDelta(t, 581.94, quote.GrandTotal, 1e-9)
	assert.InDelta(t, 640.134, quote.FinalTotal, 1e-9)
}

func TestAddItem_RecurringService(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	interval := catalogdomain.IntervalMonth
	now := time.Now().UTC()
	service := &catalogdomain.Service{
		ID:                f.node.Generate(),
		Code:              "managed-hosting",
		Name:              "Managed hosting",
		BasePrice:         50,
		PricingType:       catalogdomain.PricingRecurring,
		IsRecurring:       true,
		RecurringInterval: &interval,
		MinQuantity:       1,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, f.repo.Insert(ctx, f.db, service))

	quote, err := f.svc.Create(ctx, domain.CreateQuoteRequest{
		CustomerName: "ACME Srl",
		TaxPercent:   taxPtr(0),
	})
	require.NoError(t, err)

	quote, err = f.svc.AddItem(ctx, quote.ID.String(), domain.AddItemRequest{
		ServiceID: service.ID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, quote.SubtotalOneTime)
	assert.Equal(t, 50.0, quote.TotalRecurringMonthly)
	// grand total annualizes the monthly charge
	assert.InDelta(t, 600.0, quote.GrandTotal, 1e-9)
}

func TestAddItem_MinQuantityEnforced(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	service := f.seedService(t)

	require.NoError(t, f.db.Model(&catalogdomain.Service{}).
		Where("id = ?", service.ID).
		Update("min_quantity", 5).Error)

	quote, err := f.svc.Create(ctx, domain.CreateQuoteRequest{CustomerName: "ACME Srl"})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, quote.ID.String(), domain.AddItemRequest{
		ServiceID: service.ID.String(),
		Quantity:  2,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAddItem_QuoteNotEditable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	service := f.seedService(t)

	quote, err := f.svc.Create(ctx, domain.CreateQuoteRequest{CustomerName: "ACME Srl"})
	require.NoError(t, err)

	sent := domain.StatusSent
	_, err = f.svc.Update(ctx, quote.ID.String(), domain.UpdateQuoteRequest{Status: &sent})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, quote.ID.String(), domain.AddItemRequest{
		ServiceID: service.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrQuoteNotEditable)
}

func TestRemoveItem_RecalculatesTotals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	service := f.seedService(t)

	quote, err := f.svc.Create(ctx, domain.CreateQuoteRequest{
		CustomerName: "ACME Srl",
		TaxPercent:   taxPtr(22),
	})
	require.NoError(t, err)

	quote, err = f.svc.AddItem(ctx, quote.ID.String(), domain.AddItemRequest{
		ServiceID: service.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, quote.Items, 1)
	assert.Greater(t, quote.GrandTotal, 0.0)

	quote, err = f.svc.RemoveItem(ctx, quote.ID.String(), quote.Items[0].ID.String())
	require.NoError(t, err)
	assert.Empty(t, quote.Items)
	assert.Equal(t, 0.0, quote.GrandTotal)
	assert.Equal(t, 0.0, quote.FinalTotal)
}

func TestListQuotes_FilterByStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, domain.CreateQuoteRequest{CustomerName: "ACME Srl"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.CreateQuoteRequest{CustomerName: "Beta SpA"})
	require.NoError(t, err)

	sent := domain.StatusSent
	_, err = f.svc.Update(ctx, first.ID.String(), domain.UpdateQuoteRequest{Status: &sent})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, domain.ListQuotesRequest{Status: string(domain.StatusSent)})
	require.NoError(t, err)
	require.Len(t, resp.Quotes, 1)
	assert.Equal(t, "ACME Srl", resp.Quotes[0].CustomerName)
}
