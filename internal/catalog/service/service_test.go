package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/offerlab/preventivo/internal/catalog/domain"
	"github.com/offerlab/preventivo/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) domain.CatalogService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Service{},
		&domain.ServiceVariant{},
		&domain.PricingParameter{},
		&domain.ServiceAddon{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(repository.Params{}),
	})
}

func floatPtr(v float64) *float64 { return &v }

func listRequest(size int, token string) domain.ListServicesRequest {
	var req domain.ListServicesRequest
	req.PageSize = size
	req.PageToken = token
	return req
}

func TestCreateService(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	monthly := domain.IntervalMonth
	created, err := svc.Create(ctx, domain.CreateServiceRequest{
		Name:        "Website redesign",
		Description: "  Full redesign  ",
		BasePrice:   1500,
		PricingType: domain.PricingFixed,
		Variants: []domain.VariantInput{
			{Name: "Standard", ModifierType: domain.VariantAdd, ModifierValue: 0, IsDefault: true},
			{Name: "Premium", ModifierType: domain.VariantOverride, ModifierValue: 2400},
		},
		Parameters: []domain.ParameterInput{
			{
				Name:        "pages",
				Label:       "Number of pages",
				Type:        domain.ParamSlider,
				Min:         floatPtr(1),
				Max:         floatPtr(50),
				Default:     5,
				ImpactMode:  domain.ImpactPerUnit,
				ImpactValue: 120,
			},
		},
		Addons: []domain.AddonInput{
			{Name: "SSL certificate", Price: 60, IsRecurring: true, RecurringInterval: &monthly},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "website-redesign", created.Code)
	assert.Equal(t, "Full redesign", created.Description)
	assert.Equal(t, 1.0, created.MinQuantity)
	assert.True(t, created.Active)
	require.Len(t, created.Variants, 2)
	assert.True(t, created.Variants[0].IsDefault)
	require.Len(t, created.Parameters, 1)
	assert.Equal(t, "pages", created.Parameters[0].Name)
	require.Len(t, created.Addons, 1)

	loaded, err := svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Code, loaded.Code)
	assert.Len(t, loaded.Variants, 2)
	assert.Len(t, loaded.Parameters, 1)
	assert.Len(t, loaded.Addons, 1)
}

func TestCreateService_Validation(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateServiceRequest{
		Name: "   ", BasePrice: 10, PricingType: domain.PricingFixed,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateServiceRequest{
		Name: "Audit", BasePrice: -1, PricingType: domain.PricingFixed,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBasePrice)

	_, err = svc.Create(ctx, domain.CreateServiceRequest{
		Name: "Audit", BasePrice: 10, PricingType: domain.PricingType("bogus"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPricingType)

	_, err = svc.Create(ctx, domain.CreateServiceRequest{
		Name: "Audit", BasePrice: 10, PricingType: domain.PricingFixed,
		Variants: []domain.VariantInput{
			{Name: "A", ModifierType: domain.VariantAdd, IsDefault: true},
			{Name: "B", ModifierType: domain.VariantAdd, IsDefault: true},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateDefaultVariant)

	_, err = svc.Create(ctx, domain.CreateServiceRequest{
		Name: "Audit", BasePrice: 10, PricingType: domain.PricingFixed,
		Parameters: []domain.ParameterInput{
			{Name: "depth", Type: domain.ParamNumber, ImpactMode: domain.ImpactFixed},
			{Name: "depth", Type: domain.ParamNumber, ImpactMode: domain.ImpactFixed},
		},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateParameterName)
}

func TestCreateService_DuplicateCode(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	req := domain.CreateServiceRequest{
		Name: "SEO audit", BasePrice: 300, PricingType: domain.PricingFixed,
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestUpdateService(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateServiceRequest{
		Name: "Hosting", BasePrice: 49, PricingType: domain.PricingRecurring, IsRecurring: true,
	})
	require.NoError(t, err)

	name := "Managed hosting"
	price := 59.0
	inactive := false
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateServiceRequest{
		Name:      &name,
		BasePrice: &price,
		Active:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Managed hosting", updated.Name)
	assert.Equal(t, 59.0, updated.BasePrice)
	assert.False(t, updated.Active)
	// the code keeps pointing at the original slug
	assert.Equal(t, "hosting", updated.Code)

	bad := -5.0
	_, err = svc.Update(ctx, created.ID.String(), domain.UpdateServiceRequest{BasePrice: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidBasePrice)
}

func TestDeleteService_RemovesChildren(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateServiceRequest{
		Name: "Translation", BasePrice: 0, PricingType: domain.PricingTiered,
		Variants: []domain.VariantInput{
			{Name: "Certified", ModifierType: domain.VariantMultiply, ModifierValue: 1.5},
		},
		Addons: []domain.AddonInput{{Name: "Proofreading", Price: 80}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.Get(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListServices_FilterAndPaginate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreateServiceRequest{
			Name:        fmt.Sprintf("Service %d", i),
			BasePrice:   float64(100 * (i + 1)),
			PricingType: domain.PricingFixed,
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.ListServicesRequest{})
	require.NoError(t, err)
	require.Len(t, page.Services, 3)
	assert.False(t, page.HasMore)

	first, err := svc.List(ctx, listRequest(2, ""))
	require.NoError(t, err)
	require.Len(t, first.Services, 2)
	assert.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, listRequest(2, first.NextPageToken))
	require.NoError(t, err)
	require.Len(t, second.Services, 1)
	assert.False(t, second.HasMore)

	filtered, err := svc.List(ctx, domain.ListServicesRequest{Name: "Service 1"})
	require.NoError(t, err)
	require.Len(t, filtered.Services, 1)
	assert.Equal(t, "Service 1", filtered.Services[0].Name)
}
