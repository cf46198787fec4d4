package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/offerlab/preventivo/internal/catalog/domain"
	"github.com/offerlab/preventivo/pkg/db"
	"github.com/offerlab/preventivo/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.CatalogService {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateServiceRequest) (*domain.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.BasePrice < 0 {
		return nil, domain.ErrInvalidBasePrice
	}
	if !validPricingType(req.PricingType) {
		return nil, domain.ErrInvalidPricingType
	}
	if req.RecurringInterval != nil && !validInterval(*req.RecurringInterval) {
		return nil, domain.ErrInvalidInterval
	}

	defaults := 0
	for _, v := range req.Variants {
		if !validVariantModifier(v.ModifierType) {
			return nil, domain.ErrInvalidVariantModifier
		}
		if v.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, domain.ErrDuplicateDefaultVariant
	}

	seen := make(map[string]struct{}, len(req.Parameters))
	for _, p := range req.Parameters {
		if !validParameterType(p.Type) {
			return nil, domain.ErrInvalidParameterType
		}
		if !validImpactMode(p.ImpactMode) {
			return nil, domain.ErrInvalidImpactMode
		}
		key := strings.TrimSpace(p.Name)
		if key == "" {
			return nil, domain.ErrInvalidName
		}
		if _, dup := seen[key]; dup {
			return nil, domain.ErrDuplicateParameterName
		}
		seen[key] = struct{}{}
	}
	for _, a := range req.Addons {
		if a.RecurringInterval != nil && !validInterval(*a.RecurringInterval) {
			return nil, domain.ErrInvalidInterval
		}
	}

	minQty := req.MinQuantity
	if minQty <= 0 {
		minQty = 1
	}

	now := time.Now().UTC()
	entity := &domain.Service{
		ID:                s.genID.Generate(),
		Code:              slug.Make(name),
		Name:              name,
		Description:       strings.TrimSpace(req.Description),
		BasePrice:         req.BasePrice,
		PricingType:       req.PricingType,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
		MaxPrice:          req.MaxPrice,
		MinQuantity:       minQty,
		PriceTiers:        datatypes.NewJSONSlice(req.PriceTiers),
		Active:            true,
		Metadata:          datatypes.JSONMap{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	for i, v := range req.Variants {
		entity.Variants = append(entity.Variants, domain.ServiceVariant{
			ID:            s.genID.Generate(),
			ServiceID:     entity.ID,
			Name:          strings.TrimSpace(v.Name),
			ModifierType:  v.ModifierType,
			ModifierValue: v.ModifierValue,
			IsDefault:     v.IsDefault,
			Position:      i,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	for i, p := range req.Parameters {
		param := domain.PricingParameter{
			ID:          s.genID.Generate(),
			ServiceID:   entity.ID,
			Name:        strings.TrimSpace(p.Name),
			Label:       strings.TrimSpace(p.Label),
			Type:        p.Type,
			Min:         p.Min,
			Max:         p.Max,
			Step:        p.Step,
			ImpactMode:  p.ImpactMode,
			ImpactValue: p.ImpactValue,
			PriceTiers:  datatypes.NewJSONSlice(p.PriceTiers),
			Options:     datatypes.NewJSONSlice(p.Options),
			Position:    i,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if p.Default != nil {
			raw, err := json.Marshal(p.Default)
			if err == nil {
				param.Default = datatypes.JSON(raw)
			}
		}
		entity.Parameters = append(entity.Parameters, param)
	}
	for i, a := range req.Addons {
		entity.Addons = append(entity.Addons, domain.ServiceAddon{
			ID:                s.genID.Generate(),
			ServiceID:         entity.ID,
			Name:              strings.TrimSpace(a.Name),
			Price:             a.Price,
			IsRecurring:       a.IsRecurring,
			RecurringInterval: a.RecurringInterval,
			Position:          i,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}

	s.log.Info("service created",
		zap.String("id", entity.ID.String()),
		zap.String("code", entity.Code),
	)
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Service, error) {
	serviceID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	entity, err := s.repo.GetByID(ctx, s.db, serviceID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, domain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context, req domain.ListServicesRequest) (*domain.ListServicesResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	filter := domain.ListServicesFilter{
		Name:   strings.TrimSpace(req.Name),
		Active: req.Active,
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.AfterCursor = cursor.ID
	}

	rows, err := s.repo.List(ctx, s.db, filter, pageSize)
	if err != nil {
		return nil, err
	}

	pageInfo, rows := pagination.BuildCursorPageInfo(rows, pageSize, func(svc *domain.Service) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: svc.ID.String()})
		return token
	})

	resp := &domain.ListServicesResponse{PageInfo: *pageInfo}
	for _, row := range rows {
		resp.Services = append(resp.Services, *row)
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateServiceRequest) (*domain.Service, error) {
	serviceID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	entity, err := s.repo.GetByID(ctx, s.db, serviceID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		entity.Name = name
	}
	if req.Description != nil {
		entity.Description = strings.TrimSpace(*req.Description)
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, domain.ErrInvalidBasePrice
		}
		entity.BasePrice = *req.BasePrice
	}
	if req.PricingType != nil {
		if !validPricingType(*req.PricingType) {
			return nil, domain.ErrInvalidPricingType
		}
		entity.PricingType = *req.PricingType
	}
	if req.MaxPrice != nil {
		entity.MaxPrice = req.MaxPrice
	}
	if req.Active != nil {
		entity.Active = *req.Active
	}
	entity.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	serviceID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	entity, err := s.repo.GetByID(ctx, s.db, serviceID)
	if err != nil {
		return err
	}
	if entity == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, serviceID)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

func validPricingType(t domain.PricingType) bool {
	switch t {
	case domain.PricingFixed, domain.PricingRange, domain.PricingRecurring,
		domain.PricingTimeBased, domain.PricingTiered, domain.PricingComposite:
		return true
	default:
		return false
	}
}

func validInterval(i domain.RecurringInterval) bool {
	switch i {
	case domain.IntervalMonth, domain.IntervalQuarter, domain.IntervalYear:
		return true
	default:
		return false
	}
}

func validVariantModifier(t domain.VariantModifierType) bool {
	switch t {
	case domain.VariantOverride, domain.VariantAdd, domain.VariantMultiply:
		return true
	default:
		return false
	}
}

func validParameterType(t domain.ParameterType) bool {
	switch t {
	case domain.ParamNumber, domain.ParamSlider, domain.ParamSelect,
		domain.ParamRangeSelect, domain.ParamCheckbox:
		return true
	default:
		return false
	}
}

func validImpactMode(m domain.PriceImpactMode) bool {
	switch m {
	case domain.ImpactFixed, domain.ImpactPerUnit, domain.ImpactPercentage,
		domain.ImpactMultiplier, domain.ImpactTiered:
		return true
	default:
		return false
	}
}
