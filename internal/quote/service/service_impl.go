package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	catalogdomain "github.com/offerlab/preventivo/internal/catalog/domain"
	"github.com/offerlab/preventivo/internal/clock"
	"github.com/offerlab/preventivo/internal/config"
	"github.com/offerlab/preventivo/internal/pricing"
	"github.com/offerlab/preventivo/internal/quote/domain"
	"github.com/offerlab/preventivo/internal/quote/format"
	"github.com/offerlab/preventivo/pkg/db/option"
	"github.com/offerlab/preventivo/pkg/db/pagination"
	"github.com/offerlab/preventivo/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	CatalogRepo catalogdomain.Repository
	QuoteCfg    *config.QuoteConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	catalogRepo catalogdomain.Repository
	quoteCfg    *config.QuoteConfigHolder

	quoteRepo repository.Repository[domain.Quote]
	itemRepo  repository.Repository[domain.QuoteItem]
}

func New(p Params) domain.QuoteService {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("quote.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		catalogRepo: p.CatalogRepo,
		quoteCfg:    p.QuoteCfg,
		quoteRepo:   repository.ProvideStore[domain.Quote](p.DB),
		itemRepo:    repository.ProvideStore[domain.QuoteItem](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateQuoteRequest) (*domain.Quote, error) {
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		return nil, domain.ErrInvalidCustomer
	}

	defaults := s.quoteCfg.Current()

	if req.DiscountPercent < 0 || req.DiscountPercent > defaults.MaxDiscountPercent {
		return nil, domain.ErrInvalidDiscount
	}

	taxPercent := defaults.TaxPercent
	if req.TaxPercent != nil {
		if *req.TaxPercent < 0 {
			return nil, domain.ErrInvalidTax
		}
		taxPercent = *req.TaxPercent
	}

	if err := validateModifiers(req.Modifiers); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entity := &domain.Quote{
		ID:              s.genID.Generate(),
		Reference:       ulid.Make().String(),
		CustomerName:    customer,
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerCompany: strings.TrimSpace(req.CustomerCompany),
		Status:          domain.StatusDraft,
		Currency:        defaults.Currency,
		Notes:           strings.TrimSpace(req.Notes),
		DiscountPercent: req.DiscountPercent,
		TaxPercent:      taxPercent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if defaults.ValidDays > 0 {
		validUntil := now.AddDate(0, 0, defaults.ValidDays)
		entity.ValidUntil = &validUntil
	}
	for i, m := range req.Modifiers {
		entity.Modifiers = append(entity.Modifiers, domain.QuoteModifier{
			ID:         s.genID.Generate(),
			QuoteID:    entity.ID,
			Name:       strings.TrimSpace(m.Name),
			Type:       m.Type,
			Value:      m.Value,
			IsPositive: m.IsPositive,
			Position:   i,
			CreatedAt:  now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.quoteRepo.WithTrx(tx).Count(ctx, &domain.Quote{})
		if err != nil {
			return err
		}
		number, err := format.FormatQuoteNumber(defaults.NumberTemplate, now, seq+1)
		if err != nil {
			return err
		}
		entity.Number = number
		return tx.Create(entity).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quote created",
		zap.String("id", entity.ID.String()),
		zap.String("number", entity.Number),
	)
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Quote, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return s.load(ctx, s.db, quoteID)
}

func (s *Service) List(ctx context.Context, req domain.ListQuotesRequest) (*domain.ListQuotesResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	stmt := s.db.WithContext(ctx).Model(&domain.Quote{}).Order("id ASC")
	if status := strings.TrimSpace(req.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if customer := strings.TrimSpace(req.Customer); customer != "" {
		stmt = stmt.Where("customer_name LIKE ?", "%"+customer+"%")
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		stmt = stmt.Where("id > ?", cursor.ID)
	}

	var rows []*domain.Quote
	if err := stmt.Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return nil, err
	}

	pageInfo, rows := pagination.BuildCursorPageInfo(rows, pageSize, func(q *domain.Quote) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: q.ID.String()})
		return token
	})

	resp := &domain.ListQuotesResponse{PageInfo: *pageInfo}
	for _, row := range rows {
		resp.Quotes = append(resp.Quotes, *row)
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateQuoteRequest) (*domain.Quote, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	if err := validateModifiers(req.Modifiers); err != nil {
		return nil, err
	}

	defaults := s.quoteCfg.Current()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.load(ctx, tx, quoteID)
		if err != nil {
			return err
		}

		if req.Status != nil {
			if !validStatus(*req.Status) {
				return domain.ErrInvalidStatus
			}
			quote.Status = *req.Status
		}
		if req.Notes != nil {
			quote.Notes = strings.TrimSpace(*req.Notes)
		}
		if req.DiscountPercent != nil {
			if *req.DiscountPercent < 0 || *req.DiscountPercent > defaults.MaxDiscountPercent {
				return domain.ErrInvalidDiscount
			}
			quote.DiscountPercent = *req.DiscountPercent
		}
		if req.TaxPercent != nil {
			if *req.TaxPercent < 0 {
				return domain.ErrInvalidTax
			}
			quote.TaxPercent = *req.TaxPercent
		}
		if req.Modifiers != nil {
			if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.QuoteModifier{}).Error; err != nil {
				return err
			}
			now := s.clock.Now()
			quote.Modifiers = nil
			for i, m := range req.Modifiers {
				quote.Modifiers = append(quote.Modifiers, domain.QuoteModifier{
					ID:         s.genID.Generate(),
					QuoteID:    quote.ID,
					Name:       strings.TrimSpace(m.Name),
					Type:       m.Type,
					Value:      m.Value,
					IsPositive: m.IsPositive,
					Position:   i,
					CreatedAt:  now,
				})
			}
		}

		return s.recalculateTx(ctx, tx, quote)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, s.db, quoteID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	quoteID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.load(ctx, tx, quoteID)
		if err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.QuoteModifier{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Quote{}, "id = ?", quote.ID).Error
	})
}

func (s *Service) AddItem(ctx context.Context, id string, req domain.AddItemRequest) (*domain.Quote, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	serviceID, err := parseID(req.ServiceID)
	if err != nil {
		return nil, domain.ErrServiceNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.load(ctx, tx, quoteID)
		if err != nil {
			return err
		}
		if quote.Status != domain.StatusDraft {
			return domain.ErrQuoteNotEditable
		}

		service, err := s.catalogRepo.GetByID(ctx, tx, serviceID)
		if err != nil {
			return err
		}
		if service == nil {
			return domain.ErrServiceNotFound
		}

		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < service.MinQuantity {
			return domain.ErrInvalidQuantity
		}

		opts := pricing.ItemOptions{
			Quantity:        quantity,
			ParameterValues: make(map[string]pricing.ParamValue, len(req.ParameterValues)),
		}
		for name, raw := range req.ParameterValues {
			opts.ParameterValues[name] = pricing.FromJSONValue(raw)
		}
		var variantName string
		if req.VariantID != nil {
			variantID, err := parseID(*req.VariantID)
			if err == nil {
				opts.VariantID = &variantID
				for _, v := range service.Variants {
					if v.ID == variantID {
						variantName = v.Name
					}
				}
			}
		}
		for _, raw := range req.AddonIDs {
			addonID, err := parseID(raw)
			if err != nil {
				continue // unknown ids are skipped, not rejected
			}
			opts.SelectedAddonIDs = append(opts.SelectedAddonIDs, addonID)
		}

		breakdown, err := pricing.CalculateItemPrice(*service, opts)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		item := &domain.QuoteItem{
			ID:                s.genID.Generate(),
			QuoteID:           quote.ID,
			ServiceID:         service.ID,
			ServiceName:       service.Name,
			VariantID:         opts.VariantID,
			VariantName:       variantName,
			Quantity:          breakdown.Quantity,
			BasePrice:         breakdown.BasePrice,
			VariantAdjustment: breakdown.VariantAdjustment,
			ParametersImpact:  breakdown.ParametersImpact,
			AddonsTotal:       breakdown.AddonsTotal,
			UnitPrice:         breakdown.UnitPrice,
			LineTotal:         breakdown.LineTotal,
			IsRecurring:       service.IsRecurring,
			RecurringInterval: service.RecurringInterval,
			Parameters:        datatypes.NewJSONSlice(breakdown.Parameters),
			Addons:            datatypes.NewJSONSlice(breakdown.Addons),
			Position:          len(quote.Items),
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		quote.Items = append(quote.Items, *item)
		return s.recalculateTx(ctx, tx, quote)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, s.db, quoteID)
}

func (s *Service) RemoveItem(ctx context.Context, quoteID, itemID string) (*domain.Quote, error) {
	qID, err := parseID(quoteID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	iID, err := parseID(itemID)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.load(ctx, tx, qID)
		if err != nil {
			return err
		}
		if quote.Status != domain.StatusDraft {
			return domain.ErrQuoteNotEditable
		}

		found := false
		remaining := quote.Items[:0]
		for _, item := range quote.Items {
			if item.ID == iID {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			return domain.ErrItemNotFound
		}

		if err := tx.Delete(&domain.QuoteItem{}, "id = ?", iID).Error; err != nil {
			return err
		}
		quote.Items = remaining
		return s.recalculateTx(ctx, tx, quote)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, s.db, qID)
}

func (s *Service) Recalculate(ctx context.Context, id string) (*domain.Quote, error) {
	quoteID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.load(ctx, tx, quoteID)
		if err != nil {
			return err
		}
		return s.recalculateTx(ctx, tx, quote)
	})
	if err != nil {
		return nil, err
	}

	return s.load(ctx, s.db, quoteID)
}

// recalculateTx rebuilds the stored totals from the quote's items and
// modifiers and persists them.
func (s *Service) recalculateTx(ctx context.Context, tx *gorm.DB, quote *domain.Quote) error {
	rows, err := s.itemRepo.WithTrx(tx).Find(ctx,
		&domain.QuoteItem{QuoteID: quote.ID},
		option.WithOrder("position ASC"),
	)
	if err != nil {
		return err
	}

	quote.Items = quote.Items[:0]
	items := make([]pricing.LineItem, 0, len(rows))
	for _, row := range rows {
		quote.Items = append(quote.Items, *row)
		items = append(items, pricing.LineItem{
			LineTotal:         row.LineTotal,
			IsRecurring:       row.IsRecurring,
			RecurringInterval: row.RecurringInterval,
			Addons:            row.Addons,
		})
	}

	totals := pricing.CalculateQuoteTotals(items, quote.DiscountPercent, quote.TaxPercent)

	modifiers := make([]pricing.PriceModifier, 0, len(quote.Modifiers))
	for _, m := range quote.Modifiers {
		modifiers = append(modifiers, pricing.PriceModifier{
			Name:       m.Name,
			Type:       m.Type,
			Value:      m.Value,
			IsPositive: m.IsPositive,
		})
	}
	adjusted, err := pricing.ApplyPriceModifiers(totals.GrandTotal, modifiers)
	if err != nil {
		return err
	}

	quote.SubtotalOneTime = totals.SubtotalOneTime
	quote.DiscountAmount = totals.DiscountAmount
	quote.TotalOneTime = totals.TotalOneTime
	quote.TotalRecurringMonthly = totals.TotalRecurringMonthly
	quote.TotalRecurringYearly = totals.TotalRecurringYearly
	quote.TaxAmount = totals.TaxAmount
	quote.GrandTotal = totals.GrandTotal
	quote.FinalTotal = adjusted.FinalPrice
	quote.Adjustments = datatypes.NewJSONSlice(adjusted.Adjustments)
	quote.UpdatedAt = s.clock.Now()

	return tx.Omit("Items", "Modifiers").Save(quote).Error
}

func (s *Service) load(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := tx.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modifiers", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&quote, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

func validateModifiers(modifiers []domain.ModifierInput) error {
	for _, m := range modifiers {
		switch m.Type {
		case pricing.ModifierPercentage, pricing.ModifierFixed, pricing.ModifierMultiplier:
		default:
			return domain.ErrInvalidModifierType
		}
	}
	return nil
}

func validStatus(status domain.QuoteStatus) bool {
	switch status {
	case domain.StatusDraft, domain.StatusSent, domain.StatusAccepted,
		domain.StatusRejected, domain.StatusExpired:
		return true
	default:
		return false
	}
}
