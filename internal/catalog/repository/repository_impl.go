package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/offerlab/preventivo/internal/catalog/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct{}

type Params struct {
	fx.In
}

func Provide(p Params) domain.Repository {
	_ = p
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, tx *gorm.DB, service *domain.Service) error {
	return tx.WithContext(ctx).Create(service).Error
}

func (r *repository) GetByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Service, error) {
	var service domain.Service
	err := tx.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Addons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *repository) List(ctx context.Context, tx *gorm.DB, filter domain.ListServicesFilter, limit int) ([]*domain.Service, error) {
	stmt := tx.WithContext(ctx).Model(&domain.Service{}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Addons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("id ASC")

	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	if filter.AfterCursor != "" {
		stmt = stmt.Where("id > ?", filter.AfterCursor)
	}
	if limit > 0 {
		// one extra row signals has_more to the pagination helper
		stmt = stmt.Limit(limit + 1)
	}

	var services []*domain.Service
	if err := stmt.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repository) Update(ctx context.Context, tx *gorm.DB, service *domain.Service) error {
	return tx.WithContext(ctx).Save(service).Error
}

func (r *repository) Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error {
	return tx.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Where("service_id = ?", id).Delete(&domain.ServiceVariant{}).Error; err != nil {
			return err
		}
		if err := inner.Where("service_id = ?", id).Delete(&domain.PricingParameter{}).Error; err != nil {
			return err
		}
		if err := inner.Where("service_id = ?", id).Delete(&domain.ServiceAddon{}).Error; err != nil {
			return err
		}
		return inner.Where("id = ?", id).Delete(&domain.Service{}).Error
	})
}
