package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository loads fully materialized services (variants, parameters and
// addons preloaded in position order) for the pricing engine and the API.
type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, service *Service) error
	GetByID(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*Service, error)
	List(ctx context.Context, tx *gorm.DB, filter ListServicesFilter, limit int) ([]*Service, error)
	Update(ctx context.Context, tx *gorm.DB, service *Service) error
	Delete(ctx context.Context, tx *gorm.DB, id snowflake.ID) error
}

type ListServicesFilter struct {
	Name        string
	Active      *bool
	AfterCursor string
}
