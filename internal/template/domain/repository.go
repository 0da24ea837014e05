package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, template *EstimateTemplate) error
	Update(ctx context.Context, db *gorm.DB, template *EstimateTemplate) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*EstimateTemplate, error)
	List(ctx context.Context, db *gorm.DB, opts ListOptions) ([]EstimateTemplate, error)

	InsertItem(ctx context.Context, db *gorm.DB, item *TemplateLineItem) error
	UpdateItem(ctx context.Context, db *gorm.DB, item *TemplateLineItem) error
	DeleteItem(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindItemByID(ctx context.Context, db *gorm.DB, templateID, id snowflake.ID) (*TemplateLineItem, error)
	ListItems(ctx context.Context, db *gorm.DB, templateID snowflake.ID) ([]TemplateLineItem, error)
}
