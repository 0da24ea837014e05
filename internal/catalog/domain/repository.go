package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertCategory(ctx context.Context, db *gorm.DB, category *ChargeCategory) error
	UpdateCategory(ctx context.Context, db *gorm.DB, category *ChargeCategory) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ChargeCategory, error)
	ListCategories(ctx context.Context, db *gorm.DB) ([]ChargeCategory, error)

	InsertCharge(ctx context.Context, db *gorm.DB, charge *ChargeDefinition) error
	UpdateCharge(ctx context.Context, db *gorm.DB, charge *ChargeDefinition) error
	FindChargeByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ChargeDefinition, error)
	ListCharges(ctx context.Context, db *gorm.DB, opts ListChargesOptions) ([]ChargeDefinition, error)
	ListChargesByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]ChargeDefinition, error)
}
