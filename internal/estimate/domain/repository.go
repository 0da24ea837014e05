package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/movecrewlabs/movecrew/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	CustomerID *snowflake.ID
	Status     *EstimateStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, estimate *Estimate) error
	Update(ctx context.Context, db *gorm.DB, estimate *Estimate) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Estimate, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Estimate, error)

	InsertItem(ctx context.Context, db *gorm.DB, item *EstimateLineItem) error
	UpdateItem(ctx context.Context, db *gorm.DB, item *EstimateLineItem) error
	DeleteItem(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindItemByID(ctx context.Context, db *gorm.DB, estimateID, id snowflake.ID) (*EstimateLineItem, error)
	ListItems(ctx context.Context, db *gorm.DB, estimateID snowflake.ID) ([]EstimateLineItem, error)
}
