package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	estimatedomain "github.com/movecrewlabs/movecrew/internal/estimate/domain"
	"github.com/movecrewlabs/movecrew/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func NewRepository() estimatedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, estimate *estimatedomain.Estimate) error {
	return db.WithContext(ctx).Create(estimate).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, estimate *estimatedomain.Estimate) error {
	return db.WithContext(ctx).Save(estimate).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*estimatedomain.Estimate, error) {
	var e estimatedomain.Estimate
	err := db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter estimatedomain.ListFilter, page pagination.Pagination) ([]estimatedomain.Estimate, error) {
	q := db.WithContext(ctx).Model(&estimatedomain.Estimate{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return nil, pagination.ErrInvalidPageToken
		}
		q = q.Where("(created_at, id) < (?, ?)", createdAt, cursor.ID)
	}
	if page.PageSize > 0 {
		// Fetch one extra row so the caller can detect a next page.
		q = q.Limit(page.PageSize + 1)
	}

	var out []estimatedomain.Estimate
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *estimatedomain.EstimateLineItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) UpdateItem(ctx context.Context, db *gorm.DB, item *estimatedomain.EstimateLineItem) error {
	return db.WithContext(ctx).Save(item).Error
}

func (r *repo) DeleteItem(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&estimatedomain.EstimateLineItem{}, "id = ?", id).Error
}

func (r *repo) FindItemByID(ctx context.Context, db *gorm.DB, estimateID, id snowflake.ID) (*estimatedomain.EstimateLineItem, error) {
	var item estimatedomain.EstimateLineItem
	err := db.WithContext(ctx).First(&item, "estimate_id = ? AND id = ?", estimateID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, estimateID snowflake.ID) ([]estimatedomain.EstimateLineItem, error) {
	var out []estimatedomain.EstimateLineItem
	err := db.WithContext(ctx).
		Where("estimate_id = ?", estimateID).
		Order("display_order, id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
