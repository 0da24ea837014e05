package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func NewRepository() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) InsertCategory(ctx context.Context, db *gorm.DB, category *catalogdomain.ChargeCategory) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, category *catalogdomain.ChargeCategory) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.ChargeCategory, error) {
	var c catalogdomain.ChargeCategory
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB) ([]catalogdomain.ChargeCategory, error) {
	var out []catalogdomain.ChargeCategory
	if err := db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) InsertCharge(ctx context.Context, db *gorm.DB, charge *catalogdomain.ChargeDefinition) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repo) UpdateCharge(ctx context.Context, db *gorm.DB, charge *catalogdomain.ChargeDefinition) error {
	return db.WithContext(ctx).Save(charge).Error
}

func (r *repo) FindChargeByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.ChargeDefinition, error) {
	var c catalogdomain.ChargeDefinition
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) ListCharges(ctx context.Context, db *gorm.DB, opts catalogdomain.ListChargesOptions) ([]catalogdomain.ChargeDefinition, error) {
	q := db.WithContext(ctx).Model(&catalogdomain.ChargeDefinition{})
	if opts.CategoryID != "" {
		q = q.Where("category_id = ?", opts.CategoryID)
	}
	if opts.Kind != nil {
		q = q.Where("kind = ?", *opts.Kind)
	}
	if opts.Active != nil {
		q = q.Where("active = ?", *opts.Active)
	}

	var out []catalogdomain.ChargeDefinition
	if err := q.Order("category_id, name").Find(&out).Error; err != nil {
		return nil, err
	}

	// Service type applicability is a JSON array; filter in memory rather
	// than relying on driver-specific JSON operators.
	if opts.ServiceType != "" {
		filtered := out[:0]
		for _, c := range out {
			if c.AppliesTo(opts.ServiceType) {
				filtered = append(filtered, c)
			}
		}
		out = filtered
	}
	return out, nil
}

func (r *repo) ListChargesByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]catalogdomain.ChargeDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []catalogdomain.ChargeDefinition
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
