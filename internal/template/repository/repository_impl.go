package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	templatedomain "github.com/movecrewlabs/movecrew/internal/template/domain"
	"gorm.io/gorm"
)

type repo struct{}

func NewRepository() templatedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, template *templatedomain.EstimateTemplate) error {
	return db.WithContext(ctx).Create(template).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, template *templatedomain.EstimateTemplate) error {
	return db.WithContext(ctx).Save(template).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*templatedomain.EstimateTemplate, error) {
	var t templatedomain.EstimateTemplate
	err := db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, opts templatedomain.ListOptions) ([]templatedomain.EstimateTemplate, error) {
	q := db.WithContext(ctx).Model(&templatedomain.EstimateTemplate{})
	if opts.ServiceType != "" {
		q = q.Where("service_type = ?", opts.ServiceType)
	}
	if opts.Active != nil {
		q = q.Where("active = ?", *opts.Active)
	}
	var out []templatedomain.EstimateTemplate
	if err := q.Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *templatedomain.TemplateLineItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) UpdateItem(ctx context.Context, db *gorm.DB, item *templatedomain.TemplateLineItem) error {
	return db.WithContext(ctx).Save(item).Error
}

func (r *repo) DeleteItem(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&templatedomain.TemplateLineItem{}, "id = ?", id).Error
}

func (r *repo) FindItemByID(ctx context.Context, db *gorm.DB, templateID, id snowflake.ID) (*templatedomain.TemplateLineItem, error) {
	var item templatedomain.TemplateLineItem
	err := db.WithContext(ctx).First(&item, "template_id = ? AND id = ?", templateID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, templateID snowflake.ID) ([]templatedomain.TemplateLineItem, error) {
	var out []templatedomain.TemplateLineItem
	err := db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("display_order, id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
