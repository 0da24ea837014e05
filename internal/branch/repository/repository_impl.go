package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	branchdomain "github.com/movecrewlabs/movecrew/internal/branch/domain"
	"gorm.io/gorm"
)

type repo struct{}

func NewRepository() branchdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, branch *branchdomain.Branch) error {
	return db.WithContext(ctx).Create(branch).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*branchdomain.Branch, error) {
	var b branchdomain.Branch
	err := db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]branchdomain.Branch, error) {
	var out []branchdomain.Branch
	if err := db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
