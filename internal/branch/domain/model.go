// Package domain contains the branch master data model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Branch is a company office. Its sales tax percentage seeds the tax rate of
// every estimate priced for a customer assigned to it.
type Branch struct {
	ID                 snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"type:text;not null" json:"name"`
	Address            string          `gorm:"type:text" json:"address,omitempty"`
	SalesTaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"sales_tax_percentage"`
	Active             bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt          time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null" json:"updated_at"`
}

func (Branch) TableName() string { return "branches" }

var ErrBranchNotFound = errors.New("branch_not_found")

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, branch *Branch) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Branch, error)
	List(ctx context.Context, db *gorm.DB) ([]Branch, error)
}
