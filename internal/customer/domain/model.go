// Package domain contains the customer master data model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Customer struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	BranchID  *snowflake.ID `gorm:"index" json:"branch_id,omitempty"`
	FullName  string        `gorm:"type:text;not null" json:"full_name"`
	Email     string        `gorm:"type:text;index" json:"email,omitempty"`
	Phone     string        `gorm:"type:text" json:"phone,omitempty"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

var ErrCustomerNotFound = errors.New("customer_not_found")

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
}
