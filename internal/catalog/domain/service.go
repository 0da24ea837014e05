package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrCategoryNotFound   = errors.New("charge_category_not_found")
	ErrChargeNotFound     = errors.New("charge_not_found")
	ErrInvalidChargeKind  = errors.New("invalid_charge_kind")
	ErrInvalidPercentBase = errors.New("invalid_percent_base")
	ErrInvalidRequest     = errors.New("invalid_request")
)

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type CreateChargeRequest struct {
	CategoryID        string           `json:"category_id"`
	Name              string           `json:"name"`
	Kind              ChargeKind       `json:"kind"`
	DefaultRate       *decimal.Decimal `json:"default_rate,omitempty"`
	DefaultPercentage *decimal.Decimal `json:"default_percentage,omitempty"`
	PercentAppliedOn  *string          `json:"percent_applied_on,omitempty"`
	ServiceTypes      []string         `json:"service_types,omitempty"`
	Required          bool             `json:"required"`
}

type UpdateChargeRequest struct {
	Name              *string          `json:"name,omitempty"`
	DefaultRate       *decimal.Decimal `json:"default_rate,omitempty"`
	DefaultPercentage *decimal.Decimal `json:"default_percentage,omitempty"`
	PercentAppliedOn  *string          `json:"percent_applied_on,omitempty"`
	ServiceTypes      []string         `json:"service_types,omitempty"`
	Required          *bool            `json:"required,omitempty"`
	Active            *bool            `json:"active,omitempty"`
}

type ListChargesOptions struct {
	CategoryID  string
	Kind        *ChargeKind
	ServiceType string
	Active      *bool
}

type Service interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*ChargeCategory, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*ChargeCategory, error)
	DeactivateCategory(ctx context.Context, id string) (*ChargeCategory, error)
	ListCategories(ctx context.Context) ([]ChargeCategory, error)

	CreateCharge(ctx context.Context, req CreateChargeRequest) (*ChargeDefinition, error)
	UpdateCharge(ctx context.Context, id string, req UpdateChargeRequest) (*ChargeDefinition, error)
	DeactivateCharge(ctx context.Context, id string) (*ChargeDefinition, error)
	GetCharge(ctx context.Context, id string) (*ChargeDefinition, error)
	ListCharges(ctx context.Context, opts ListChargesOptions) ([]ChargeDefinition, error)
}
