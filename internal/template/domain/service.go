package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrTemplateNotFound     = errors.New("template_not_found")
	ErrTemplateItemNotFound = errors.New("template_item_not_found")
	ErrDuplicateCharge      = errors.New("template_charge_already_present")
	ErrInvalidRequest       = errors.New("invalid_request")
)

type CreateTemplateRequest struct {
	Name        string `json:"name"`
	ServiceType string `json:"service_type"`
	Description string `json:"description"`
}

type UpdateTemplateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type AddItemRequest struct {
	ChargeID           string           `json:"charge_id"`
	RateOverride       *decimal.Decimal `json:"rate_override,omitempty"`
	PercentageOverride *decimal.Decimal `json:"percentage_override,omitempty"`
	Editable           *bool            `json:"editable,omitempty"`
}

type UpdateItemRequest struct {
	RateOverride       *decimal.Decimal `json:"rate_override,omitempty"`
	PercentageOverride *decimal.Decimal `json:"percentage_override,omitempty"`
	Editable           *bool            `json:"editable,omitempty"`
	DisplayOrder       *int             `json:"display_order,omitempty"`
}

type ListOptions struct {
	ServiceType string
	Active      *bool
}

type Service interface {
	Create(ctx context.Context, req CreateTemplateRequest) (*EstimateTemplate, error)
	Update(ctx context.Context, id string, req UpdateTemplateRequest) (*EstimateTemplate, error)
	Get(ctx context.Context, id string) (*EstimateTemplate, error)
	List(ctx context.Context, opts ListOptions) ([]EstimateTemplate, error)

	AddItem(ctx context.Context, templateID string, req AddItemRequest) (*EstimateTemplate, error)
	UpdateItem(ctx context.Context, templateID, itemID string, req UpdateItemRequest) (*EstimateTemplate, error)
	RemoveItem(ctx context.Context, templateID, itemID string) (*EstimateTemplate, error)
}
