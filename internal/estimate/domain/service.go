package domain

import (
	"context"
	"errors"
	"time"

	"github.com/movecrewlabs/movecrew/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

var (
	ErrEstimateNotFound         = errors.New("estimate_not_found")
	ErrLineItemNotFound         = errors.New("estimate_line_item_not_found")
	ErrEstimateLocked           = errors.New("estimate_locked")
	ErrInvalidStatusTransition  = errors.New("invalid_status_transition")
	ErrInvalidRequest           = errors.New("invalid_request")
	ErrCircularChargeDependency = errors.New("circular_charge_dependency")
)

// ScalarInputs are the estimate fields the pricing engine consumes besides
// the line items themselves.
type ScalarInputs struct {
	WeightLbs        *int64           `json:"weight_lbs,omitempty"`
	LabourHours      *decimal.Decimal `json:"labour_hours,omitempty"`
	PickupDateFrom   *time.Time       `json:"pickup_date_from,omitempty"`
	PickupDateTo     *time.Time       `json:"pickup_date_to,omitempty"`
	DeliveryDateFrom *time.Time       `json:"delivery_date_from,omitempty"`
	DeliveryDateTo   *time.Time       `json:"delivery_date_to,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

type CreateFromTemplateRequest struct {
	TemplateID string       `json:"template_id"`
	CustomerID string       `json:"customer_id"`
	Inputs     ScalarInputs `json:"inputs"`
}

type CreateBlankRequest struct {
	CustomerID  string       `json:"customer_id"`
	ServiceType string       `json:"service_type"`
	Inputs      ScalarInputs `json:"inputs"`
}

// UpdateInputsRequest patches pricing inputs. Setting TaxPercentage locks the
// tax rate so the override survives later recalculations.
type UpdateInputsRequest struct {
	WeightLbs        *int64           `json:"weight_lbs,omitempty"`
	LabourHours      *decimal.Decimal `json:"labour_hours,omitempty"`
	PickupDateFrom   *time.Time       `json:"pickup_date_from,omitempty"`
	PickupDateTo     *time.Time       `json:"pickup_date_to,omitempty"`
	DeliveryDateFrom *time.Time       `json:"delivery_date_from,omitempty"`
	DeliveryDateTo   *time.Time       `json:"delivery_date_to,omitempty"`
	DiscountType     *DiscountType    `json:"discount_type,omitempty"`
	DiscountValue    *decimal.Decimal `json:"discount_value,omitempty"`
	TaxPercentage    *decimal.Decimal `json:"tax_percentage,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

// AddLineItemRequest adds a charge to an estimate, either materialized from a
// catalog definition (ChargeID set) or fully ad hoc.
type AddLineItemRequest struct {
	ChargeID         *string          `json:"charge_id,omitempty"`
	Name             string           `json:"name,omitempty"`
	Kind             string           `json:"kind,omitempty"`
	Rate             *decimal.Decimal `json:"rate,omitempty"`
	Percentage       *decimal.Decimal `json:"percentage,omitempty"`
	Quantity         *decimal.Decimal `json:"quantity,omitempty"`
	PercentAppliedOn *string          `json:"percent_applied_on,omitempty"`
}

type UpdateLineItemRequest struct {
	Name       *string          `json:"name,omitempty"`
	Rate       *decimal.Decimal `json:"rate,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
}

type ListRequest struct {
	CustomerID string
	Status     *EstimateStatus
	PageToken  string
	PageSize   int32
}

type ListResponse struct {
	PageInfo  pagination.PageInfo `json:"page_info"`
	Estimates []Estimate          `json:"estimates"`
}

type Service interface {
	CreateFromTemplate(ctx context.Context, req CreateFromTemplateRequest) (*Estimate, error)
	CreateBlank(ctx context.Context, req CreateBlankRequest) (*Estimate, error)
	Get(ctx context.Context, id string) (*Estimate, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)

	UpdateInputs(ctx context.Context, id string, req UpdateInputsRequest) (*Estimate, error)
	Calculate(ctx context.Context, id string) (*Estimate, error)

	AddLineItem(ctx context.Context, id string, req AddLineItemRequest) (*Estimate, error)
	UpdateLineItem(ctx context.Context, id, itemID string, req UpdateLineItemRequest) (*Estimate, error)
	RemoveLineItem(ctx context.Context, id, itemID string) (*Estimate, error)

	MarkSent(ctx context.Context, id string) (*Estimate, error)
	CustomerApprove(ctx context.Context, id string) (*Estimate, error)
	CustomerReject(ctx context.Context, id string) (*Estimate, error)
	ConvertToWorkOrder(ctx context.Context, id string) (*Estimate, error)
	MarkInvoiced(ctx context.Context, id string) (*Estimate, error)
}
