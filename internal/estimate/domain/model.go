// Package domain contains the estimate aggregate: the priced quote, its
// materialized line items, and the status lifecycle.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type EstimateStatus string

const (
	StatusDraft     EstimateStatus = "draft"
	StatusSent      EstimateStatus = "sent"
	StatusApproved  EstimateStatus = "approved"
	StatusWorkOrder EstimateStatus = "work_order"
	StatusInvoiced  EstimateStatus = "invoiced"
	StatusRejected  EstimateStatus = "rejected"
)

var transitions = map[EstimateStatus][]EstimateStatus{
	StatusDraft:     {StatusSent, StatusRejected},
	StatusSent:      {StatusApproved, StatusRejected},
	StatusApproved:  {StatusWorkOrder},
	StatusWorkOrder: {StatusInvoiced},
	StatusInvoiced:  {},
	StatusRejected:  {},
}

// CanTransitionTo reports whether target is a legal next status.
func (s EstimateStatus) CanTransitionTo(target EstimateStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Editable reports whether line items and pricing inputs may still change.
// Amounts are frozen for downstream invoicing once the customer approves.
func (s EstimateStatus) Editable() bool {
	return s == StatusDraft || s == StatusSent
}

type DiscountType string

const (
	DiscountNone    DiscountType = "none"
	DiscountFlat    DiscountType = "flat"
	DiscountPercent DiscountType = "percent"
)

// Estimate is a customer quote. Subtotal, DiscountAmount, TaxAmount and
// TotalAmount are derived by the pricing engine and never written directly
// by callers; TotalAmount = Subtotal - DiscountAmount + TaxAmount holds
// after every successful calculation.
type Estimate struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	TemplateID  *snowflake.ID `gorm:"index" json:"template_id,omitempty"`
	ServiceType string        `gorm:"type:text;not null" json:"service_type"`

	WeightLbs   *int64           `json:"weight_lbs,omitempty"`
	LabourHours *decimal.Decimal `gorm:"type:decimal(10,2)" json:"labour_hours,omitempty"`

	PickupDateFrom   *time.Time `json:"pickup_date_from,omitempty"`
	PickupDateTo     *time.Time `json:"pickup_date_to,omitempty"`
	DeliveryDateFrom *time.Time `json:"delivery_date_from,omitempty"`
	DeliveryDateTo   *time.Time `json:"delivery_date_to,omitempty"`

	DiscountType  DiscountType    `gorm:"type:text;not null;default:'none'" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_value"`

	// TaxPercentage is copied from the customer's branch the first time the
	// estimate is priced, then locked so manual overrides (including an
	// explicit 0%) survive recalculation.
	TaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_percentage"`
	TaxRateLocked bool            `gorm:"not null;default:false" json:"tax_rate_locked"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`

	Status EstimateStatus `gorm:"type:text;not null;default:'draft';index" json:"status"`

	PublicToken         string     `gorm:"type:text;uniqueIndex" json:"public_token,omitempty"`
	EmailSentAt         *time.Time `json:"email_sent_at,omitempty"`
	CustomerRespondedAt *time.Time `json:"customer_responded_at,omitempty"`

	Notes     string            `gorm:"type:text" json:"notes,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`

	Items []EstimateLineItem `gorm:"-" json:"items,omitempty"`
}

func (Estimate) TableName() string { return "estimates" }

// EstimateLineItem is an estimate-owned copy of a charge. Kind, name, rate,
// percentage and the percentage base reference are materialized at creation
// so later catalog edits never retroactively change a quoted estimate.
type EstimateLineItem struct {
	ID                 snowflake.ID  `gorm:"primaryKey" json:"id"`
	EstimateID         snowflake.ID  `gorm:"not null;index" json:"estimate_id"`
	ChargeID           *snowflake.ID `gorm:"index" json:"charge_id,omitempty"`
	PercentAppliedOnID *snowflake.ID `json:"percent_applied_on_id,omitempty"`

	ChargeName string                   `gorm:"type:text;not null" json:"charge_name"`
	Kind       catalogdomain.ChargeKind `gorm:"type:text;not null" json:"kind"`

	Rate       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"rate,omitempty"`
	Percentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage,omitempty"`
	Quantity   decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:1" json:"quantity"`

	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`

	UserModified bool `gorm:"not null;default:false" json:"user_modified"`
	DisplayOrder int  `gorm:"not null;default:0" json:"display_order"`
}

func (EstimateLineItem) TableName() string { return "estimate_line_items" }
