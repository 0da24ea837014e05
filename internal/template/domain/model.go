// Package domain contains estimate template models. A template is a named,
// ordered preset of catalog charges used to seed new estimates for one
// service type; it is never referenced again after instantiation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type EstimateTemplate struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Code        string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
	ServiceType string       `gorm:"type:text;not null;index" json:"service_type"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`

	Items []TemplateLineItem `gorm:"-" json:"items,omitempty"`
}

func (EstimateTemplate) TableName() string { return "estimate_templates" }

// TemplateLineItem selects one catalog charge for a template, optionally
// overriding the charge's default rate or percentage.
type TemplateLineItem struct {
	ID                 snowflake.ID     `gorm:"primaryKey" json:"id"`
	TemplateID         snowflake.ID     `gorm:"not null;index:idx_template_charge,unique" json:"template_id"`
	ChargeID           snowflake.ID     `gorm:"not null;index:idx_template_charge,unique" json:"charge_id"`
	RateOverride       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"rate_override,omitempty"`
	PercentageOverride *decimal.Decimal `gorm:"type:decimal(5,2)" json:"percentage_override,omitempty"`
	Editable           bool             `gorm:"not null;default:true" json:"editable"`
	DisplayOrder       int              `gorm:"not null;default:0" json:"display_order"`
}

func (TemplateLineItem) TableName() string { return "template_line_items" }
