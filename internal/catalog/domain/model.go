// Package domain contains the charge catalog models: charge categories and
// the reusable charge definitions estimates are priced from.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ChargeKind selects how a charge amount is computed.
type ChargeKind string

const (
	ChargeKindPerWeightUnit ChargeKind = "per_weight_unit"
	ChargeKindPerHour       ChargeKind = "per_hour"
	ChargeKindFlat          ChargeKind = "flat"
	ChargeKindPercentage    ChargeKind = "percentage"
)

func (k ChargeKind) Valid() bool {
	switch k {
	case ChargeKindPerWeightUnit, ChargeKindPerHour, ChargeKindFlat, ChargeKindPercentage:
		return true
	}
	return false
}

// ChargeCategory groups charge definitions (e.g. Transportation, Labor, Fees).
// Categories are never deleted while charges reference them; they are
// deactivated instead.
type ChargeCategory struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Active      bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (ChargeCategory) TableName() string { return "charge_categories" }

// ChargeDefinition is a reusable charge rule. Percentage-kind charges may
// reference another definition via PercentAppliedOnID; the referenced
// definition's computed amount on the same estimate forms the percentage
// base. The catalog does not enforce acyclicity of those references — the
// pricing engine resolves the dependency graph per estimate and rejects
// cycles at calculation time.
type ChargeDefinition struct {
	ID                 snowflake.ID                `gorm:"primaryKey" json:"id"`
	CategoryID         snowflake.ID                `gorm:"not null;index" json:"category_id"`
	Name               string                      `gorm:"type:text;not null" json:"name"`
	Kind               ChargeKind                  `gorm:"type:text;not null" json:"kind"`
	DefaultRate        *decimal.Decimal            `gorm:"type:decimal(10,2)" json:"default_rate,omitempty"`
	DefaultPercentage  *decimal.Decimal            `gorm:"type:decimal(5,2)" json:"default_percentage,omitempty"`
	PercentAppliedOnID *snowflake.ID               `gorm:"index" json:"percent_applied_on_id,omitempty"`
	ServiceTypes       datatypes.JSONSlice[string] `json:"service_types,omitempty"` // empty = all service types
	Required           bool                        `gorm:"not null;default:false" json:"required"`
	Active             bool                        `gorm:"not null;default:true" json:"active"`
	CreatedAt          time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"not null" json:"updated_at"`
}

func (ChargeDefinition) TableName() string { return "charge_definitions" }

// AppliesTo reports whether the charge is valid for the given service type.
// An empty applicability set means the charge is universal.
func (d *ChargeDefinition) AppliesTo(serviceType string) bool {
	if len(d.ServiceTypes) == 0 {
		return true
	}
	for _, st := range d.ServiceTypes {
		if st == serviceType {
			return true
		}
	}
	return false
}
