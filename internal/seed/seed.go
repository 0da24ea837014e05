// Package seed bootstraps the default branch, charge catalog, and estimate
// templates a fresh installation needs before the first estimate can be
// priced. All helpers are idempotent.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	branchdomain "github.com/movecrewlabs/movecrew/internal/branch/domain"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	templatedomain "github.com/movecrewlabs/movecrew/internal/template/domain"
)

const (
	defaultBranchName = "Main Branch"
	defaultBranchTax  = "8.0"

	serviceTypeLocal    = "local_move"
	serviceTypeLongDist = "long_distance_move"
)

type chargeSpec struct {
	category     string
	name         string
	kind         catalogdomain.ChargeKind
	rate         string
	percentage   string
	percentOf    string // name of the charge the percentage applies on
	serviceTypes []string
	required     bool
}

var defaultCategories = []catalogdomain.ChargeCategory{
	{Name: "Transportation", Description: "Weight and distance based haulage charges"},
	{Name: "Labor", Description: "Crew time charges"},
	{Name: "Materials", Description: "Packing supplies and materials"},
	{Name: "Fees", Description: "Surcharges and service fees"},
}

var defaultCharges = []chargeSpec{
	{category: "Transportation", name: "Transportation", kind: catalogdomain.ChargeKindPerWeightUnit, rate: "2.50", required: true},
	{category: "Labor", name: "Packing Labor", kind: catalogdomain.ChargeKindPerHour, rate: "50.00"},
	{category: "Materials", name: "Packing Materials", kind: catalogdomain.ChargeKindFlat, rate: "100.00"},
	{category: "Fees", name: "Fuel Surcharge", kind: catalogdomain.ChargeKindPercentage, percentage: "10.0", percentOf: "Transportation"},
	{category: "Fees", name: "Long Carry Fee", kind: catalogdomain.ChargeKindFlat, rate: "75.00", serviceTypes: []string{serviceTypeLongDist}},
}

// EnsureDefaults seeds the default branch, the charge catalog, and one
// estimate template per service type.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureBranch(ctx, tx, node); err != nil {
			return err
		}
		charges, err := ensureCatalog(ctx, tx, node)
		if err != nil {
			return err
		}
		for _, serviceType := range []string{serviceTypeLocal, serviceTypeLongDist} {
			if err := ensureTemplate(ctx, tx, node, serviceType, charges); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureBranch(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*branchdomain.Branch, error) {
	var branch branchdomain.Branch
	err := tx.WithContext(ctx).Where("name = ?", defaultBranchName).First(&branch).Error
	if err == nil {
		return &branch, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	branch = branchdomain.Branch{
		ID:                 node.Generate(),
		Name:               defaultBranchName,
		SalesTaxPercentage: decimal.RequireFromString(defaultBranchTax),
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := tx.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// ensureCatalog seeds categories and charge definitions, returning every
// definition keyed by name so templates and percentage references can
// resolve them.
func ensureCatalog(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (map[string]*catalogdomain.ChargeDefinition, error) {
	categories := make(map[string]snowflake.ID, len(defaultCategories))
	for _, spec := range defaultCategories {
		cat, err := ensureCategory(ctx, tx, node, spec)
		if err != nil {
			return nil, err
		}
		categories[cat.Name] = cat.ID
	}

	charges := make(map[string]*catalogdomain.ChargeDefinition, len(defaultCharges))
	for _, spec := range defaultCharges {
		var percentOf *snowflake.ID
		if spec.percentOf != "" {
			base, ok := charges[spec.percentOf]
			if !ok {
				return nil, errors.New("seed charge references unknown percentage base")
			}
			percentOf = &base.ID
		}
		charge, err := ensureCharge(ctx, tx, node, categories[spec.category], spec, percentOf)
		if err != nil {
			return nil, err
		}
		charges[charge.Name] = charge
	}
	return charges, nil
}

func ensureCategory(ctx context.Context, tx *gorm.DB, node *snowflake.Node, spec catalogdomain.ChargeCategory) (*catalogdomain.ChargeCategory, error) {
	var cat catalogdomain.ChargeCategory
	err := tx.WithContext(ctx).Where("name = ?", spec.Name).First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	cat = catalogdomain.ChargeCategory{
		ID:          node.Generate(),
		Name:        spec.Name,
		Description: spec.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func ensureCharge(ctx context.Context, tx *gorm.DB, node *snowflake.Node, categoryID snowflake.ID, spec chargeSpec, percentOf *snowflake.ID) (*catalogdomain.ChargeDefinition, error) {
	var charge catalogdomain.ChargeDefinition
	err := tx.WithContext(ctx).Where("name = ?", spec.name).First(&charge).Error
	if err == nil {
		return &charge, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	charge = catalogdomain.ChargeDefinition{
		ID:                 node.Generate(),
		CategoryID:         categoryID,
		Name:               spec.name,
		Kind:               spec.kind,
		PercentAppliedOnID: percentOf,
		Required:           spec.required,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if spec.rate != "" {
		rate := decimal.RequireFromString(spec.rate)
		charge.DefaultRate = &rate
	}
	if spec.percentage != "" {
		pct := decimal.RequireFromString(spec.percentage)
		charge.DefaultPercentage = &pct
	}
	if len(spec.serviceTypes) > 0 {
		charge.ServiceTypes = datatypes.NewJSONSlice(spec.serviceTypes)
	}
	if err := tx.WithContext(ctx).Create(&charge).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}

// ensureTemplate seeds one standard template per service type, attaching
// every catalog charge applicable to that service type.
func ensureTemplate(ctx context.Context, tx *gorm.DB, node *snowflake.Node, serviceType string, charges map[string]*catalogdomain.ChargeDefinition) error {
	code := slug.Make(serviceType + " standard")

	var tpl templatedomain.EstimateTemplate
	err := tx.WithContext(ctx).Where("code = ?", code).First(&tpl).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	tpl = templatedomain.EstimateTemplate{
		ID:          node.Generate(),
		Name:        "Standard",
		Code:        code,
		ServiceType: serviceType,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(&tpl).Error; err != nil {
		return err
	}

	order := 1
	for _, spec := range defaultCharges {
		charge := charges[spec.name]
		if charge == nil || !charge.AppliesTo(serviceType) {
			continue
		}
		item := templatedomain.TemplateLineItem{
			ID:           node.Generate(),
			TemplateID:   tpl.ID,
			ChargeID:     charge.ID,
			Editable:     true,
			DisplayOrder: order,
		}
		if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
			return err
		}
		order++
	}
	return nil
}
