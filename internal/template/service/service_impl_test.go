package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	catalogrepo "github.com/movecrewlabs/movecrew/internal/catalog/repository"
	"github.com/movecrewlabs/movecrew/internal/template/domain"
	templaterepo "github.com/movecrewlabs/movecrew/internal/template/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service

	transport catalogdomain.ChargeDefinition
	labour    catalogdomain.ChargeDefinition
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.ChargeCategory{},
		&catalogdomain.ChargeDefinition{},
		&domain.EstimateTemplate{},
		&domain.TemplateLineItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        templaterepo.NewRepository(),
		CatalogRepo: catalogrepo.NewRepository(),
	})

	f := &fixture{db: db, node: node, svc: svc}
	f.seedCatalog(t)
	return f
}

func (f *fixture) seedCatalog(t *testing.T) {
	t.Helper()

	category := catalogdomain.ChargeCategory{ID: f.node.Generate(), Name: "Transportation", Active: true}
	require.NoError(t, f.db.Create(&category).Error)

	f.transport = catalogdomain.ChargeDefinition{
		ID:          f.node.Generate(),
		CategoryID:  category.ID,
		Name:        "Transportation",
		Kind:        catalogdomain.ChargeKindPerWeightUnit,
		DefaultRate: decPtr(t, "2.50"),
		Active:      true,
	}
	require.NoError(t, f.db.Create(&f.transport).Error)

	f.labour = catalogdomain.ChargeDefinition{
		ID:          f.node.Generate(),
		CategoryID:  category.ID,
		Name:        "Packing Labor",
		Kind:        catalogdomain.ChargeKindPerHour,
		DefaultRate: decPtr(t, "50.00"),
		Active:      true,
	}
	require.NoError(t, f.db.Create(&f.labour).Error)
}

func (f *fixture) template(t *testing.T) *domain.EstimateTemplate {
	t.Helper()
	tpl, err := f.svc.Create(context.Background(), domain.CreateTemplateRequest{
		Name:        "Standard",
		ServiceType: "local",
	})
	require.NoError(t, err)
	return tpl
}

func TestCreateTemplate(t *testing.T) {
	f := newFixture(t)

	tpl := f.template(t)
	assert.Equal(t, "local-standard", tpl.Code)
	assert.True(t, tpl.Active)

	_, err := f.svc.Create(context.Background(), domain.CreateTemplateRequest{Name: "", ServiceType: "local"})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestAddItemAssignsDisplayOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.template(t)

	tpl, err := f.svc.AddItem(ctx, tpl.ID.String(), domain.AddItemRequest{ChargeID: f.transport.ID.String()})
	require.NoError(t, err)
	require.Len(t, tpl.Items, 1)
	assert.Equal(t, 0, tpl.Items[0].DisplayOrder)

	tpl, err = f.svc.AddItem(ctx, tpl.ID.String(), domain.AddItemRequest{
		ChargeID:     f.labour.ID.String(),
		RateOverride: decPtr(t, "60.00"),
	})
	require.NoError(t, err)
	require.Len(t, tpl.Items, 2)
	assert.Equal(t, 1, tpl.Items[1].DisplayOrder)
	require.NotNil(t, tpl.Items[1].RateOverride)
	assert.True(t, tpl.Items[1].RateOverride.Equal(decimal.RequireFromString("60.00")))
}

func TestAddItemRejectsDuplicateCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.template(t)

	_, err := f.svc.AddItem(ctx, tpl.ID.String(), domain.AddItemRequest{ChargeID: f.transport.ID.String()})
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, tpl.ID.String(), domain.AddItemRequest{ChargeID: f.transport.ID.String()})
	require.ErrorIs(t, err, domain.ErrDuplicateCharge)
}

func TestAddItemUnknownCharge(t *testing.T) {
	f := newFixture(t)
	tpl := f.template(t)

	_, err := f.svc.AddItem(context.Background(), tpl.ID.String(), domain.AddItemRequest{ChargeID: "123456789012345"})
	require.ErrorIs(t, err, catalogdomain.ErrChargeNotFound)
}

func TestUpdateAndRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl := f.template(t)

	tpl, err := f.svc.AddItem(ctx, tpl.ID.String(), domain.AddItemRequest{ChargeID: f.transport.ID.String()})
	require.NoError(t, err)
	itemID := tpl.Items[0].ID.String()

	notEditable := false
	tpl, err = f.svc.UpdateItem(ctx, tpl.ID.String(), itemID, domain.UpdateItemRequest{
		RateOverride: decPtr(t, "3.00"),
		Editable:     &notEditable,
	})
	require.NoError(t, err)
	require.NotNil(t, tpl.Items[0].RateOverride)
	assert.True(t, tpl.Items[0].RateOverride.Equal(decimal.RequireFromString("3.00")))
	assert.False(t, tpl.Items[0].Editable)

	tpl, err = f.svc.RemoveItem(ctx, tpl.ID.String(), itemID)
	require.NoError(t, err)
	assert.Empty(t, tpl.Items)

	_, err = f.svc.RemoveItem(ctx, tpl.ID.String(), itemID)
	require.ErrorIs(t, err, domain.ErrTemplateItemNotFound)
}

func TestListTemplatesByServiceType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateTemplateRequest{Name: "Standard", ServiceType: "local"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.CreateTemplateRequest{Name: "Standard", ServiceType: "long_distance"})
	require.NoError(t, err)

	local, err := f.svc.List(ctx, domain.ListOptions{ServiceType: "local"})
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, "local", local[0].ServiceType)
}
