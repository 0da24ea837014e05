package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/movecrewlabs/movecrew/internal/catalog/domain"
	catalogrepo "github.com/movecrewlabs/movecrew/internal/catalog/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db  *gorm.DB
	svc domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ChargeCategory{}, &domain.ChargeDefinition{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  catalogrepo.NewRepository(),
	})
	return &fixture{db: db, svc: svc}
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func (f *fixture) category(t *testing.T, name string) *domain.ChargeCategory {
	t.Helper()
	cat, err := f.svc.CreateCategory(context.Background(), domain.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return cat
}

func TestCreateCategoryValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCategory(context.Background(), domain.CreateCategoryRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	cat := f.category(t, "Transportation")
	assert.True(t, cat.Active)
	assert.NotZero(t, cat.ID)
}

func TestCreateChargeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Fees")

	_, err := f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID: cat.ID.String(),
		Name:       "Bad Kind",
		Kind:       domain.ChargeKind("per_mile"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidChargeKind)

	_, err = f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID: "999999999",
		Name:       "Orphan",
		Kind:       domain.ChargeKindFlat,
	})
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestPercentBaseResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Fees")

	transport, err := f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:  cat.ID.String(),
		Name:        "Transportation",
		Kind:        domain.ChargeKindPerWeightUnit,
		DefaultRate: decPtr(t, "2.50"),
	})
	require.NoError(t, err)

	baseRef := transport.ID.String()
	fuel, err := f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:        cat.ID.String(),
		Name:              "Fuel Surcharge",
		Kind:              domain.ChargeKindPercentage,
		DefaultPercentage: decPtr(t, "10.0"),
		PercentAppliedOn:  &baseRef,
	})
	require.NoError(t, err)
	require.NotNil(t, fuel.PercentAppliedOnID)
	assert.Equal(t, transport.ID, *fuel.PercentAppliedOnID)

	// A base reference on a non-percentage charge is rejected.
	_, err = f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:       cat.ID.String(),
		Name:             "Crating",
		Kind:             domain.ChargeKindFlat,
		DefaultRate:      decPtr(t, "75.00"),
		PercentAppliedOn: &baseRef,
	})
	require.ErrorIs(t, err, domain.ErrInvalidPercentBase)

	// A dangling base reference is rejected.
	missing := "123456789012345"
	_, err = f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:       cat.ID.String(),
		Name:             "Admin Fee",
		Kind:             domain.ChargeKindPercentage,
		PercentAppliedOn: &missing,
	})
	require.ErrorIs(t, err, domain.ErrInvalidPercentBase)

	// Percentage charges may be created without a base; they price to zero
	// until one is configured.
	open, err := f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:        cat.ID.String(),
		Name:              "Seasonal Surcharge",
		Kind:              domain.ChargeKindPercentage,
		DefaultPercentage: decPtr(t, "5.0"),
	})
	require.NoError(t, err)
	assert.Nil(t, open.PercentAppliedOnID)
}

func TestListChargesByServiceType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Fees")

	_, err := f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:  cat.ID.String(),
		Name:        "Universal Fee",
		Kind:        domain.ChargeKindFlat,
		DefaultRate: decPtr(t, "10.00"),
	})
	require.NoError(t, err)

	_, err = f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:   cat.ID.String(),
		Name:         "Long Carry Fee",
		Kind:         domain.ChargeKindFlat,
		DefaultRate:  decPtr(t, "75.00"),
		ServiceTypes: []string{"long_distance_move"},
	})
	require.NoError(t, err)

	local, err := f.svc.ListCharges(ctx, domain.ListChargesOptions{ServiceType: "local_move"})
	require.NoError(t, err)
	require.Len(t, local, 1)
	assert.Equal(t, "Universal Fee", local[0].Name)

	longDist, err := f.svc.ListCharges(ctx, domain.ListChargesOptions{ServiceType: "long_distance_move"})
	require.NoError(t, err)
	assert.Len(t, longDist, 2)
}

func TestDeactivateCharge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.category(t, "Labor")

	charge, err := f.svc.CreateCharge(ctx, domain.CreateChargeRequest{
		CategoryID:  cat.ID.String(),
		Name:        "Packing Labor",
		Kind:        domain.ChargeKindPerHour,
		DefaultRate: decPtr(t, "50.00"),
	})
	require.NoError(t, err)

	deactivated, err := f.svc.DeactivateCharge(ctx, charge.ID.String())
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	active := true
	charges, err := f.svc.ListCharges(ctx, domain.ListChargesOptions{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, charges)
}

func TestChargeNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetCharge(ctx, "not-a-snowflake")
	require.ErrorIs(t, err, domain.ErrChargeNotFound)

	_, err = f.svc.UpdateCharge(ctx, "123456789012345", domain.UpdateChargeRequest{})
	require.ErrorIs(t, err, domain.ErrChargeNotFound)
}
