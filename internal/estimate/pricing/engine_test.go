package pricing

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	"github.com/movecrewlabs/movecrew/internal/estimate/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNode *snowflake.Node

func init() {
	var err error
	testNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func int64Ptr(v int64) *int64 { return &v }

func idPtr(id snowflake.ID) *snowflake.ID { return &id }

func item(chargeID snowflake.ID, kind catalogdomain.ChargeKind, order int) *domain.EstimateLineItem {
	return &domain.EstimateLineItem{
		ID:           testNode.Generate(),
		ChargeID:     idPtr(chargeID),
		ChargeName:   string(kind),
		Kind:         kind,
		Quantity:     decimal.NewFromInt(1),
		DisplayOrder: order,
	}
}

// Mirrors the seeded scenario: weight 1000, 5 labour hours, 8% tax, 10%
// discount, four line items including a fuel surcharge at 10% of
// transportation.
func TestCalculateFullScenario(t *testing.T) {
	est := &domain.Estimate{
		WeightLbs:     int64Ptr(1000),
		LabourHours:   decPtr("5"),
		DiscountType:  domain.DiscountPercent,
		DiscountValue: dec("10"),
	}

	transport := item(testNode.Generate(), catalogdomain.ChargeKindPerWeightUnit, 0)
	transport.Rate = decPtr("2.50")
	labour := item(testNode.Generate(), catalogdomain.ChargeKindPerHour, 1)
	labour.Rate = decPtr("50")
	packing := item(testNode.Generate(), catalogdomain.ChargeKindFlat, 2)
	packing.Rate = decPtr("100")
	packing.Quantity = dec("2")
	fuel := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 3)
	fuel.Percentage = decPtr("10")
	fuel.PercentAppliedOnID = transport.ChargeID

	items := []*domain.EstimateLineItem{transport, labour, packing, fuel}
	require.NoError(t, Calculate(est, items, dec("8")))

	assert.True(t, transport.Amount.Equal(dec("2500")), "transport amount %s", transport.Amount)
	assert.True(t, labour.Amount.Equal(dec("250")), "labour amount %s", labour.Amount)
	assert.True(t, packing.Amount.Equal(dec("200")), "packing amount %s", packing.Amount)
	assert.True(t, fuel.Amount.Equal(dec("250")), "fuel amount %s", fuel.Amount)

	assert.True(t, est.Subtotal.Equal(dec("3200")), "subtotal %s", est.Subtotal)
	assert.True(t, est.DiscountAmount.Equal(dec("320")), "discount %s", est.DiscountAmount)
	assert.True(t, est.TaxAmount.Equal(dec("230.40")), "tax %s", est.TaxAmount)
	assert.True(t, est.TotalAmount.Equal(dec("3110.40")), "total %s", est.TotalAmount)
	assert.True(t, est.TaxRateLocked)
	assert.True(t, est.TaxPercentage.Equal(dec("8")))

	// subtotal == sum of item amounts
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Amount)
	}
	assert.True(t, est.Subtotal.Equal(sum))

	// total == subtotal - discount + tax
	assert.True(t, est.TotalAmount.Equal(est.Subtotal.Sub(est.DiscountAmount).Add(est.TaxAmount)))
}

func TestCalculateIsIdempotent(t *testing.T) {
	est := &domain.Estimate{
		WeightLbs:     int64Ptr(1000),
		LabourHours:   decPtr("5"),
		DiscountType:  domain.DiscountPercent,
		DiscountValue: dec("10"),
	}
	transport := item(testNode.Generate(), catalogdomain.ChargeKindPerWeightUnit, 0)
	transport.Rate = decPtr("2.50")
	fuel := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 1)
	fuel.Percentage = decPtr("10")
	fuel.PercentAppliedOnID = transport.ChargeID
	items := []*domain.EstimateLineItem{transport, fuel}

	require.NoError(t, Calculate(est, items, dec("8")))
	first := *est
	firstFuel := fuel.Amount

	require.NoError(t, Calculate(est, items, dec("8")))
	assert.True(t, est.Subtotal.Equal(first.Subtotal))
	assert.True(t, est.DiscountAmount.Equal(first.DiscountAmount))
	assert.True(t, est.TaxAmount.Equal(first.TaxAmount))
	assert.True(t, est.TotalAmount.Equal(first.TotalAmount))
	assert.True(t, fuel.Amount.Equal(firstFuel))
}

func TestMissingWeightAndHoursPriceToZero(t *testing.T) {
	est := &domain.Estimate{DiscountType: domain.DiscountNone}
	perLb := item(testNode.Generate(), catalogdomain.ChargeKindPerWeightUnit, 0)
	perLb.Rate = decPtr("3")
	hourly := item(testNode.Generate(), catalogdomain.ChargeKindPerHour, 1)
	hourly.Rate = decPtr("80")

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{perLb, hourly}, decimal.Zero))
	assert.True(t, perLb.Amount.IsZero())
	assert.True(t, hourly.Amount.IsZero())
	assert.True(t, est.TotalAmount.IsZero())
}

func TestFlatChargeDefaultsQuantityToOne(t *testing.T) {
	est := &domain.Estimate{DiscountType: domain.DiscountNone}
	flat := item(testNode.Generate(), catalogdomain.ChargeKindFlat, 0)
	flat.Rate = decPtr("75")
	flat.Quantity = decimal.Zero

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{flat}, decimal.Zero))
	assert.True(t, flat.Amount.Equal(dec("75")))
}

func TestPercentageWithUnresolvedBaseIsZero(t *testing.T) {
	est := &domain.Estimate{DiscountType: domain.DiscountNone}

	noRef := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 0)
	noRef.Percentage = decPtr("15")

	absent := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 1)
	absent.Percentage = decPtr("15")
	absent.PercentAppliedOnID = idPtr(testNode.Generate()) // charge not on this estimate

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{noRef, absent}, decimal.Zero))
	assert.True(t, noRef.Amount.IsZero())
	assert.True(t, absent.Amount.IsZero())
}

// A percentage charge may chain off another percentage charge regardless of
// display order; the engine orders by dependency, not position.
func TestPercentOnPercentChaining(t *testing.T) {
	est := &domain.Estimate{WeightLbs: int64Ptr(100), DiscountType: domain.DiscountNone}

	transport := item(testNode.Generate(), catalogdomain.ChargeKindPerWeightUnit, 0)
	transport.Rate = decPtr("10") // 1000

	// Listed before its base on purpose.
	second := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 1)
	second.Percentage = decPtr("50")
	first := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 2)
	first.Percentage = decPtr("20")
	first.PercentAppliedOnID = transport.ChargeID // 200
	second.PercentAppliedOnID = first.ChargeID    // 100

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{transport, second, first}, decimal.Zero))
	assert.True(t, first.Amount.Equal(dec("200")), "first %s", first.Amount)
	assert.True(t, second.Amount.Equal(dec("100")), "second %s", second.Amount)
}

func TestCircularDependencyFails(t *testing.T) {
	est := &domain.Estimate{DiscountType: domain.DiscountNone}

	a := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 0)
	a.Percentage = decPtr("10")
	b := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 1)
	b.Percentage = decPtr("10")
	a.PercentAppliedOnID = b.ChargeID
	b.PercentAppliedOnID = a.ChargeID

	err := Calculate(est, []*domain.EstimateLineItem{a, b}, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrCircularChargeDependency)
}

func TestSelfReferenceFails(t *testing.T) {
	est := &domain.Estimate{DiscountType: domain.DiscountNone}
	a := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 0)
	a.Percentage = decPtr("10")
	a.PercentAppliedOnID = a.ChargeID

	err := Calculate(est, []*domain.EstimateLineItem{a}, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrCircularChargeDependency)
}

// Two line items sharing a charge definition: the later amount wins as the
// percentage base.
func TestDuplicateChargeLastValueWins(t *testing.T) {
	est := &domain.Estimate{DiscountType: domain.DiscountNone}
	chargeID := testNode.Generate()

	firstFlat := item(chargeID, catalogdomain.ChargeKindFlat, 0)
	firstFlat.Rate = decPtr("100")
	secondFlat := item(chargeID, catalogdomain.ChargeKindFlat, 1)
	secondFlat.Rate = decPtr("300")

	pct := item(testNode.Generate(), catalogdomain.ChargeKindPercentage, 2)
	pct.Percentage = decPtr("10")
	pct.PercentAppliedOnID = idPtr(chargeID)

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{firstFlat, secondFlat, pct}, decimal.Zero))
	assert.True(t, pct.Amount.Equal(dec("30")), "pct %s", pct.Amount)
}

func TestFlatDiscount(t *testing.T) {
	est := &domain.Estimate{
		DiscountType:  domain.DiscountFlat,
		DiscountValue: dec("50"),
	}
	flat := item(testNode.Generate(), catalogdomain.ChargeKindFlat, 0)
	flat.Rate = decPtr("500")

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{flat}, dec("10")))
	assert.True(t, est.DiscountAmount.Equal(dec("50")))
	assert.True(t, est.TaxAmount.Equal(dec("45"))) // (500-50) * 10%
	assert.True(t, est.TotalAmount.Equal(dec("495")))
}

func TestUnknownDiscountTypeIsZero(t *testing.T) {
	est := &domain.Estimate{
		DiscountType:  domain.DiscountType("mystery"),
		DiscountValue: dec("50"),
	}
	flat := item(testNode.Generate(), catalogdomain.ChargeKindFlat, 0)
	flat.Rate = decPtr("500")

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{flat}, decimal.Zero))
	assert.True(t, est.DiscountAmount.IsZero())
	assert.True(t, est.TotalAmount.Equal(dec("500")))
}

func TestLockedTaxRateSurvivesRecalculation(t *testing.T) {
	est := &domain.Estimate{
		DiscountType:  domain.DiscountNone,
		TaxPercentage: dec("0"),
		TaxRateLocked: true, // explicit 0% override
	}
	flat := item(testNode.Generate(), catalogdomain.ChargeKindFlat, 0)
	flat.Rate = decPtr("100")

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{flat}, dec("8")))
	assert.True(t, est.TaxPercentage.IsZero(), "locked zero rate must not be replaced by the branch rate")
	assert.True(t, est.TaxAmount.IsZero())
	assert.True(t, est.TotalAmount.Equal(dec("100")))
}

func TestBranchRateAppliedOnFirstCalculation(t *testing.T) {
	est := &domain.Estimate{DiscountType: domain.DiscountNone}
	flat := item(testNode.Generate(), catalogdomain.ChargeKindFlat, 0)
	flat.Rate = decPtr("100")

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{flat}, dec("7.5")))
	assert.True(t, est.TaxPercentage.Equal(dec("7.5")))
	assert.True(t, est.TaxRateLocked)
	assert.True(t, est.TaxAmount.Equal(dec("7.50")))

	// Later recalculations ignore a changed branch rate.
	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{flat}, dec("20")))
	assert.True(t, est.TaxPercentage.Equal(dec("7.5")))
}

func TestNilRatePricesToZero(t *testing.T) {
	est := &domain.Estimate{WeightLbs: int64Ptr(500), DiscountType: domain.DiscountNone}
	perLb := item(testNode.Generate(), catalogdomain.ChargeKindPerWeightUnit, 0)
	perLb.Rate = nil

	require.NoError(t, Calculate(est, []*domain.EstimateLineItem{perLb}, decimal.Zero))
	assert.True(t, perLb.Amount.IsZero())
}
