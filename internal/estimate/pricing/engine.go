// Package pricing implements the estimate pricing engine: a two-phase pass
// over an estimate's line items followed by discount and tax aggregation.
// The computation is pure and deterministic; persistence stays with the
// caller, which is expected to run Calculate inside the same transaction as
// the line-item mutation that triggered it.
package pricing

import (
	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/movecrewlabs/movecrew/internal/catalog/domain"
	"github.com/movecrewlabs/movecrew/internal/estimate/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculate recomputes every line item amount and the estimate's four
// aggregate fields in place. branchTaxRate seeds the tax percentage the
// first time an estimate is priced; once locked, the stored rate is reused
// so a manual override (including an explicit 0%) survives recalculation.
//
// Missing inputs never fail the calculation: an unset weight, labour hours
// or percentage base simply contributes zero. The only hard failure is a
// cycle among percentage charges, which returns
// domain.ErrCircularChargeDependency without partial results.
func Calculate(est *domain.Estimate, items []*domain.EstimateLineItem, branchTaxRate decimal.Decimal) error {
	// Base table of computed amounts keyed by originating charge id. When
	// two items share a definition the last amount wins; percentage bases
	// are a single value, not a sum.
	base := make(map[snowflake.ID]decimal.Decimal, len(items))

	var percentItems []*domain.EstimateLineItem
	for _, item := range items {
		if item.Kind == catalogdomain.ChargeKindPercentage {
			percentItems = append(percentItems, item)
			continue
		}
		item.Amount = directAmount(est, item)
		if item.ChargeID != nil {
			base[*item.ChargeID] = item.Amount
		}
	}

	if err := resolvePercentages(percentItems, base); err != nil {
		return err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}

	discount := decimal.Zero
	switch est.DiscountType {
	case domain.DiscountFlat:
		discount = est.DiscountValue.Round(2)
	case domain.DiscountPercent:
		discount = subtotal.Mul(est.DiscountValue).Div(hundred).Round(2)
	}
	// Unknown discount types fall through as zero.

	if !est.TaxRateLocked {
		est.TaxPercentage = branchTaxRate
		est.TaxRateLocked = true
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(est.TaxPercentage).Div(hundred).Round(2)

	est.Subtotal = subtotal
	est.DiscountAmount = discount
	est.TaxAmount = tax
	est.TotalAmount = taxable.Add(tax)
	return nil
}

func directAmount(est *domain.Estimate, item *domain.EstimateLineItem) decimal.Decimal {
	rate := decimal.Zero
	if item.Rate != nil {
		rate = *item.Rate
	}

	switch item.Kind {
	case catalogdomain.ChargeKindPerWeightUnit:
		if est.WeightLbs == nil {
			return decimal.Zero
		}
		return rate.Mul(decimal.NewFromInt(*est.WeightLbs)).Round(2)
	case catalogdomain.ChargeKindPerHour:
		if est.LabourHours == nil {
			return decimal.Zero
		}
		return rate.Mul(*est.LabourHours).Round(2)
	case catalogdomain.ChargeKindFlat:
		qty := item.Quantity
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		return rate.Mul(qty).Round(2)
	}
	// Unknown kinds price to zero rather than failing the quote.
	return decimal.Zero
}

// resolvePercentages evaluates percentage items in dependency order. An item
// whose base is another percentage charge waits until that charge has been
// computed, which allows percent-on-percent chaining at any depth. Display
// order breaks ties among independent items, so the pass stays stable and
// idempotent.
func resolvePercentages(items []*domain.EstimateLineItem, base map[snowflake.ID]decimal.Decimal) error {
	// Charge ids still awaiting computation in this pass. A base lookup
	// against one of these must wait; a lookup against anything else reads
	// the base table immediately (missing entries resolve to zero).
	pending := make(map[snowflake.ID]int, len(items))
	for _, item := range items {
		if item.ChargeID != nil {
			pending[*item.ChargeID]++
		}
	}

	done := make([]bool, len(items))
	remaining := len(items)
	for remaining > 0 {
		progressed := false
		for i, item := range items {
			if done[i] {
				continue
			}
			// A self-referencing item keeps its own charge id pending and
			// is reported as a cycle once the pass stops progressing.
			if item.PercentAppliedOnID != nil && pending[*item.PercentAppliedOnID] > 0 {
				continue
			}

			amount := decimal.Zero
			if item.PercentAppliedOnID != nil {
				if b, ok := base[*item.PercentAppliedOnID]; ok {
					pct := decimal.Zero
					if item.Percentage != nil {
						pct = *item.Percentage
					}
					amount = b.Mul(pct).Div(hundred).Round(2)
				}
			}
			item.Amount = amount
			if item.ChargeID != nil {
				base[*item.ChargeID] = item.Amount
				pending[*item.ChargeID]--
			}
			done[i] = true
			remaining--
			progressed = true
		}
		if !progressed {
			return domain.ErrCircularChargeDependency
		}
	}
	return nil
}
