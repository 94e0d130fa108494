package service

import (
	"github.com/shopspring/decimal"

	"github.com/leyenda/storefront/internal/models"
)

// TotalsConfig carries the shipping rule knobs. The zero value is unusable;
// use DefaultTotalsConfig or load from config.
type TotalsConfig struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

func DefaultTotalsConfig() TotalsConfig {
	return TotalsConfig{
		FreeShippingThreshold: decimal.NewFromFloat(50.00),
		FlatShippingFee:       decimal.NewFromFloat(5.99),
	}
}

// CalculateTotals aggregates priced items, an optional coupon and the
// shipping rule into final totals. Pure, no I/O, no failure modes: an empty
// cart yields all-zero totals. Every step is rounded to 2 decimal places to
// match currency display.
func CalculateTotals(items []models.PricedItem, coupon *models.Coupon, cfg TotalsConfig) models.Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	subtotal = subtotal.Round(2)

	discount := Discount(coupon, subtotal)

	afterDiscount := subtotal.Sub(discount)
	if afterDiscount.IsNegative() {
		afterDiscount = decimal.Zero
	}

	// An empty cart ships nothing; otherwise the flat fee is waived once the
	// discounted subtotal reaches the threshold (boundary inclusive).
	shipping := decimal.Zero
	if len(items) > 0 && afterDiscount.LessThan(cfg.FreeShippingThreshold) {
		shipping = cfg.FlatShippingFee
	}

	return models.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    afterDiscount.Add(shipping).Round(2),
	}
}

// Discount computes the coupon's discount against a subtotal: percent takes
// value% of the subtotal, fixed is capped at the subtotal so totals never go
// negative. A nil coupon discounts nothing.
func Discount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	switch coupon.Kind {
	case models.DiscountPercent:
		return subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100)).Round(2)
	case models.DiscountFixed:
		if coupon.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return coupon.Value.Round(2)
	default:
		return decimal.Zero
	}
}
