package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind enumerates the supported coupon discount strategies.
type DiscountKind string

const (
	// DiscountPercent applies a percentage of the subtotal.
	DiscountPercent DiscountKind = "percent"
	// DiscountFixed subtracts a fixed amount, capped at the subtotal.
	DiscountFixed DiscountKind = "fixed"
)

// Coupon is a discount code. ExpiresAt nil means it never expires; UsesLeft
// nil means unlimited redemptions.
type Coupon struct {
	ID          int64
	Code        string
	Kind        DiscountKind
	Value       decimal.Decimal
	ExpiresAt   *time.Time
	UsesLeft    *int
	MinPurchase decimal.Decimal
}
