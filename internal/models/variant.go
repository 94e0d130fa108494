package models

import "github.com/shopspring/decimal"

// VariantSnapshot is a read-only projection of a purchasable variant, fetched
// fresh from the catalog on every pricing pass so price and stock changes are
// picked up immediately. The cart itself only stores the variant id.
type VariantSnapshot struct {
	VariantID int64
	ProductID int64
	Name      string
	Size      string
	Color     string
	UnitPrice decimal.Decimal
	Stock     int
	ImagePath string
}
