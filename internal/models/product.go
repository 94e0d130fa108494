package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog listing projection.
type Product struct {
	ID          int64
	Name        string
	Description string
	BasePrice   decimal.Decimal
	ImagePath   string
	CreatedAt   time.Time
}

// ProductDetail adds the variants and gallery a product page needs.
type ProductDetail struct {
	Product
	Variants []VariantSnapshot
	Images   []string
}

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the repository/service layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
	VerifyToken  string
	CreatedAt    time.Time
}
