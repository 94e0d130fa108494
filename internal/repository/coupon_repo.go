package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/leyenda/storefront/internal/models"
)

// CouponRepo reads and consumes coupon codes. Codes are stored uppercase.
type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

// FindActiveCoupon returns the coupon for code if it has not expired and has
// uses left. Absent or inactive codes return (nil, nil).
func (r *CouponRepo) FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon

	query := `
		SELECT id, code, kind, value, expires_at, uses_left, min_purchase
		FROM coupons
		WHERE code = $1
		  AND (expires_at IS NULL OR expires_at > NOW())
		  AND (uses_left IS NULL OR uses_left > 0)
	`

	var expiresAt sql.NullTime
	var usesLeft sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.Kind,
		&c.Value,
		&expiresAt,
		&usesLeft,
		&c.MinPurchase,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	if usesLeft.Valid {
		n := int(usesLeft.Int64)
		c.UsesLeft = &n
	}
	return &c, nil
}

// DecrementUse consumes one use of code in a single conditional UPDATE, so a
// limited-use coupon can never be over-redeemed by concurrent applies.
// Unlimited coupons (uses_left NULL) are left untouched but still match.
func (r *CouponRepo) DecrementUse(ctx context.Context, code string) (bool, error) {
	query := `
		UPDATE coupons
		SET uses_left = CASE WHEN uses_left IS NULL THEN NULL ELSE uses_left - 1 END
		WHERE code = $1
		  AND (uses_left IS NULL OR uses_left > 0)
		  AND (expires_at IS NULL OR expires_at > NOW())
	`

	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
