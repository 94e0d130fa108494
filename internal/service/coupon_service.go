package service

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/leyenda/storefront/internal/models"
)

// CouponStore is the coupon data collaborator. FindActiveCoupon returns
// (nil, nil) when no coupon matches; DecrementUse must be a single atomic
// decrement-if-positive at the data layer so concurrent applies of a
// last-use coupon cannot both succeed.
type CouponStore interface {
	FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error)
	DecrementUse(ctx context.Context, code string) (bool, error)
}

// CouponService validates and consumes discount codes. Every rejection is
// the same generic ErrInvalidCoupon so callers cannot enumerate why a code
// failed.
type CouponService struct {
	store CouponStore
}

func NewCouponService(store CouponStore) *CouponService {
	return &CouponService{store: store}
}

// NormalizeCode trims whitespace and uppercases a user-supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Apply validates code against availability, expiry, remaining uses and the
// minimum-purchase floor, then consumes one use. The returned coupon is what
// the caller stores in the session as "applied".
func (s *CouponService) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*models.Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, models.ErrInvalidCoupon
	}

	c, err := s.store.FindActiveCoupon(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "find coupon")
	}
	if c == nil {
		return nil, models.ErrInvalidCoupon
	}
	if subtotal.LessThan(c.MinPurchase) {
		return nil, models.ErrInvalidCoupon
	}

	ok, err := s.store.DecrementUse(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "consume coupon use")
	}
	if !ok {
		// Lost the race for the last use.
		return nil, models.ErrInvalidCoupon
	}

	return c, nil
}
