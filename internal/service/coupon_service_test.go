package service_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/leyenda/storefront/internal/models"
	"github.com/leyenda/storefront/internal/service"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", service.NormalizeCode("  save10 "))
	assert.Equal(t, "SAVE10", service.NormalizeCode("SAVE10"))
	assert.Equal(t, "", service.NormalizeCode("   "))
}

func TestCouponService_Apply(t *testing.T) {
	ctx := context.Background()
	subtotal := decimal.RequireFromString("100.00")

	t.Run("unknown code -> generic invalid", func(t *testing.T) {
		svc := service.NewCouponService(newFakeCouponStore())
		_, err := svc.Apply(ctx, "NOPE", subtotal)
		assert.ErrorIs(t, err, models.ErrInvalidCoupon)
	})

	t.Run("empty code -> generic invalid", func(t *testing.T) {
		svc := service.NewCouponService(newFakeCouponStore())
		_, err := svc.Apply(ctx, "   ", subtotal)
		assert.ErrorIs(t, err, models.ErrInvalidCoupon)
	})

	t.Run("code is normalized before lookup", func(t *testing.T) {
		store := newFakeCouponStore(percentCoupon("SAVE10", "10", nil))
		svc := service.NewCouponService(store)

		c, err := svc.Apply(ctx, "  save10 ", subtotal)
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", c.Code)
	})

	t.Run("below minimum purchase -> generic invalid", func(t *testing.T) {
		c := percentCoupon("SAVE10", "10", nil)
		c.MinPurchase = decimal.RequireFromString("200.00")
		svc := service.NewCouponService(newFakeCouponStore(c))

		_, err := svc.Apply(ctx, "SAVE10", subtotal)
		assert.ErrorIs(t, err, models.ErrInvalidCoupon)
	})

	t.Run("successful apply consumes exactly one use", func(t *testing.T) {
		c := percentCoupon("SAVE10", "10", intPtr(3))
		store := newFakeCouponStore(c)
		svc := service.NewCouponService(store)

		_, err := svc.Apply(ctx, "SAVE10", subtotal)
		require.NoError(t, err)
		assert.Equal(t, 2, *store.coupons["SAVE10"].UsesLeft)
	})

	t.Run("exhausted coupon -> generic invalid", func(t *testing.T) {
		c := percentCoupon("SAVE10", "10", intPtr(0))
		svc := service.NewCouponService(newFakeCouponStore(c))

		_, err := svc.Apply(ctx, "SAVE10", subtotal)
		assert.ErrorIs(t, err, models.ErrInvalidCoupon)
	})

	t.Run("unlimited coupon applies repeatedly", func(t *testing.T) {
		svc := service.NewCouponService(newFakeCouponStore(percentCoupon("SAVE10", "10", nil)))

		for i := 0; i < 5; i++ {
			_, err := svc.Apply(ctx, "SAVE10", subtotal)
			require.NoError(t, err)
		}
	})
}

func TestCouponService_ConcurrentLastUse(t *testing.T) {
	ctx := context.Background()
	store := newFakeCouponStore(percentCoupon("LAST", "10", intPtr(1)))
	svc := service.NewCouponService(store)

	const n = 20
	var succeeded atomic.Int32

	g := new(errgroup.Group)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := svc.Apply(ctx, "LAST", decimal.RequireFromString("100.00"))
			if err == nil {
				succeeded.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load(), "a single-use coupon must be redeemed exactly once")
	assert.Equal(t, 0, *store.coupons["LAST"].UsesLeft)
}

func TestFacade_CouponLifecycle(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "100.00", 10))
	store := newFakeCouponStore(
		percentCoupon("SAVE10", "10", intPtr(5)),
		percentCoupon("SAVE20", "20", intPtr(5)),
	)
	facade := newFacade(inv, store)
	sess := newSession()

	_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 1})
	require.NoError(t, err)

	view, err := facade.ApplyCoupon(ctx, sess, "save10")
	require.NoError(t, err)
	assert.Equal(t, "10.00", view.Totals.Discount.StringFixed(2))

	t.Run("replacing a coupon does not restore the old one's uses", func(t *testing.T) {
		view, err := facade.ApplyCoupon(ctx, sess, "SAVE20")
		require.NoError(t, err)
		assert.Equal(t, "20.00", view.Totals.Discount.StringFixed(2))

		// SAVE10's consumed use stays consumed
		assert.Equal(t, 4, *store.coupons["SAVE10"].UsesLeft)
		assert.Equal(t, 4, *store.coupons["SAVE20"].UsesLeft)
	})

	t.Run("clearing detaches without restoring", func(t *testing.T) {
		view, err := facade.ClearCoupon(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, "0.00", view.Totals.Discount.StringFixed(2))
		assert.Equal(t, 4, *store.coupons["SAVE20"].UsesLeft)
	})
}

func TestFacade_ExpiredCouponIndistinguishable(t *testing.T) {
	// The store contract only ever returns active coupons, so an expired
	// code fails exactly like an unknown one.
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "100.00", 10))
	facade := newFacade(inv, newFakeCouponStore())
	sess := newSession()

	_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 1})
	require.NoError(t, err)

	_, err = facade.ApplyCoupon(ctx, sess, "OLD")
	assert.ErrorIs(t, err, models.ErrInvalidCoupon)
}
