package service_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/leyenda/storefront/internal/models"
	"github.com/leyenda/storefront/internal/service"
)

func TestFacade_Perform(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "19.99", 10), variant(2, "5.00", 10))
	facade := newFacade(inv, newFakeCouponStore())

	t.Run("add returns the post-mutation view in one call", func(t *testing.T) {
		sess := newSession()
		view, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 2})
		require.NoError(t, err)

		require.Len(t, view.Items, 1)
		assert.Equal(t, "39.98", view.Totals.Subtotal.StringFixed(2))
		assert.Equal(t, "5.99", view.Totals.Shipping.StringFixed(2))
		assert.Equal(t, 2, view.Count)
	})

	t.Run("failed mutation leaves the cart untouched", func(t *testing.T) {
		sess := newSession()
		_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 2})
		require.NoError(t, err)

		_, err = facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 100})
		assert.ErrorIs(t, err, models.ErrInsufficientStock)

		assert.Equal(t, 2, facade.ItemCount(sess))
	})

	t.Run("unknown action -> validation", func(t *testing.T) {
		sess := newSession()
		_, err := facade.Perform(ctx, sess, service.CartRequest{Action: "checkout"})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("clear empties cart and zeroes totals", func(t *testing.T) {
		sess := newSession()
		_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 2})
		require.NoError(t, err)

		view, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionClear})
		require.NoError(t, err)
		assert.Empty(t, view.Items)
		assert.Equal(t, "0.00", view.Totals.Total.StringFixed(2))
		assert.Equal(t, 0, view.Count)
	})

	t.Run("add quantity below 1 clamps to 1", func(t *testing.T) {
		sess := newSession()
		view, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 2, Quantity: -3})
		require.NoError(t, err)
		assert.Equal(t, 1, view.Count)
	})
}

func TestFacade_SnapshotIdempotent(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "19.99", 10))
	facade := newFacade(inv, newFakeCouponStore())
	sess := newSession()

	_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 3})
	require.NoError(t, err)

	first, err := facade.Snapshot(ctx, sess)
	require.NoError(t, err)
	second, err := facade.Snapshot(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, first.Totals.Subtotal.StringFixed(2), second.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, first.Totals.Total.StringFixed(2), second.Totals.Total.StringFixed(2))
	assert.Equal(t, first.Count, second.Count)
	assert.Equal(t, len(first.Items), len(second.Items))
}

func TestFacade_SnapshotDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "10.00", 10))
	facade := newFacade(inv, newFakeCouponStore())
	sess := newSession()

	_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 5})
	require.NoError(t, err)

	// stock collapses under the stored quantity; snapshots clamp the view
	// but never rewrite the cart
	inv.setStock(1, 2)

	view, err := facade.Snapshot(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].EffectiveQuantity)

	qty, _ := sess.Cart().Quantity(1)
	assert.Equal(t, 5, qty)
}

func TestFacade_PricingFailureAfterMutation(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "10.00", 10), variant(2, "4.00", 10))
	facade := newFacade(inv, newFakeCouponStore())
	sess := newSession()

	_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 2})
	require.NoError(t, err)
	_, err = facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 2, Quantity: 3})
	require.NoError(t, err)

	// Remove never consults inventory, so the mutation lands even though
	// the follow-up pricing pass fails.
	inv.err = errors.New("catalog down")
	_, err = facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionRemove, VariantID: 1})
	require.Error(t, err)

	inv.err = nil
	assert.Equal(t, 3, facade.ItemCount(sess))
}

func TestFacade_ConcurrentSameVariantUpdates(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "10.00", 1000))
	facade := newFacade(inv, newFakeCouponStore())
	sess := newSession()

	_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: 1, Quantity: 1})
	require.NoError(t, err)

	// Two "tabs" hammer the same line with different target quantities. The
	// final quantity must be a value some caller actually asked for.
	requested := map[int]bool{}
	g := new(errgroup.Group)
	for i := 0; i < 50; i++ {
		qty := 2 + i%7
		requested[qty] = true
		g.Go(func() error {
			_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionUpdate, VariantID: 1, Quantity: qty})
			return err
		})
	}
	require.NoError(t, g.Wait())

	final, ok := sess.Cart().Quantity(1)
	require.True(t, ok)
	assert.True(t, requested[final], "final quantity %d was never requested", final)
}

func TestFacade_ConcurrentDisjointVariants(t *testing.T) {
	ctx := context.Background()
	inv := newFakeInventory(variant(1, "1.00", 1000), variant(2, "1.00", 1000), variant(3, "1.00", 1000))
	facade := newFacade(inv, newFakeCouponStore())
	sess := newSession()

	g := new(errgroup.Group)
	for id := int64(1); id <= 3; id++ {
		id := id
		for i := 0; i < 20; i++ {
			g.Go(func() error {
				_, err := facade.Perform(ctx, sess, service.CartRequest{Action: service.ActionAdd, VariantID: id, Quantity: 1})
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	for id := int64(1); id <= 3; id++ {
		qty, _ := sess.Cart().Quantity(id)
		assert.Equal(t, 20, qty)
	}
	assert.Equal(t, 60, facade.ItemCount(sess))
}
