package service

import (
	"context"

	"github.com/leyenda/storefront/internal/models"
	"github.com/leyenda/storefront/internal/session"
)

// Action names the cart mutations the facade dispatches.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
	ActionClear  Action = "clear"
)

// CartRequest is a validated cart mutation. Handlers build it at the
// boundary; unknown actions never reach the facade.
type CartRequest struct {
	Action    Action
	VariantID int64
	Quantity  int
}

// CartView is the consistent post-operation view returned to callers: priced
// items, totals and the badge count, derived in the same call as the
// mutation.
type CartView struct {
	Items  []models.PricedItem
	Totals models.Totals
	Count  int
}

// CartFacade is the only entry point external callers use. It owns no state:
// it coordinates the session's cart, the pricing engine, the coupon service
// and the totals rule, holding the session lock across each mutating call so
// concurrent tabs serialize cleanly.
type CartFacade struct {
	store   *CartStore
	pricing *PricingEngine
	coupons *CouponService
	totals  TotalsConfig
}

func NewCartFacade(store *CartStore, pricing *PricingEngine, coupons *CouponService, totals TotalsConfig) *CartFacade {
	return &CartFacade{
		store:   store,
		pricing: pricing,
		coupons: coupons,
		totals:  totals,
	}
}

// Perform applies one mutation and returns the re-derived view. A failed
// mutation leaves the cart untouched. If re-pricing fails after a successful
// mutation the mutation is not rolled back; the error only means the display
// could not be produced.
func (f *CartFacade) Perform(ctx context.Context, sess *session.Session, req CartRequest) (CartView, error) {
	sess.Lock()
	defer sess.Unlock()

	cart := sess.Cart()

	var err error
	switch req.Action {
	case ActionAdd:
		qty := req.Quantity
		if qty < 1 {
			qty = 1
		}
		err = f.store.Add(ctx, cart, req.VariantID, qty)
	case ActionUpdate:
		err = f.store.Update(ctx, cart, req.VariantID, req.Quantity)
	case ActionRemove:
		err = f.store.Remove(cart, req.VariantID)
	case ActionClear:
		f.store.Clear(cart)
	default:
		return CartView{}, models.ErrValidation
	}
	if err != nil {
		return CartView{}, err
	}

	return f.view(ctx, sess)
}

// Snapshot returns the current priced view without mutating anything.
func (f *CartFacade) Snapshot(ctx context.Context, sess *session.Session) (CartView, error) {
	sess.Lock()
	defer sess.Unlock()
	return f.view(ctx, sess)
}

// ItemCount is the badge count: the sum of stored quantities, no pricing
// pass.
func (f *CartFacade) ItemCount(sess *session.Session) int {
	sess.Lock()
	defer sess.Unlock()
	return sess.Cart().ItemCount()
}

// ApplyCoupon validates and consumes a code against the cart's current
// subtotal, then stores it as the session's applied coupon. Applying a new
// code replaces the old one without restoring its remaining uses.
func (f *CartFacade) ApplyCoupon(ctx context.Context, sess *session.Session, code string) (CartView, error) {
	sess.Lock()
	defer sess.Unlock()

	items, err := f.pricing.Price(ctx, sess.Cart())
	if err != nil {
		return CartView{}, err
	}
	subtotal := CalculateTotals(items, nil, f.totals).Subtotal

	coupon, err := f.coupons.Apply(ctx, code, subtotal)
	if err != nil {
		return CartView{}, err
	}
	sess.SetCoupon(coupon)

	return CartView{
		Items:  items,
		Totals: CalculateTotals(items, coupon, f.totals),
		Count:  sess.Cart().ItemCount(),
	}, nil
}

// ClearCoupon detaches the applied coupon. The consumed use is not restored.
func (f *CartFacade) ClearCoupon(ctx context.Context, sess *session.Session) (CartView, error) {
	sess.Lock()
	defer sess.Unlock()

	sess.SetCoupon(nil)
	return f.view(ctx, sess)
}

// view re-derives priced items and totals. Callers hold the session lock.
func (f *CartFacade) view(ctx context.Context, sess *session.Session) (CartView, error) {
	items, err := f.pricing.Price(ctx, sess.Cart())
	if err != nil {
		return CartView{}, err
	}
	return CartView{
		Items:  items,
		Totals: CalculateTotals(items, sess.Coupon(), f.totals),
		Count:  sess.Cart().ItemCount(),
	}, nil
}
