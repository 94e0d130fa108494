package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leyenda/storefront/internal/models"
	"github.com/leyenda/storefront/internal/service"
	"github.com/leyenda/storefront/internal/session"
)

// fakeInventory is an in-memory variant catalog. Absent ids are simply not
// returned, mirroring the soft-delete behavior of the real lookup.
type fakeInventory struct {
	mu       sync.Mutex
	variants map[int64]models.VariantSnapshot
	err      error
	calls    int
}

func newFakeInventory(variants ...models.VariantSnapshot) *fakeInventory {
	f := &fakeInventory{variants: make(map[int64]models.VariantSnapshot)}
	for _, v := range variants {
		f.variants[v.VariantID] = v
	}
	return f
}

func (f *fakeInventory) FetchVariants(_ context.Context, ids []int64) ([]models.VariantSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	out := []models.VariantSnapshot{}
	for _, id := range ids {
		if v, ok := f.variants[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeInventory) setStock(variantID int64, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.variants[variantID]
	v.Stock = stock
	f.variants[variantID] = v
}

// fakeCouponStore holds coupons keyed by normalized code and consumes uses
// atomically, as the real data layer does with its conditional UPDATE.
type fakeCouponStore struct {
	mu      sync.Mutex
	coupons map[string]*models.Coupon
}

func newFakeCouponStore(coupons ...*models.Coupon) *fakeCouponStore {
	f := &fakeCouponStore{coupons: make(map[string]*models.Coupon)}
	for _, c := range coupons {
		f.coupons[c.Code] = c
	}
	return f
}

func (f *fakeCouponStore) FindActiveCoupon(_ context.Context, code string) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.coupons[code]
	if !ok {
		return nil, nil
	}
	if c.UsesLeft != nil && *c.UsesLeft <= 0 {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCouponStore) DecrementUse(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.coupons[code]
	if !ok {
		return false, nil
	}
	if c.UsesLeft == nil {
		return true, nil
	}
	if *c.UsesLeft <= 0 {
		return false, nil
	}
	*c.UsesLeft--
	return true, nil
}

func variant(id int64, price string, stock int) models.VariantSnapshot {
	return models.VariantSnapshot{
		VariantID: id,
		ProductID: id,
		Name:      "variant",
		UnitPrice: decimal.RequireFromString(price),
		Stock:     stock,
	}
}

func newSession() *session.Session {
	return session.NewStore(time.Hour).Create()
}

func percentCoupon(code string, value string, uses *int) *models.Coupon {
	return &models.Coupon{
		Code:        code,
		Kind:        models.DiscountPercent,
		Value:       decimal.RequireFromString(value),
		UsesLeft:    uses,
		MinPurchase: decimal.Zero,
	}
}

func intPtr(n int) *int { return &n }

func newFacade(inv *fakeInventory, coupons *fakeCouponStore) *service.CartFacade {
	return service.NewCartFacade(
		service.NewCartStore(inv),
		service.NewPricingEngine(inv),
		service.NewCouponService(coupons),
		service.DefaultTotalsConfig(),
	)
}
