package service

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/leyenda/storefront/internal/models"
)

// PricingEngine expands raw cart lines into priced items against a fresh
// inventory snapshot. It is a pure function of (cart, inventory): no caching,
// no side effects.
type PricingEngine struct {
	inventory VariantReader
}

func NewPricingEngine(inventory VariantReader) *PricingEngine {
	return &PricingEngine{inventory: inventory}
}

// Price fetches all variants in one batched query and prices each line.
// Variants that no longer resolve (deleted after being added) are dropped.
// Zero-stock lines are retained with effective quantity 0 and subtotal 0.00
// so the caller can still render them as out of stock. Output is ordered by
// variant id.
func (p *PricingEngine) Price(ctx context.Context, cart *models.Cart) ([]models.PricedItem, error) {
	ids := cart.VariantIDs()
	if len(ids) == 0 {
		return []models.PricedItem{}, nil
	}

	variants, err := p.inventory.FetchVariants(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "fetch variants")
	}

	byID := make(map[int64]models.VariantSnapshot, len(variants))
	for _, v := range variants {
		byID[v.VariantID] = v
	}

	items := make([]models.PricedItem, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			continue
		}

		requested, _ := cart.Quantity(id)
		effective := requested
		if effective > v.Stock {
			effective = v.Stock
		}
		if effective < 0 {
			effective = 0
		}

		items = append(items, models.PricedItem{
			VariantSnapshot:   v,
			Quantity:          requested,
			EffectiveQuantity: effective,
			Subtotal:          v.UnitPrice.Mul(decimal.NewFromInt(int64(effective))).Round(2),
		})
	}
	return items, nil
}
