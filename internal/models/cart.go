package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Cart is the session-scoped quantity mapping. It is owned by exactly one
// session and must only be mutated while that session is locked.
type Cart struct {
	Lines map[int64]int
}

func NewCart() *Cart {
	return &Cart{Lines: make(map[int64]int)}
}

func (c *Cart) ensure() {
	if c.Lines == nil {
		c.Lines = make(map[int64]int)
	}
}

func (c *Cart) Quantity(variantID int64) (int, bool) {
	qty, ok := c.Lines[variantID]
	return qty, ok
}

func (c *Cart) Set(variantID int64, qty int) {
	c.ensure()
	c.Lines[variantID] = qty
}

func (c *Cart) Delete(variantID int64) {
	delete(c.Lines, variantID)
}

func (c *Cart) Clear() {
	c.Lines = make(map[int64]int)
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of all requested quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, qty := range c.Lines {
		total += qty
	}
	return total
}

// VariantIDs returns the cart's variant ids in ascending order so pricing
// output is stable across calls.
func (c *Cart) VariantIDs() []int64 {
	ids := make([]int64, 0, len(c.Lines))
	for id := range c.Lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PricedItem is a cart line enriched with a fresh variant snapshot. Effective
// quantity never exceeds live stock, even when the stored quantity is stale.
type PricedItem struct {
	VariantSnapshot
	Quantity          int             // quantity stored in the cart
	EffectiveQuantity int             // clamped to available stock
	Subtotal          decimal.Decimal // unit price x effective quantity, 2dp
}

// Totals aggregates a priced cart. Each field is rounded to 2 decimal places.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}
