package service

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/leyenda/storefront/internal/models"
)

// VariantReader is the inventory lookup collaborator. FetchVariants must
// resolve all ids in a single round trip and silently omit variants that do
// not exist or are soft-deleted.
type VariantReader interface {
	FetchVariants(ctx context.Context, ids []int64) ([]models.VariantSnapshot, error)
}

// CartStore owns the mutation rules for a session cart: stock ceilings,
// increment-on-add, set-on-update and the remove/clear paths. It never
// touches pricing; callers re-derive priced output afterwards.
type CartStore struct {
	inventory VariantReader
}

func NewCartStore(inventory VariantReader) *CartStore {
	return &CartStore{inventory: inventory}
}

// Add inserts a new line or increments an existing one. Quantity below 1 is
// rejected; callers are expected to clamp user input beforehand.
func (s *CartStore) Add(ctx context.Context, cart *models.Cart, variantID int64, qty int) error {
	if qty < 1 {
		return models.ErrValidation
	}

	v, err := s.lookup(ctx, variantID)
	if err != nil {
		return err
	}

	existing, _ := cart.Quantity(variantID)
	if existing+qty > v.Stock {
		return models.ErrInsufficientStock
	}

	cart.Set(variantID, existing+qty)
	return nil
}

// Update sets a line's quantity exactly. Zero or negative quantity removes
// the line. On insufficient stock the cart is left untouched.
func (s *CartStore) Update(ctx context.Context, cart *models.Cart, variantID int64, qty int) error {
	if _, ok := cart.Quantity(variantID); !ok {
		return models.ErrNotInCart
	}

	if qty <= 0 {
		cart.Delete(variantID)
		return nil
	}

	v, err := s.lookup(ctx, variantID)
	if err != nil {
		return err
	}
	if qty > v.Stock {
		return models.ErrInsufficientStock
	}

	cart.Set(variantID, qty)
	return nil
}

// Remove deletes a line.
func (s *CartStore) Remove(cart *models.Cart, variantID int64) error {
	if _, ok := cart.Quantity(variantID); !ok {
		return models.ErrNotInCart
	}
	cart.Delete(variantID)
	return nil
}

// Clear empties the cart. It always succeeds.
func (s *CartStore) Clear(cart *models.Cart) {
	cart.Clear()
}

func (s *CartStore) lookup(ctx context.Context, variantID int64) (models.VariantSnapshot, error) {
	variants, err := s.inventory.FetchVariants(ctx, []int64{variantID})
	if err != nil {
		return models.VariantSnapshot{}, errors.Wrap(err, "fetch variant")
	}
	if len(variants) == 0 {
		return models.VariantSnapshot{}, models.ErrNotFound
	}
	return variants[0], nil
}
