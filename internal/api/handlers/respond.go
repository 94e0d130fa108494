package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/leyenda/storefront/internal/models"
	"github.com/leyenda/storefront/internal/service"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeError maps the error taxonomy onto the JSON failure shape. Anything
// outside the taxonomy is logged with full detail and surfaced as a generic
// internal error.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := http.StatusBadRequest
	msg := err.Error()

	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrNotInCart),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidCoupon),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrInvalidToken):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrCSRF),
		errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrNotVerified):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	default:
		status = http.StatusInternalServerError
		msg = "internal error"
		log.Error("request failed", slog.Any("err", err))
	}

	writeJSON(w, status, failureResponse{Success: false, Error: msg})
}

// --- cart view DTOs ---

type itemDTO struct {
	VariantID         int64   `json:"variant_id"`
	ProductID         int64   `json:"product_id"`
	Name              string  `json:"name"`
	Size              string  `json:"size"`
	Color             string  `json:"color"`
	Image             string  `json:"image"`
	UnitPrice         float64 `json:"unit_price"`
	Quantity          int     `json:"quantity"`
	EffectiveQuantity int     `json:"effective_quantity"`
	Stock             int     `json:"stock"`
	Subtotal          float64 `json:"subtotal"`
}

type cartResponse struct {
	Success   bool      `json:"success"`
	Items     []itemDTO `json:"items"`
	Subtotal  float64   `json:"subtotal"`
	Discount  float64   `json:"discount"`
	Shipping  float64   `json:"shipping"`
	Total     float64   `json:"total"`
	CartCount int       `json:"cart_count"`
}

func toCartResponse(view service.CartView) cartResponse {
	items := make([]itemDTO, 0, len(view.Items))
	for _, it := range view.Items {
		items = append(items, itemDTO{
			VariantID:         it.VariantID,
			ProductID:         it.ProductID,
			Name:              it.Name,
			Size:              it.Size,
			Color:             it.Color,
			Image:             it.ImagePath,
			UnitPrice:         it.UnitPrice.InexactFloat64(),
			Quantity:          it.Quantity,
			EffectiveQuantity: it.EffectiveQuantity,
			Stock:             it.Stock,
			Subtotal:          it.Subtotal.InexactFloat64(),
		})
	}
	return cartResponse{
		Success:   true,
		Items:     items,
		Subtotal:  view.Totals.Subtotal.InexactFloat64(),
		Discount:  view.Totals.Discount.InexactFloat64(),
		Shipping:  view.Totals.Shipping.InexactFloat64(),
		Total:     view.Totals.Total.InexactFloat64(),
		CartCount: view.Count,
	}
}
