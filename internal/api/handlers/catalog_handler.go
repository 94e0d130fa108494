package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leyenda/storefront/internal/models"
)

// ProductReader is the catalog lookup the handler needs.
type ProductReader interface {
	List(ctx context.Context, search string, limit int) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.ProductDetail, error)
}

type productDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	Image       string  `json:"image"`
}

type variantDTO struct {
	VariantID int64   `json:"variant_id"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	UnitPrice float64 `json:"unit_price"`
	Stock     int     `json:"stock"`
}

type productDetailDTO struct {
	productDTO
	Variants []variantDTO `json:"variants"`
	Images   []string     `json:"images"`
}

// CatalogHandler serves read-only product browsing.
type CatalogHandler struct {
	products ProductReader
	log      *slog.Logger
}

func NewCatalogHandler(products ProductReader, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{products: products, log: log}
}

// List handles GET /api/products.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.products.List(r.Context(), search, limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, productDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			BasePrice:   p.BasePrice.InexactFloat64(),
			Image:       p.ImagePath,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": out})
}

// Get handles GET /api/products/{id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, h.log, models.ErrValidation)
		return
	}

	d, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	out := productDetailDTO{
		productDTO: productDTO{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			BasePrice:   d.BasePrice.InexactFloat64(),
			Image:       d.ImagePath,
		},
		Images: d.Images,
	}
	for _, v := range d.Variants {
		out.Variants = append(out.Variants, variantDTO{
			VariantID: v.VariantID,
			Size:      v.Size,
			Color:     v.Color,
			UnitPrice: v.UnitPrice.InexactFloat64(),
			Stock:     v.Stock,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
