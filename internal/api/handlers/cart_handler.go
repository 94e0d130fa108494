package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/leyenda/storefront/internal/models"
	"github.com/leyenda/storefront/internal/service"
	"github.com/leyenda/storefront/internal/session"
)

// --- Request DTOs ---

type cartActionRequest struct {
	Action    string `json:"action"`
	VariantID *int64 `json:"variant_id"`
	Quantity  *int   `json:"quantity"`
	CSRF      string `json:"csrf"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
	CSRF string `json:"csrf"`
}

type countResponse struct {
	Count int `json:"count"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// CartHandler serves the AJAX cart contract: one mutating endpoint that
// returns the full post-mutation view, plus the read-only badge and
// floating-preview endpoints.
type CartHandler struct {
	facade *service.CartFacade
	log    *slog.Logger
}

func NewCartHandler(facade *service.CartFacade, log *slog.Logger) *CartHandler {
	return &CartHandler{facade: facade, log: log}
}

// Perform handles POST /api/cart.
func (h *CartHandler) Perform(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req cartActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, models.ErrValidation)
		return
	}
	if !sess.VerifyCSRF(csrfFrom(r, req.CSRF)) {
		writeError(w, h.log, models.ErrCSRF)
		return
	}

	creq, err := validateCartRequest(req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	view, err := h.facade.Perform(r.Context(), sess, creq)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

// Snapshot handles GET /api/cart (the floating preview).
func (h *CartHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	view, err := h.facade.Snapshot(r.Context(), sess)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

// Count handles GET /api/cart/count (the badge).
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, countResponse{Count: h.facade.ItemCount(sess)})
}

// ApplyCoupon handles POST /api/cart/coupon.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req applyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, models.ErrValidation)
		return
	}
	if !sess.VerifyCSRF(csrfFrom(r, req.CSRF)) {
		writeError(w, h.log, models.ErrCSRF)
		return
	}

	view, err := h.facade.ApplyCoupon(r.Context(), sess, req.Code)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

// RemoveCoupon handles DELETE /api/cart/coupon. CSRF comes via header since
// DELETE bodies are unreliable across clients.
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if !sess.VerifyCSRF(csrfFrom(r, "")) {
		writeError(w, h.log, models.ErrCSRF)
		return
	}

	view, err := h.facade.ClearCoupon(r.Context(), sess)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(view))
}

// CSRFToken handles GET /api/csrf so page scripts can fetch the token the
// mutating endpoints require.
func (h *CartHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, csrfResponse{CSRFToken: sess.CSRFToken})
}

// csrfFrom prefers the body field and falls back to the X-CSRF-Token header.
func csrfFrom(r *http.Request, bodyToken string) string {
	if bodyToken != "" {
		return bodyToken
	}
	return r.Header.Get("X-CSRF-Token")
}

// validateCartRequest turns the loose JSON payload into a typed request,
// rejecting unknown actions and missing fields before they reach the facade.
func validateCartRequest(req cartActionRequest) (service.CartRequest, error) {
	switch service.Action(req.Action) {
	case service.ActionAdd:
		if req.VariantID == nil {
			return service.CartRequest{}, models.ErrValidation
		}
		qty := 1
		if req.Quantity != nil && *req.Quantity > 1 {
			qty = *req.Quantity
		}
		return service.CartRequest{Action: service.ActionAdd, VariantID: *req.VariantID, Quantity: qty}, nil

	case service.ActionUpdate:
		if req.VariantID == nil || req.Quantity == nil {
			return service.CartRequest{}, models.ErrValidation
		}
		return service.CartRequest{Action: service.ActionUpdate, VariantID: *req.VariantID, Quantity: *req.Quantity}, nil

	case service.ActionRemove:
		if req.VariantID == nil {
			return service.CartRequest{}, models.ErrValidation
		}
		return service.CartRequest{Action: service.ActionRemove, VariantID: *req.VariantID}, nil

	case service.ActionClear:
		return service.CartRequest{Action: service.ActionClear}, nil

	default:
		return service.CartRequest{}, models.ErrValidation
	}
}
