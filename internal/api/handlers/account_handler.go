package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/leyenda/storefront/internal/api/middleware"
	"github.com/leyenda/storefront/internal/models"
	"github.com/leyenda/storefront/internal/service"
	"github.com/leyenda/storefront/internal/session"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	CSRF     string `json:"csrf"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	CSRF     string `json:"csrf"`
}

// AccountHandler serves registration, login and e-mail verification.
type AccountHandler struct {
	accounts *service.AccountService
	sessions *session.Store
	log      *slog.Logger
}

func NewAccountHandler(accounts *service.AccountService, sessions *session.Store, log *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions, log: log}
}

// Register handles POST /api/account/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, models.ErrValidation)
		return
	}
	if !sess.VerifyCSRF(csrfFrom(r, req.CSRF)) {
		writeError(w, h.log, models.ErrCSRF)
		return
	}

	if _, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "check your inbox to verify the account",
	})
}

// Login handles POST /api/account/login. On success the session is bound to
// the user.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, models.ErrValidation)
		return
	}
	if !sess.VerifyCSRF(csrfFrom(r, req.CSRF)) {
		writeError(w, h.log, models.ErrCSRF)
		return
	}

	u, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	sess.Lock()
	sess.SetUserID(u.ID)
	sess.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"name":    u.Name,
	})
}

// Logout handles POST /api/account/logout: the whole session, cart included,
// is destroyed.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())

	if !sess.VerifyCSRF(csrfFrom(r, "")) {
		writeError(w, h.log, models.ErrCSRF)
		return
	}

	h.sessions.Destroy(sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Verify handles GET /api/account/verify?token=...
func (h *AccountHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Verify(r.Context(), r.URL.Query().Get("token")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "account verified",
	})
}
