package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/weinshel/hallucinator-sub000/internal/retraction"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

// AdminLogin handles POST /admin/login: password-in, short-lived
// session-token-out.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if h.Admin == nil || !h.Admin.Enabled() {
		writeError(w, http.StatusNotFound, "admin account not configured")
		return
	}
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.Admin.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	writeJSON(w, http.StatusOK, adminLoginResponse{Token: token})
}

// RequireAdmin is chi middleware guarding the admin route group with a
// Bearer session token issued by AdminLogin.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Admin == nil || !h.Admin.Enabled() {
			writeError(w, http.StatusNotFound, "admin account not configured")
			return
		}
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		if _, err := h.Admin.Validate(parts[1]); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ReloadWatchlist handles POST /admin/watchlist/reload: re-reads the
// retraction watchlist file from disk and atomically swaps it into every
// Validator built from this Handler (SPEC_FULL.md §11).
func (h *Handler) ReloadWatchlist(w http.ResponseWriter, r *http.Request) {
	if h.WatchlistPath == "" {
		writeError(w, http.StatusNotFound, "no watchlist file configured")
		return
	}
	wl, err := retraction.Load(h.WatchlistPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload watchlist: "+err.Error())
		return
	}
	h.watchlist.Store(wl)
	writeJSON(w, http.StatusOK, map[string]string{"message": "watchlist reloaded"})
}
