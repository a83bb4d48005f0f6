package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRouter_HealthCheck(t *testing.T) {
	h := testHandler()
	router := NewRouter(h, []string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestNewRouter_AdminLoginRoute_Wired(t *testing.T) {
	h := testHandler()
	router := NewRouter(h, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// No admin account configured in testHandler(), so the route is wired
	// and answers 404 with its own error body, not chi's unmatched-route 404.
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "admin account not configured")
}
