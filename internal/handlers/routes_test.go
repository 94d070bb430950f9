package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipstream/backend/internal/auth"
)

// The mux matches patterns exactly, so a renamed path silently 404s for
// clients; pin the published route names here.
func TestRegisterRoutesMatchesPublishedPaths(t *testing.T) {
	tokens := newTestTokens(t, auth.NewInMemoryTokenStore())

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{Tokens: tokens})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/api/v1/users/update-account-details"},
		{http.MethodGet, "/api/v1/users/channel-profile/somechannel"},
		{http.MethodPatch, "/api/v1/videos/64b0c8c2a4f1d52e9c3b7a10/toggle-publish"},
		{http.MethodGet, "/api/v1/users/watch-history"},
		{http.MethodPost, "/api/v1/likes/toggle/v/64b0c8c2a4f1d52e9c3b7a10"},
		{http.MethodGet, "/api/v1/dashboard/stats"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		// No credentials: a mapped route answers 401 through the auth
		// middleware, while an unmapped one would fall through to the mux 404.
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 from auth middleware, got %d", tc.method, tc.path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/v1/health: expected 200 without credentials, got %d", rec.Code)
	}
}
