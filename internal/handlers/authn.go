package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clipstream/backend/internal/logging"
)

// accessTokenCookie and refreshTokenCookie name the cookies browser clients
// authenticate with; API clients may send a bearer header instead.
const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type principalKey struct{}

// principal is the authenticated user attached to a request context.
type principal struct {
	ID    primitive.ObjectID
	Email string
}

// requireAuth wraps a handler so it only runs for requests carrying a valid
// access token, either as the accessToken cookie or an Authorization bearer
// header. The verified principal is stored on the request context.
func requireAuth(tokens TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw := bearerToken(r)
		if raw == "" {
			respondError(ctx, w, unauthorized("authentication required"))
			return
		}

		identity, err := tokens.VerifyAccessToken(raw)
		if err != nil {
			logging.FromContext(ctx).Warn("access token rejected", "error", err)
			respondError(ctx, w, unauthorized("invalid access token"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(identity.UserID)
		if err != nil {
			respondError(ctx, w, unauthorized("invalid access token"))
			return
		}

		ctx = context.WithValue(ctx, principalKey{}, principal{ID: userID, Email: identity.Email})
		next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the access token from the request, preferring the
// cookie over the Authorization header.
func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// actor returns the authenticated principal for the request. Handlers behind
// requireAuth can rely on it being present.
func actor(ctx context.Context) principal {
	p, _ := ctx.Value(principalKey{}).(principal)
	return p
}
