package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func seedUser(t *testing.T, users *fakeUserStore, tokenStore *auth.InMemoryTokenStore, tokens *auth.TokenService, username, email, password string) models.User {
	t.Helper()

	hashed, err := tokens.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	user := users.add(models.User{
		Username: username,
		Email:    email,
		FullName: "Test User",
		Password: hashed,
		Avatar:   "https://cdn.test/avatars/seed.png",
	})
	tokenStore.Put(auth.AuthRecord{UserID: user.ID.Hex(), Email: email})
	return user
}

func TestLoginIssuesTokensAndCookies(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	seedUser(t, users, tokenStore, tokens, "alice", "alice@example.com", "sup3rsecret")

	h := UserHandler{Users: users, Tokens: tokens}

	body := strings.NewReader(`{"email":"alice@example.com","password":"sup3rsecret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", body)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got %+v", env)
	}

	var session sessionResponse
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected both tokens in response")
	}
	if session.User.Username != "alice" {
		t.Fatalf("expected user alice, got %q", session.User.Username)
	}

	names := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		names[cookie.Name] = cookie.HttpOnly
	}
	for _, want := range []string{accessTokenCookie, refreshTokenCookie} {
		httpOnly, ok := names[want]
		if !ok {
			t.Fatalf("missing %s cookie", want)
		}
		if !httpOnly {
			t.Fatalf("%s cookie must be http-only", want)
		}
	}
}

func TestLoginAcceptsUsername(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	seedUser(t, users, tokenStore, tokens, "bob", "bob@example.com", "sup3rsecret")

	h := UserHandler{Users: users, Tokens: tokens}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"username":"Bob","password":"sup3rsecret"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	seedUser(t, users, tokenStore, tokens, "alice", "alice@example.com", "sup3rsecret")

	h := UserHandler{Users: users, Tokens: tokens}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterCreatesUserAndRejectsDuplicate(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	blobs := &fakeBlobStore{}

	h := UserHandler{Users: users, Tokens: tokens, Blobs: blobs, MaxUploadBytes: 1 << 20}

	register := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("fullName", "Carol Tester")
		_ = mw.WriteField("email", "Carol@Example.com")
		_ = mw.WriteField("username", "CarolT")
		_ = mw.WriteField("password", "sup3rsecret")
		part, _ := mw.CreateFormFile("avatar", "avatar.png")
		_, _ = part.Write([]byte("fake image bytes"))
		_ = mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		h.Register(rec, req)
		return rec
	}

	rec := register()
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var created models.User
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if created.Username != "carolt" || created.Email != "carol@example.com" {
		t.Fatalf("expected lowercased identifiers, got %q %q", created.Username, created.Email)
	}
	if !strings.Contains(rec.Body.String(), "cdn.test/avatars/") {
		t.Fatal("expected uploaded avatar URL in response")
	}
	if strings.Contains(rec.Body.String(), "sup3rsecret") {
		t.Fatal("password must not appear in the response")
	}

	if rec := register(); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate registration, got %d", rec.Code)
	}
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	user := seedUser(t, users, tokenStore, tokens, "alice", "alice@example.com", "sup3rsecret")

	h := UserHandler{Users: users, Tokens: tokens}

	first, err := tokens.Rotate(context.Background(), user.ID.Hex())
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	refresh := func(token string) *httptest.ResponseRecorder {
		body := strings.NewReader(`{"refreshToken":"` + token + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", body)
		rec := httptest.NewRecorder()
		h.Refresh(rec, req)
		return rec
	}

	if rec := refresh(first.RefreshToken); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for current token, got %d: %s", rec.Code, rec.Body.String())
	}

	// The exchange rotated the stored token, so the first one is spent.
	if rec := refresh(first.RefreshToken); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for spent token, got %d", rec.Code)
	}
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	user := seedUser(t, users, tokenStore, tokens, "alice", "alice@example.com", "sup3rsecret")

	h := UserHandler{Users: users, Tokens: tokens}

	body := strings.NewReader(`{"oldPassword":"nope","newPassword":"an0thersecret"}`)
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/users/change-password", body), user.ID)
	rec := httptest.NewRecorder()

	h.ChangePassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateAccountRequiresAtLeastOneField(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	user := seedUser(t, users, tokenStore, tokens, "alice", "alice@example.com", "sup3rsecret")

	h := UserHandler{Users: users, Tokens: tokens}

	req := asUser(httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-account-details", strings.NewReader(`{}`)), user.ID)
	rec := httptest.NewRecorder()

	h.UpdateAccountDetails(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	users := newFakeUserStore()
	tokenStore := auth.NewInMemoryTokenStore()
	tokens := newTestTokens(t, tokenStore)
	user := seedUser(t, users, tokenStore, tokens, "alice", "alice@example.com", "sup3rsecret")

	h := UserHandler{Users: users, Tokens: tokens}

	pair, err := tokens.Rotate(context.Background(), user.ID.Hex())
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil), user.ID)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := tokens.VerifyRefreshToken(context.Background(), pair.RefreshToken); err == nil {
		t.Fatal("expected refresh token to be revoked after logout")
	}
}
