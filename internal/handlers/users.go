package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// UserHandler implements registration, authentication and profile endpoints.
type UserHandler struct {
	Users          UserStore
	Tokens         TokenManager
	Blobs          BlobStore
	Views          UserViews
	MaxUploadBytes int64
}

type registerForm struct {
	FullName string `validate:"required"`
	Email    string `validate:"required,email"`
	Username string `validate:"required,min=3,max=30"`
	Password string `validate:"required,min=8"`
}

// Register handles POST /api/v1/users/register. The body is multipart so the
// avatar (required) and cover image (optional) ride along with the fields.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		respondError(ctx, w, badRequest("invalid multipart form"))
		return
	}

	form := registerForm{
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Email:    strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Username: strings.TrimSpace(strings.ToLower(r.FormValue("username"))),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		respondError(ctx, w, badRequest("fullName, email, username and password are required"))
		return
	}

	if _, err := h.Users.FindByUsernameOrEmail(ctx, form.Username, form.Email); err == nil {
		respondError(ctx, w, conflict("username or email already registered"))
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		respondError(ctx, w, err)
		return
	}

	avatarURL, err := h.uploadMedia(ctx, r, "avatar", "avatars", true)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	coverURL, err := h.uploadMedia(ctx, r, "coverImage", "covers", false)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	hashed, err := h.Tokens.HashPassword(form.Password)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.Create(ctx, models.User{
		Username:   form.Username,
		Email:      form.Email,
		FullName:   form.FullName,
		Password:   hashed,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, conflict("username or email already registered"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	logger.Info("user registered", "userId", user.ID.Hex(), "username", user.Username)
	respondJSON(ctx, w, http.StatusCreated, "user registered", user)
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Login handles POST /api/v1/users/login. Clients may identify themselves by
// username or email.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" && req.Email == "" {
		respondError(ctx, w, badRequest("username or email is required"))
		return
	}

	user, err := h.Users.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		logger.Warn("login user lookup failed", "username", req.Username, "error", err)
		respondError(ctx, w, unauthorized("invalid credentials"))
		return
	}

	if !h.Tokens.VerifyPassword(req.Password, user.Password) {
		logger.Warn("login password mismatch", "userId", user.ID.Hex())
		respondError(ctx, w, unauthorized("invalid credentials"))
		return
	}

	tokens, err := h.Tokens.Rotate(ctx, user.ID.Hex())
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	setAuthCookies(w, tokens)
	respondJSON(ctx, w, http.StatusOK, "logged in", sessionResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout handles POST /api/v1/users/logout. It revokes the stored refresh
// token so the current session cannot be renewed.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Tokens.Revoke(ctx, actor(ctx).ID.Hex()); err != nil {
		respondError(ctx, w, err)
		return
	}

	clearAuthCookies(w)
	respondJSON(ctx, w, http.StatusOK, "logged out", nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/v1/users/refresh-token. The refresh token comes
// from the cookie when present, otherwise from the JSON body. A successful
// exchange rotates the stored token, so the presented one is single use.
func (h UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err == nil {
			raw = strings.TrimSpace(req.RefreshToken)
		}
	}
	if raw == "" {
		respondError(ctx, w, unauthorized("refresh token is required"))
		return
	}

	userID, err := h.Tokens.VerifyRefreshToken(ctx, raw)
	if err != nil {
		if errors.Is(err, auth.ErrTokenInvalid) || errors.Is(err, auth.ErrTokenStale) {
			respondError(ctx, w, unauthorized("refresh token is expired or revoked"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	tokens, err := h.Tokens.Rotate(ctx, userID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	setAuthCookies(w, tokens)
	respondJSON(ctx, w, http.StatusOK, "session refreshed", tokens)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.FindByID(ctx, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if !h.Tokens.VerifyPassword(req.OldPassword, user.Password) {
		respondError(ctx, w, badRequest("old password is incorrect"))
		return
	}

	hashed, err := h.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	if err := h.Users.SetPassword(ctx, user.ID, hashed); err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "password changed", nil)
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.FindByID(ctx, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "current user", user)
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username" validate:"omitempty,min=3,max=30"`
}

// UpdateAccountDetails handles PATCH /api/v1/users/update-account-details.
// Only the provided fields change; at least one must be present.
func (h UserHandler) UpdateAccountDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, err)
		return
	}

	fields := bson.M{}
	if v := strings.TrimSpace(req.FullName); v != "" {
		fields["fullName"] = v
	}
	if v := strings.TrimSpace(strings.ToLower(req.Email)); v != "" {
		fields["email"] = v
	}
	if v := strings.TrimSpace(strings.ToLower(req.Username)); v != "" {
		fields["username"] = v
	}
	if len(fields) == 0 {
		respondError(ctx, w, badRequest("at least one of fullName, email or username is required"))
		return
	}

	user, err := h.Users.UpdateDetails(ctx, actor(ctx).ID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, conflict("username or email already taken"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "account updated", user)
}

// UpdateAvatar handles PATCH /api/v1/users/avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateMedia(w, r, "avatar", "avatars")
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateMedia(w, r, "coverImage", "covers")
}

func (h UserHandler) updateMedia(w http.ResponseWriter, r *http.Request, field, folder string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		respondError(ctx, w, badRequest("invalid multipart form"))
		return
	}

	current, err := h.Users.FindByID(ctx, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	url, err := h.uploadMedia(ctx, r, field, folder, true)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	user, err := h.Users.SetMediaURL(ctx, current.ID, field, url)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	// Replacing an image orphans the old blob; removal is best effort.
	old := current.Avatar
	if field == "coverImage" {
		old = current.CoverImage
	}
	if old != "" {
		if err := h.Blobs.Delete(ctx, old); err != nil {
			logger.Warn("delete replaced media", "url", old, "error", err)
		}
	}

	respondJSON(ctx, w, http.StatusOK, field+" updated", user)
}

// ChannelProfile handles GET /api/v1/users/channel-profile/{username}.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := strings.TrimSpace(strings.ToLower(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, badRequest("username is required"))
		return
	}

	profile, err := h.Views.ChannelProfile(ctx, username, actor(ctx).ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, notFound("channel not found"))
			return
		}
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "channel profile", profile)
}

// WatchHistory handles GET /api/v1/users/watch-history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := h.Views.WatchHistory(ctx, actor(ctx).ID)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, "watch history", history)
}

func (h UserHandler) uploadMedia(ctx context.Context, r *http.Request, field, folder string, required bool) (string, error) {
	file, header, err := formFile(r, field, required)
	if err != nil || file == nil {
		return "", err
	}
	defer file.Close()

	url, err := h.Blobs.Upload(ctx, blobKey(folder, header.Filename), header.Header.Get("Content-Type"), file)
	if err != nil {
		return "", err
	}
	return url, nil
}

func setAuthCookies(w http.ResponseWriter, tokens auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
