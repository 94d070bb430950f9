package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrTokenInvalid indicates a token failed signature or expiry checks.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenStale indicates a refresh token no longer matches the one
	// persisted for the user, i.e. it was already rotated away or revoked.
	ErrTokenStale = errors.New("token stale")
)

// bcryptCost matches the platform's fixed password hashing cost.
const bcryptCost = 10

// AuthRecord is the slice of a user document the token service needs.
type AuthRecord struct {
	UserID       string
	Email        string
	RefreshToken string
}

// TokenStore persists the single active refresh token per user.
type TokenStore interface {
	AuthRecord(ctx context.Context, userID string) (AuthRecord, error)
	SetRefreshToken(ctx context.Context, userID, token string) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// TokenPair groups the bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Identity is the authenticated principal carried by an access token.
type Identity struct {
	UserID string
	Email  string
}

// TokenService hashes passwords and manages the access/refresh token
// lifecycle. Rotation overwrites the persisted refresh token, so a user has
// exactly one active refresh token at a time.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	users TokenStore

	// NowFunc overrides the clock in tests.
	NowFunc func() time.Time
}

// NewTokenService constructs a TokenService backed by the provided store.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, users TokenStore) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("auth: token secrets must be provided")
	}
	if users == nil {
		return nil, errors.New("auth: token store must be provided")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		users:         users,
	}, nil
}

// HashPassword derives a one-way hash for storage.
func (s *TokenService) HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
func (s *TokenService) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Rotate issues a fresh access/refresh pair for the user and persists the
// new refresh token, invalidating whichever one was stored before.
func (s *TokenService) Rotate(ctx context.Context, userID string) (TokenPair, error) {
	record, err := s.users.AuthRecord(ctx, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("load user for token rotation: %w", err)
	}

	accessToken, err := s.issueAccessToken(record.UserID, record.Email)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := s.issueRefreshToken(record.UserID)
	if err != nil {
		return TokenPair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, record.UserID, refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccessToken validates an access token and extracts the identity.
func (s *TokenService) VerifyAccessToken(token string) (Identity, error) {
	claims, err := s.parse(token, s.accessSecret)
	if err != nil {
		return Identity{}, err
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{UserID: sub, Email: email}, nil
}

// VerifyRefreshToken validates a refresh token and enforces single-use
// rotation: the token must equal the one currently persisted for the user.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token, s.refreshSecret)
	if err != nil {
		return "", err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}

	record, err := s.users.AuthRecord(ctx, sub)
	if err != nil {
		return "", fmt.Errorf("load user for refresh verification: %w", err)
	}

	if record.RefreshToken == "" || record.RefreshToken != token {
		return "", ErrTokenStale
	}

	return sub, nil
}

// Revoke clears the persisted refresh token for the user (logout).
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

func (s *TokenService) issueAccessToken(userID, email string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) issueRefreshToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token string, secret []byte) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (s *TokenService) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
