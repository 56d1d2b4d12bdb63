package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("could not validate refresh token")
)

// Claims is the payload of an access token. Display preferences are embedded
// at login so the UI can render without an extra round trip.
type Claims struct {
	Preferences entities.JSONMap `json:"preferences"`
	DarkMode    bool             `json:"dark_mode"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access and refresh tokens. The two
// token kinds use separate secrets, so a refresh token never verifies as an
// access token. Expiry is the only invalidation mechanism; there is no
// revocation list.
type TokenIssuer struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenIssuer builds an issuer from config. Empty secrets are replaced
// with random ones, which invalidates outstanding tokens on restart.
func NewTokenIssuer(cfg config.Auth) (*TokenIssuer, error) {
	secret := cfg.SecretKey
	refreshSecret := cfg.RefreshSecretKey
	if secret == "" {
		generated, err := GenerateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}
	if refreshSecret == "" {
		generated, err := GenerateSecret()
		if err != nil {
			return nil, err
		}
		refreshSecret = generated
	}

	return &TokenIssuer{
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute,
		refreshTTL:    time.Duration(cfg.RefreshTokenExpireMinutes) * time.Minute,
	}, nil
}

// IssueAccess signs a short-lived access token for the subject, embedding
// the display-preference claims.
func (t *TokenIssuer) IssueAccess(subject string, darkMode bool, preferences entities.JSONMap) (string, error) {
	if preferences == nil {
		preferences = entities.JSONMap{}
	}
	now := time.Now().UTC()
	claims := &Claims{
		Preferences: preferences,
		DarkMode:    darkMode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// IssueRefresh signs a longer-lived refresh token carrying only the subject.
func (t *TokenIssuer) IssueRefresh(subject string) (string, error) {
	now := time.Now().UTC()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.refreshSecret)
}

// VerifyAccess validates signature and expiry and returns the claim set.
// Malformed, tampered, and expired tokens all fail with ErrInvalidToken.
func (t *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and returns its subject.
func (t *TokenIssuer) VerifyRefresh(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return t.refreshSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidRefreshToken
	}
	return claims.Subject, nil
}

// GenerateSecret creates a random 32-byte hex-encoded signing secret.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
