package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNotLoggedIn is returned when no usable session token is stored.
var ErrNotLoggedIn = errors.New("not logged in (run: todo login)")

// Claims are the access token claims the client reads.
// Signatures are not checked here; the backend is authoritative.
type Claims struct {
	Username string `json:"username"`
	UserID   any    `json:"user_id"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the claims of a JWT access token without verifying it.
func ParseClaims(access string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	return claims, nil
}

// NewToken wraps an access token issued by the backend. Expiry is taken
// from the token's exp claim when it has one.
func NewToken(access, refresh string) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}
	if claims, err := ParseClaims(access); err == nil && claims.ExpiresAt != nil {
		tok.Expiry = claims.ExpiresAt.Time
	}
	return tok
}

// SaveToken writes the session token with mode 0600, creating the config
// directory if needed.
func (c *Config) SaveToken(tok *oauth2.Token) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}

// LoadToken reads the stored session token.
// Returns ErrNotLoggedIn if there is none.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TokenFile, err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TokenFile, err)
	}
	if tok.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return &tok, nil
}
