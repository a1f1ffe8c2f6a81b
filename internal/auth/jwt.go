package auth

import (
	"errors"
	"fmt"
	"time"

	"telecom-care/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenType       = errors.New("auth: token type mismatch")
	ErrInvalidIdentity = errors.New("auth: invalid identity claims")
)

const clockSkew = 30 * time.Second

// IdentityRules decide which staff identities a token may carry. The
// account and role domains live above this package, so main wires them in.
// A nil rule accepts any non-empty value.
type IdentityRules struct {
	ValidRole  func(role string) bool
	ValidEmail func(email string) bool
}

func (r IdentityRules) role(v string) bool {
	if r.ValidRole == nil {
		return v != ""
	}
	return r.ValidRole(v)
}

func (r IdentityRules) email(v string) bool {
	if r.ValidEmail == nil {
		return v != ""
	}
	return r.ValidEmail(v)
}

// Manager issues and verifies the staff access/refresh pair.
type Manager struct {
	secret     []byte
	issuer     string
	audience   jwt.ClaimStrings
	accessTTL  time.Duration
	refreshTTL time.Duration
	rules      IdentityRules
}

func NewManager(cfg config.AuthConfig, rules IdentityRules) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	m := &Manager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		rules:      rules,
	}
	if cfg.JWTAudience != "" {
		m.audience = jwt.ClaimStrings{cfg.JWTAudience}
	}
	return m, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IssuePair signs an access token carrying the role and a refresh token
// without it. Refresh reloads the role from the account.
func (m *Manager) IssuePair(now time.Time, userID, email, role string) (TokenPair, error) {
	if userID == "" || !m.rules.email(email) || !m.rules.role(role) {
		return TokenPair{}, ErrInvalidIdentity
	}
	access, err := m.sign(now, Claims{UserID: userID, Email: email, Role: role, TokenType: TokenTypeAccess}, m.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := m.sign(now, Claims{UserID: userID, Email: email, TokenType: TokenTypeRefresh}, m.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify parses an HS256 token of the expected type as of now and checks
// that the identity it carries is one this service would issue.
func (m *Manager) Verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(clockSkew),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if len(m.audience) > 0 {
		opts = append(opts, jwt.WithAudience(m.audience[0]))
	}

	var claims Claims
	if _, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...); err != nil {
		return Claims{}, err
	}
	if claims.TokenType != expected {
		return Claims{}, ErrTokenType
	}
	if err := m.checkIdentity(claims); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (m *Manager) checkIdentity(c Claims) error {
	switch {
	case c.UserID == "":
		return fmt.Errorf("%w: user_id", ErrInvalidIdentity)
	case !m.rules.email(c.Email):
		return fmt.Errorf("%w: email", ErrInvalidIdentity)
	case c.TokenType == TokenTypeAccess && !m.rules.role(c.Role):
		return fmt.Errorf("%w: role", ErrInvalidIdentity)
	case c.TokenType == TokenTypeRefresh && c.Role != "":
		return fmt.Errorf("%w: refresh token carries a role", ErrInvalidIdentity)
	}
	return nil
}

func (m *Manager) sign(now time.Time, c Claims, ttl time.Duration) (string, error) {
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    m.issuer,
		Audience:  m.audience,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}
