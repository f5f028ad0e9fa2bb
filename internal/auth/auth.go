// Package auth issues and verifies the bearer tokens that identify subjects
// and administrators.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin may read any subject's data and batch reports.
const RoleAdmin = "admin"

const defaultTokenTTL = 24 * time.Hour

var (
	// ErrMissingToken is returned when no bearer token was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken covers malformed, expired and badly signed tokens.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrNotConfigured is returned when no signing secret is set.
	ErrNotConfigured = errors.New("jwt secret not configured")
)

// Config configures token handling.
type Config struct {
	Secret   string        `mapstructure:"secret" yaml:"secret"`
	Issuer   string        `mapstructure:"issuer" yaml:"issuer"`
	Required bool          `mapstructure:"required" yaml:"required"`
	TokenTTL time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}

// Claims is the verified identity behind a request.
type Claims struct {
	SubjectID string    `json:"sub"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"exp"`
}

// IsAdmin reports whether the caller holds the admin role.
func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }

// CanAccess reports whether the caller may read subjectID's data.
func (c Claims) CanAccess(subjectID string) bool {
	return c.IsAdmin() || (c.SubjectID != "" && c.SubjectID == subjectID)
}

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and parses HS256 access tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager builds a Manager. A zero TokenTTL means one day.
func NewManager(cfg Config) *Manager {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Manager{secret: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: ttl, now: time.Now}
}

// Enabled reports whether tokens can be verified at all.
func (m *Manager) Enabled() bool { return m != nil && len(m.secret) > 0 }

// Issue signs a token for subjectID.
func (m *Manager) Issue(subjectID, email, role string) (string, time.Time, error) {
	if !m.Enabled() {
		return "", time.Time{}, ErrNotConfigured
	}
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := tokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies token and returns its claims.
func (m *Manager) Parse(token string) (Claims, error) {
	if !m.Enabled() {
		return Claims{}, ErrNotConfigured
	}
	if token == "" {
		return Claims{}, ErrMissingToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	out := Claims{SubjectID: claims.Subject, Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

type claimsKey struct{}

// WithClaims stores verified claims on ctx.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	if ctx == nil {
		return Claims{}, false
	}
	claims, ok := ctx.Value(claimsKey{}).(Claims)
	return claims, ok
}
