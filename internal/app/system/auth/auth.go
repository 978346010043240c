// Package auth issues and verifies the bearer tokens that gate the
// employee API, and provides the middleware that loads the verified
// admin identity into the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rfields/staffdir/internal/app/system/httperr"
	"go.uber.org/zap"
)

const issuer = "staffdir"

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// Verification failures.
var (
	ErrMissingToken = httperr.ErrMissingToken
	ErrInvalidToken = httperr.ErrInvalidToken
	ErrTokenExpired = httperr.ErrTokenExpired
)

// TokenManager mints and verifies signed bearer tokens.
// It holds no mutable state; all methods are safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// New constructs a TokenManager. The secret must come from configuration;
// a ttl of zero falls back to DefaultTTL and a negative ttl is rejected.
func New(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty; provide one via configuration")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("token ttl must not be negative, got %s", ttl)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue mints an HS256-signed token whose subject is the admin's ID.
func (m *TokenManager) Issue(adminID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   adminID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify checks the token's signature and expiry and returns the subject
// (admin ID). Failures are reported as ErrMissingToken, ErrTokenExpired,
// or ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request-context helpers & middleware                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentAdminKey ctxKey = "currentAdmin"

// CurrentAdmin returns the verified admin ID attached by RequireAdmin.
func CurrentAdmin(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(currentAdminKey).(string)
	return id, ok && id != ""
}

// WithTestAdmin injects an admin identity directly into the request
// context, bypassing token verification. For tests only.
func WithTestAdmin(r *http.Request, adminID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentAdminKey, adminID))
}

// RequireAdmin extracts the bearer token from the Authorization header,
// verifies it, and attaches the subject identity to the request context.
//
//   - missing/blank header → 401
//   - invalid or expired token → 403
func RequireAdmin(m *TokenManager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httperr.Write(w, logger, ErrMissingToken)
				return
			}

			adminID, err := m.Verify(token)
			if err != nil {
				logger.Warn("token rejected", zap.Error(err))
				httperr.Write(w, logger, err)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), currentAdminKey, adminID))
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken pulls the token out of "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
