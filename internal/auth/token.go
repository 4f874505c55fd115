package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/genre-sales-api/internal/domain"
)

// DefaultTokenTTL applies when neither the caller nor the configuration sets a lifetime.
const DefaultTokenTTL = 15 * time.Minute

// Verification failures. Callers at the HTTP boundary must not expose which one occurred.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrMissingSubject   = errors.New("token subject missing")
)

var supportedMethods = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// TokenManager handles issuing and validating JWT access tokens.
// It is immutable once built and safe for concurrent use.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager for the given HMAC algorithm.
func NewTokenManager(secret []byte, algorithm string, ttl time.Duration) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("token manager: empty signing key")
	}
	method, ok := supportedMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("token manager: unsupported algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenManager{secret: key, method: method, ttl: ttl, now: time.Now}, nil
}

// Claims describes the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// TTL returns the default token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for subject that expires ttl from now. A non-positive ttl uses the default.
func (tm *TokenManager) Issue(subject string, ttl time.Duration) (string, domain.Token, error) {
	if subject == "" {
		return "", domain.Token{}, ErrMissingSubject
	}
	if ttl <= 0 {
		ttl = tm.ttl
	}

	// JWT dates carry whole seconds.
	issuedAt := tm.now().Truncate(time.Second)
	meta := domain.Token{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        meta.ID,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(meta.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(meta.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(tm.method, claims).SignedString(tm.secret)
	if err != nil {
		return "", domain.Token{}, err
	}
	return signed, meta, nil
}

// Verify checks signature, algorithm and expiry and returns the token subject.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{tm.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return "", classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrMalformed
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}

// FailureReason returns a short label for a verification error, for logs and metrics.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrMissingSubject):
		return "missing_subject"
	default:
		return "malformed"
	}
}
