package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/genre-sales-api/internal/domain"
	"github.com/spec-kit/genre-sales-api/internal/observability"
	"github.com/spec-kit/genre-sales-api/internal/repository"
	apperrors "github.com/spec-kit/genre-sales-api/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// CredentialsErrorMessage is returned for every rejected bearer token.
const CredentialsErrorMessage = "could not validate credentials"

// Principal represents the authenticated caller.
type Principal struct {
	Subject  string
	Employee *domain.Employee
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	employees repository.EmployeeRepository
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, employees repository.EmployeeRepository, metrics *observability.Metrics, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, employees: employees, metrics: metrics, logger: logger}
}

// Handle enforces authentication for protected routes. Every rejection looks the same to the caller.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return m.reject("missing_bearer")
	}

	subject, err := m.tokens.Verify(raw)
	if err != nil {
		return m.reject(FailureReason(err))
	}

	employee, err := m.employees.GetByEmail(c.UserContext(), subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return m.reject("unknown_subject")
		}
		return apperrors.NewInternalError(err)
	}

	c.Locals(principalKey, &Principal{Subject: subject, Employee: employee})
	return c.Next()
}

func (m *AuthMiddleware) reject(reason string) error {
	m.metrics.RecordAuthFailure(reason)
	m.logger.Debug("bearer token rejected", zap.String("reason", reason))
	return apperrors.NewUnauthorized(CredentialsErrorMessage)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}
