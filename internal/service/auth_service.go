package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/genre-sales-api/internal/auth"
	"github.com/spec-kit/genre-sales-api/internal/config"
	"github.com/spec-kit/genre-sales-api/internal/domain"
	"github.com/spec-kit/genre-sales-api/internal/events"
	"github.com/spec-kit/genre-sales-api/internal/observability"
	"github.com/spec-kit/genre-sales-api/internal/repository"
)

// ErrInvalidCredentials is the only failure a login caller ever sees.
var ErrInvalidCredentials = errors.New("incorrect username or password")

const (
	reasonUnknownEmployee  = "unknown_employee"
	reasonNoPassword       = "no_password_set"
	reasonPasswordMismatch = "password_mismatch"
)

// AuthService coordinates credential checks and token issuance.
type AuthService struct {
	employees       repository.EmployeeRepository
	tokenMgr        *auth.TokenManager
	dispatcher      events.Dispatcher
	metrics         *observability.Metrics
	logger          *zap.Logger
	bcryptCost      int
	requirePassword bool
	placeholderHash string
	now             func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Tokens       *auth.TokenManager
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Hashed at the SetPassword cost; unknown accounts compare against it.
	var placeholder string
	if cfg.RequirePassword {
		var err error
		placeholder, err = auth.NewPlaceholderHash(cfg.BcryptCost)
		if err != nil {
			logger.Warn("placeholder hash unavailable", zap.Error(err))
		}
	}

	return &AuthService{
		employees:       deps.EmployeeRepo,
		tokenMgr:        deps.Tokens,
		dispatcher:      deps.Dispatcher,
		metrics:         deps.Metrics,
		logger:          logger,
		bcryptCost:      cfg.BcryptCost,
		requirePassword: cfg.RequirePassword,
		placeholderHash: placeholder,
		now:             time.Now,
	}
}

// Authenticate resolves the employee for username and checks the password.
// With password checks disabled the employee's existence is sufficient.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Employee, error) {
	employee, err := s.employees.GetByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if s.requirePassword {
				auth.BurnComparison(s.placeholderHash, password)
			}
			return nil, s.reject(ctx, username, reasonUnknownEmployee)
		}
		return nil, fmt.Errorf("lookup employee: %w", err)
	}

	if !s.requirePassword {
		return employee, nil
	}
	if !employee.HasPassword() {
		auth.BurnComparison(s.placeholderHash, password)
		return nil, s.reject(ctx, username, reasonNoPassword)
	}
	if err := auth.ComparePassword(*employee.PasswordHash, password); err != nil {
		return nil, s.reject(ctx, username, reasonPasswordMismatch)
	}
	return employee, nil
}

// Login authenticates and issues an access token with the configured lifetime.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.Token, error) {
	employee, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", domain.Token{}, err
	}

	token, meta, err := s.tokenMgr.Issue(employee.Email, 0)
	if err != nil {
		return "", domain.Token{}, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.RecordTokenIssued()
	s.publish(ctx, events.Event{
		Type:    events.EventLoginSucceeded,
		Subject: employee.Email,
		Payload: events.LoginSucceededPayload{
			EmployeeID: employee.ID,
			TokenID:    meta.ID,
			ExpiresAt:  meta.ExpiresAt,
		},
	})
	return token, meta, nil
}

// SetPassword stores a new bcrypt hash for the employee with the given email.
func (s *AuthService) SetPassword(ctx context.Context, email, password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.employees.UpdatePasswordHash(ctx, email, hash)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) reject(ctx context.Context, username, reason string) error {
	s.metrics.RecordAuthFailure(reason)
	s.publish(ctx, events.Event{
		Type:    events.EventLoginFailed,
		Subject: username,
		Payload: events.LoginFailedPayload{Reason: reason},
	})
	return ErrInvalidCredentials
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
