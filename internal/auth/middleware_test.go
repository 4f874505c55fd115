package auth_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/genre-sales-api/internal/auth"
	"github.com/spec-kit/genre-sales-api/internal/domain"
	"github.com/spec-kit/genre-sales-api/internal/repository"
	apperrors "github.com/spec-kit/genre-sales-api/pkg/util/errorutil"
)

const testSecret = "test-secret-key-for-unit-tests"

type employeeLookup struct {
	employees map[string]*domain.Employee
	err       error
}

func (l *employeeLookup) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	if l.err != nil {
		return nil, l.err
	}
	if e, ok := l.employees[email]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (l *employeeLookup) UpdatePasswordHash(context.Context, string, string) error {
	return nil
}

func newManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager([]byte(testSecret), "HS256", time.Minute)
	require.NoError(t, err)
	return tm
}

// buildTestApp protects /me with the bearer middleware and the active-employee guard.
func buildTestApp(tm *auth.TokenManager, lookup *employeeLookup) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "message": de.Message}})
		},
	})
	mw := auth.NewAuthMiddleware(tm, lookup, nil, nil)
	app.Get("/me", mw.Handle, auth.RequireActiveEmployee(), func(c *fiber.Ctx) error {
		principal, ok := auth.PrincipalFromContext(c)
		if !ok {
			return errors.New("principal missing")
		}
		return c.JSON(fiber.Map{"email": principal.Employee.Email})
	})
	app.Get("/guard-only", auth.RequireActiveEmployee(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func knownEmployees() *employeeLookup {
	return &employeeLookup{employees: map[string]*domain.Employee{
		"andrew@chinookcorp.com": {ID: 1, Email: "andrew@chinookcorp.com"},
	}}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tm := newManager(t)
	app := buildTestApp(tm, knownEmployees())

	tok, _, err := tm.Issue("andrew@chinookcorp.com", 0)
	require.NoError(t, err)

	status, body := doRequest(t, app, "/me", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "andrew@chinookcorp.com")

	status, _ = doRequest(t, app, "/me", "bearer "+tok)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthMiddleware_RejectionsAreIndistinguishable(t *testing.T) {
	tm := newManager(t)
	app := buildTestApp(tm, knownEmployees())

	valid, _, err := tm.Issue("andrew@chinookcorp.com", 0)
	require.NoError(t, err)
	ghost, _, err := tm.Issue("ghost@chinookcorp.com", 0)
	require.NoError(t, err)
	other, err := auth.NewTokenManager([]byte("someone-elses-secret"), "HS256", time.Minute)
	require.NoError(t, err)
	forged, _, err := other.Issue("andrew@chinookcorp.com", 0)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tamperedPayload := strings.Join([]string{parts[0], flipAt(parts[1], len(parts[1])/2), parts[2]}, ".")
	tamperedSig := strings.Join([]string{parts[0], parts[1], flipAt(parts[2], 10)}, ".")

	headers := map[string]string{
		"missing header":   "",
		"wrong scheme":     "Token " + valid,
		"empty bearer":     "Bearer ",
		"malformed":        "Bearer token.invalido.aqui",
		"forged signature": "Bearer " + forged,
		"tampered payload": "Bearer " + tamperedPayload,
		"tampered sig":     "Bearer " + tamperedSig,
		"unknown subject":  "Bearer " + ghost,
	}

	var bodies []string
	for name, header := range headers {
		status, body := doRequest(t, app, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, status, name)
		assert.Contains(t, body, auth.CredentialsErrorMessage, name)
		bodies = append(bodies, body)
	}
	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}

func TestAuthMiddleware_StoreFailureIsServerError(t *testing.T) {
	tm := newManager(t)
	lookup := knownEmployees()
	lookup.err = errors.New("connection refused")
	app := buildTestApp(tm, lookup)

	tok, _, err := tm.Issue("andrew@chinookcorp.com", 0)
	require.NoError(t, err)

	status, body := doRequest(t, app, "/me", "Bearer "+tok)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body, "connection refused")
}

func TestRequireActiveEmployee_WithoutPrincipal(t *testing.T) {
	app := buildTestApp(newManager(t), knownEmployees())

	status, body := doRequest(t, app, "/guard-only", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "no account found")
}

func flipAt(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
