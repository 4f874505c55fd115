package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/genre-sales-api/internal/domain"
)

// EmployeeRepository looks up employees, whose email is the login identifier.
type EmployeeRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	UpdatePasswordHash(ctx context.Context, email, hash string) error
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

// GetByEmail matches the email exactly, case included.
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	const query = `
        SELECT employee_id, first_name, last_name, COALESCE(title, ''), email, password_hash
        FROM employees WHERE email=$1`

	var emp domain.Employee
	err := withConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query, email).Scan(
			&emp.ID,
			&emp.FirstName,
			&emp.LastName,
			&emp.Title,
			&emp.Email,
			&emp.PasswordHash,
		)
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &emp, nil
}

func (r *employeeRepository) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	const query = `UPDATE employees SET password_hash=$1 WHERE email=$2`

	return withConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		cmd, err := conn.Exec(ctx, query, hash, email)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}
