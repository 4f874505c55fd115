package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/genre-sales-api/internal/domain"
)

// SalesRepository runs the read-only aggregation queries over the sales schema.
type SalesRepository interface {
	CountGenresSold(ctx context.Context) (int64, error)
	MostRecentSale(ctx context.Context) (*domain.RecentSale, error)
	ListGenreSales(ctx context.Context) ([]domain.GenreSale, error)
	ListUnsoldGenres(ctx context.Context) ([]domain.Genre, error)
}

type salesRepository struct {
	pool *pgxpool.Pool
}

// NewSalesRepository returns a Postgres-backed implementation.
func NewSalesRepository(pool *pgxpool.Pool) SalesRepository {
	return &salesRepository{pool: pool}
}

func (r *salesRepository) CountGenresSold(ctx context.Context) (int64, error) {
	const query = `
        SELECT COUNT(DISTINCT t.genre_id)
        FROM invoice_items ii
        JOIN tracks t ON t.track_id = ii.track_id
        WHERE t.genre_id IS NOT NULL`

	var total int64
	err := readSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query).Scan(&total)
	})
	if err != nil {
		return 0, fmt.Errorf("sales.CountGenresSold: %w", err)
	}
	return total, nil
}

// MostRecentSale returns ErrNotFound when no sale exists.
func (r *salesRepository) MostRecentSale(ctx context.Context) (*domain.RecentSale, error) {
	const query = `
        SELECT g.name, i.invoice_date
        FROM invoice_items ii
        JOIN tracks t   ON t.track_id   = ii.track_id
        JOIN genres g   ON g.genre_id   = t.genre_id
        JOIN invoices i ON i.invoice_id = ii.invoice_id
        ORDER BY i.invoice_date DESC, i.invoice_id DESC, ii.invoice_line_id DESC
        LIMIT 1`

	var sale domain.RecentSale
	err := readSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query).Scan(&sale.Genre, &sale.SoldAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sales.MostRecentSale: %w", err)
	}
	return &sale, nil
}

// ListGenreSales streams every sale line ordered so the newest line of each genre comes first.
func (r *salesRepository) ListGenreSales(ctx context.Context) ([]domain.GenreSale, error) {
	const query = `
        SELECT g.genre_id, g.name, i.invoice_id, ii.invoice_line_id, i.invoice_date, t.name
        FROM invoice_items ii
        JOIN tracks t   ON t.track_id   = ii.track_id
        JOIN genres g   ON g.genre_id   = t.genre_id
        JOIN invoices i ON i.invoice_id = ii.invoice_id
        ORDER BY g.name, g.genre_id, i.invoice_date DESC, i.invoice_id DESC, ii.invoice_line_id DESC`

	var result []domain.GenreSale
	err := readSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var sale domain.GenreSale
			if err := rows.Scan(
				&sale.GenreID,
				&sale.GenreName,
				&sale.InvoiceID,
				&sale.InvoiceLineID,
				&sale.InvoiceDate,
				&sale.TrackName,
			); err != nil {
				return err
			}
			result = append(result, sale)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("sales.ListGenreSales: %w", err)
	}
	return result, nil
}

func (r *salesRepository) ListUnsoldGenres(ctx context.Context) ([]domain.Genre, error) {
	const query = `
        SELECT g.genre_id, g.name
        FROM genres g
        WHERE NOT EXISTS (
            SELECT 1
            FROM tracks t
            JOIN invoice_items ii ON ii.track_id = t.track_id
            WHERE t.genre_id = g.genre_id
        )
        ORDER BY g.name, g.genre_id`

	result := []domain.Genre{}
	err := readSnapshot(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var genre domain.Genre
			if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
				return err
			}
			result = append(result, genre)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("sales.ListUnsoldGenres: %w", err)
	}
	return result, nil
}
