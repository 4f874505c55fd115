package dto

import (
	"time"

	"github.com/spec-kit/genre-sales-api/internal/domain"
)

// SaleDateLayout renders invoice timestamps.
const SaleDateLayout = "2006-01-02 15:04:05"

// TotalGenreResponse payload for GET /total-genre.
type TotalGenreResponse struct {
	TotalGenreSold int64 `json:"total-genre-sold"`
}

// RecentSaleResponse payload for GET /recent-sale.
type RecentSaleResponse struct {
	Genre    string `json:"genre"`
	DateSold string `json:"date-sold"`
}

// GenreSaleSummaryResponse is one row of GET /genre-sale-summary.
type GenreSaleSummaryResponse struct {
	Genre         string `json:"genre"`
	SalesCount    int64  `json:"sales-count"`
	LastSaleDate  string `json:"last-sale-date"`
	LastTrackSold string `json:"last-track-sold"`
}

// UnsoldGenreResponse is one row of GET /not-sold.
type UnsoldGenreResponse struct {
	GenreID int64  `json:"GenreId"`
	Name    string `json:"Name"`
}

// FormatSaleDate renders t in SaleDateLayout.
func FormatSaleDate(t time.Time) string {
	return t.Format(SaleDateLayout)
}

// NewRecentSaleResponse maps the domain value.
func NewRecentSaleResponse(sale domain.RecentSale) RecentSaleResponse {
	return RecentSaleResponse{Genre: sale.Genre, DateSold: FormatSaleDate(sale.SoldAt)}
}

// NewGenreSaleSummaryResponse maps the summary rows, keeping their order.
func NewGenreSaleSummaryResponse(rows []domain.GenreSaleSummary) []GenreSaleSummaryResponse {
	out := make([]GenreSaleSummaryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, GenreSaleSummaryResponse{
			Genre:         row.Genre,
			SalesCount:    row.SalesCount,
			LastSaleDate:  FormatSaleDate(row.LastSaleDate),
			LastTrackSold: row.LastTrackSold,
		})
	}
	return out
}

// NewUnsoldGenreResponse maps genres; the result is never nil.
func NewUnsoldGenreResponse(genres []domain.Genre) []UnsoldGenreResponse {
	out := make([]UnsoldGenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, UnsoldGenreResponse{GenreID: g.ID, Name: g.Name})
	}
	return out
}
