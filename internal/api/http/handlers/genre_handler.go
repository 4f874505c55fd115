package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/genre-sales-api/internal/api/dto"
	"github.com/spec-kit/genre-sales-api/internal/service"
	apperrors "github.com/spec-kit/genre-sales-api/pkg/util/errorutil"
)

// GenreHandler exposes the sales analytics endpoints.
type GenreHandler struct {
	analytics *service.AnalyticsService
}

// NewGenreHandler constructs handler.
func NewGenreHandler(analytics *service.AnalyticsService) *GenreHandler {
	return &GenreHandler{analytics: analytics}
}

// TotalGenre handles GET /total-genre.
func (h *GenreHandler) TotalGenre(c *fiber.Ctx) error {
	total, err := h.analytics.TotalGenresSold(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.TotalGenreResponse{TotalGenreSold: total})
}

// RecentSale handles GET /recent-sale.
func (h *GenreHandler) RecentSale(c *fiber.Ctx) error {
	sale, err := h.analytics.MostRecentSale(c.UserContext())
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			return apperrors.NewNoData(service.ErrNoData.Error())
		}
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewRecentSaleResponse(sale))
}

// GenreSaleSummary handles GET /genre-sale-summary.
func (h *GenreHandler) GenreSaleSummary(c *fiber.Ctx) error {
	rows, err := h.analytics.GenreSaleSummary(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewGenreSaleSummaryResponse(rows))
}

// NotSold handles GET /not-sold.
func (h *GenreHandler) NotSold(c *fiber.Ctx) error {
	genres, err := h.analytics.UnsoldGenres(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewUnsoldGenreResponse(genres))
}
