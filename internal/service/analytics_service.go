package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/genre-sales-api/internal/domain"
	"github.com/spec-kit/genre-sales-api/internal/observability"
	"github.com/spec-kit/genre-sales-api/internal/repository"
)

// ErrNoData is returned when an analytical query has no sales to work with.
var ErrNoData = errors.New("no sales recorded")

const cacheKeyPrefix = "analytics:"

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AnalyticsService answers the read-only sales questions.
type AnalyticsService struct {
	sales    repository.SalesRepository
	cache    Cache
	cacheTTL time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// AnalyticsDependencies bundles the service collaborators. Cache is optional.
type AnalyticsDependencies struct {
	SalesRepo repository.SalesRepository
	Cache     Cache
	CacheTTL  time.Duration
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		sales:    deps.SalesRepo,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

// TotalGenresSold counts the distinct genres with at least one sale.
func (s *AnalyticsService) TotalGenresSold(ctx context.Context) (int64, error) {
	return cached(ctx, s, "total_genres_sold", s.sales.CountGenresSold)
}

// MostRecentSale returns the genre and date of the newest sale, or ErrNoData.
func (s *AnalyticsService) MostRecentSale(ctx context.Context) (domain.RecentSale, error) {
	return cached(ctx, s, "most_recent_sale", func(ctx context.Context) (domain.RecentSale, error) {
		sale, err := s.sales.MostRecentSale(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.RecentSale{}, ErrNoData
			}
			return domain.RecentSale{}, err
		}
		return *sale, nil
	})
}

// GenreSaleSummary returns one row per genre with sales, sorted by genre name.
func (s *AnalyticsService) GenreSaleSummary(ctx context.Context) ([]domain.GenreSaleSummary, error) {
	return cached(ctx, s, "genre_sale_summary", func(ctx context.Context) ([]domain.GenreSaleSummary, error) {
		lines, err := s.sales.ListGenreSales(ctx)
		if err != nil {
			return nil, err
		}
		return SummarizeGenreSales(lines), nil
	})
}

// UnsoldGenres returns genres that never sold, sorted by name. The slice is never nil.
func (s *AnalyticsService) UnsoldGenres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := cached(ctx, s, "unsold_genres", s.sales.ListUnsoldGenres)
	if err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []domain.Genre{}
	}
	return genres, nil
}

// SummarizeGenreSales groups sale lines by genre. Each group reports its line count and
// the date and track of its newest line; equal dates go to the higher invoice id, then
// the higher line id. Groups come back ordered by genre name, then genre id.
func SummarizeGenreSales(lines []domain.GenreSale) []domain.GenreSaleSummary {
	ordered := make([]domain.GenreSale, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.GenreName != b.GenreName {
			return a.GenreName < b.GenreName
		}
		if a.GenreID != b.GenreID {
			return a.GenreID < b.GenreID
		}
		if !a.InvoiceDate.Equal(b.InvoiceDate) {
			return a.InvoiceDate.After(b.InvoiceDate)
		}
		if a.InvoiceID != b.InvoiceID {
			return a.InvoiceID > b.InvoiceID
		}
		return a.InvoiceLineID > b.InvoiceLineID
	})

	summaries := []domain.GenreSaleSummary{}
	for i, line := range ordered {
		if i == 0 || line.GenreID != ordered[i-1].GenreID {
			summaries = append(summaries, domain.GenreSaleSummary{
				GenreID:       line.GenreID,
				Genre:         line.GenreName,
				LastSaleDate:  line.InvoiceDate,
				LastTrackSold: line.TrackName,
			})
		}
		summaries[len(summaries)-1].SalesCount++
	}
	return summaries
}

func cached[T any](ctx context.Context, s *AnalyticsService, name string, load func(context.Context) (T, error)) (T, error) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return load(ctx)
	}

	key := cacheKeyPrefix + name
	var value T
	raw, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.RecordCacheLookup(name, "error")
		s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		if err := json.Unmarshal(raw, &value); err == nil {
			s.metrics.RecordCacheLookup(name, "hit")
			return value, nil
		}
		s.metrics.RecordCacheLookup(name, "error")
		s.logger.Warn("analytics cache entry unreadable", zap.String("key", key))
	default:
		s.metrics.RecordCacheLookup(name, "miss")
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return value, fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
		s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
