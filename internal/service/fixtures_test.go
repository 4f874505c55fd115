package service

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/genre-sales-api/internal/domain"
	"github.com/spec-kit/genre-sales-api/internal/repository"
)

type fixtureTrack struct {
	id      int64
	name    string
	genreID *int64
}

type fixtureInvoice struct {
	id   int64
	date time.Time
}

type fixtureItem struct {
	lineID    int64
	invoiceID int64
	trackID   int64
}

// salesFixture evaluates the analytical joins over in-memory tables.
type salesFixture struct {
	genres   []domain.Genre
	tracks   []fixtureTrack
	invoices []fixtureInvoice
	items    []fixtureItem

	err   error
	calls int
}

var _ repository.SalesRepository = (*salesFixture)(nil)

func genreRef(id int64) *int64 { return &id }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *salesFixture) joined() []domain.GenreSale {
	tracks := map[int64]fixtureTrack{}
	for _, t := range f.tracks {
		tracks[t.id] = t
	}
	genres := map[int64]string{}
	for _, g := range f.genres {
		genres[g.ID] = g.Name
	}
	invoices := map[int64]time.Time{}
	for _, inv := range f.invoices {
		invoices[inv.id] = inv.date
	}

	var out []domain.GenreSale
	for _, item := range f.items {
		track := tracks[item.trackID]
		if track.genreID == nil {
			continue
		}
		out = append(out, domain.GenreSale{
			GenreID:       *track.genreID,
			GenreName:     genres[*track.genreID],
			InvoiceID:     item.invoiceID,
			InvoiceLineID: item.lineID,
			InvoiceDate:   invoices[item.invoiceID],
			TrackName:     track.name,
		})
	}
	return out
}

func (f *salesFixture) CountGenresSold(context.Context) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	seen := map[int64]struct{}{}
	for _, line := range f.joined() {
		seen[line.GenreID] = struct{}{}
	}
	return int64(len(seen)), nil
}

func (f *salesFixture) MostRecentSale(context.Context) (*domain.RecentSale, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	lines := f.joined()
	if len(lines) == 0 {
		return nil, repository.ErrNotFound
	}
	best := lines[0]
	for _, line := range lines[1:] {
		if line.InvoiceDate.After(best.InvoiceDate) ||
			(line.InvoiceDate.Equal(best.InvoiceDate) && line.InvoiceID > best.InvoiceID) {
			best = line
		}
	}
	return &domain.RecentSale{Genre: best.GenreName, SoldAt: best.InvoiceDate}, nil
}

func (f *salesFixture) ListGenreSales(context.Context) ([]domain.GenreSale, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.joined(), nil
}

func (f *salesFixture) ListUnsoldGenres(context.Context) ([]domain.Genre, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	sold := map[int64]struct{}{}
	for _, line := range f.joined() {
		sold[line.GenreID] = struct{}{}
	}
	out := []domain.Genre{}
	for _, g := range f.genres {
		if _, ok := sold[g.ID]; !ok {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// twoGenreFixture: genre A sold three times (latest 2024-01-05, "Alpha"), genre B never.
func twoGenreFixture() *salesFixture {
	return &salesFixture{
		genres: []domain.Genre{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		tracks: []fixtureTrack{
			{id: 10, name: "Alpha", genreID: genreRef(1)},
			{id: 11, name: "Beta", genreID: genreRef(1)},
			{id: 20, name: "Unsold", genreID: genreRef(2)},
		},
		invoices: []fixtureInvoice{
			{id: 100, date: day(2024, 1, 1)},
			{id: 101, date: day(2024, 1, 3)},
			{id: 102, date: day(2024, 1, 5)},
		},
		items: []fixtureItem{
			{lineID: 1, invoiceID: 100, trackID: 11},
			{lineID: 2, invoiceID: 101, trackID: 11},
			{lineID: 3, invoiceID: 102, trackID: 10},
		},
	}
}

func mapCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

type memoryCache struct {
	entries map[string][]byte
	getErr  error
	sets    int
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	c.entries[key] = value
	return nil
}
