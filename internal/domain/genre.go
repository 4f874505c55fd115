package domain

import "time"

// Genre is a music genre from the catalogue.
type Genre struct {
	ID   int64  `json:"GenreId"`
	Name string `json:"Name"`
}

// GenreSale is one invoice line joined to its track, genre and invoice.
type GenreSale struct {
	GenreID       int64
	GenreName     string
	InvoiceID     int64
	InvoiceLineID int64
	InvoiceDate   time.Time
	TrackName     string
}

// RecentSale identifies the newest sale across all genres.
type RecentSale struct {
	Genre  string    `json:"genre"`
	SoldAt time.Time `json:"sold_at"`
}

// GenreSaleSummary aggregates the sales of a single genre.
type GenreSaleSummary struct {
	GenreID       int64     `json:"genre_id"`
	Genre         string    `json:"genre"`
	SalesCount    int64     `json:"sales_count"`
	LastSaleDate  time.Time `json:"last_sale_date"`
	LastTrackSold string    `json:"last_track_sold"`
}
