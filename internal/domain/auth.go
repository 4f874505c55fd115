package domain

import "time"

// Token describes an issued access token. Nothing about it is persisted.
type Token struct {
	ID        string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
