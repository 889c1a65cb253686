package models

import "time"

// Product is a catalog entry offered by a farmer.
// Price is in the smallest currency unit (IDR has none, so whole rupiah).
type Product struct {
	ID          uint64
	UserID      uint64
	Name        string
	Description string
	Price       int64
	Stock       int32
	Unit        string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
