package store

import "time"

// Event is a stored calendar entry. Date is a canonical YYYY-MM-DD key.
type Event struct {
	ID        string    `db:"id"`
	Date      string    `db:"date"`
	Title     string    `db:"title"`
	Category  string    `db:"category"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
