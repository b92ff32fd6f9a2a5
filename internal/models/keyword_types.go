package models

import "time"

// CustomKeyword maps a row of the 'custom_keywords' table: a keyword a
// premium user added next to the spreadsheet import. Unique per user.
type CustomKeyword struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Keyword   string    `json:"keyword" db:"keyword"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
