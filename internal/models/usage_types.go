package models

import "time"

// UsageRecord maps a row of the 'user_usage' table. One row per user,
// created lazily the first time the user touches a quota-gated endpoint.
// Field names follow the table columns so the dashboard can consume the
// JSON directly.
type UsageRecord struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	Email      string     `json:"email" db:"email"`
	UsageCount int        `json:"usage_count" db:"usage_count"`
	MaxUsage   int        `json:"max_usage" db:"max_usage"`
	IsPremium  bool       `json:"is_premium" db:"is_premium"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at" db:"last_used_at"`
}

// Remaining reports how many runs the user has left. Premium users are
// never capped.
func (u *UsageRecord) Remaining() int {
	if u.IsPremium {
		return -1
	}
	if left := u.MaxUsage - u.UsageCount; left > 0 {
		return left
	}
	return 0
}
