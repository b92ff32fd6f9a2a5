package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RoyWG925/geo-dashboard-demo/internal/models"
)

// UsageDefaults controls how a missing usage row is created.
type UsageDefaults struct {
	DefaultMaxUsage int
	AdminMaxUsage   int
	IsAdmin         func(email string) bool
}

type UsageRepository struct {
	db       *sql.DB
	defaults UsageDefaults
}

func NewUsageRepository(db *sql.DB, defaults UsageDefaults) *UsageRepository {
	return &UsageRepository{db: db, defaults: defaults}
}

const usageColumns = `id, user_id, email, usage_count, max_usage, is_premium, created_at, last_used_at`

func (r *UsageRepository) scanRecord(row *sql.Row) (*models.UsageRecord, error) {
	var rec models.UsageRecord
	var premium int
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Email, &rec.UsageCount, &rec.MaxUsage, &premium, &rec.CreatedAt, &rec.LastUsedAt); err != nil {
		return nil, err
	}
	rec.IsPremium = premium != 0
	return &rec, nil
}

// Find returns the usage row for userID, or nil if no row exists yet.
func (r *UsageRepository) Find(ctx context.Context, userID int64) (*models.UsageRecord, error) {
	query := `SELECT ` + usageColumns + ` FROM user_usage WHERE user_id = ?`
	rec, err := r.scanRecord(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find usage record: %w", err)
	}
	return rec, nil
}

// GetOrCreate fetches the usage row for userID, inserting the default row
// on first access. Allow-listed administrator emails get an effectively
// unlimited cap and the premium flag.
func (r *UsageRepository) GetOrCreate(ctx context.Context, userID int64, email string) (*models.UsageRecord, error) {
	rec, err := r.Find(ctx, userID)
	if err != nil || rec != nil {
		return rec, err
	}

	maxUsage := r.defaults.DefaultMaxUsage
	premium := 0
	if r.defaults.IsAdmin != nil && r.defaults.IsAdmin(email) {
		maxUsage = r.defaults.AdminMaxUsage
		premium = 1
	}

	const insert = `
INSERT INTO user_usage (user_id, email, usage_count, max_usage, is_premium)
VALUES (?, ?, 0, ?, ?)`
	if _, err := r.db.ExecContext(ctx, insert, userID, email, maxUsage, premium); err != nil {
		// A concurrent first request may have inserted the row already;
		// fall through to the re-read either way.
		rec, findErr := r.Find(ctx, userID)
		if findErr == nil && rec != nil {
			return rec, nil
		}
		return nil, fmt.Errorf("insert usage record: %w", err)
	}

	return r.Find(ctx, userID)
}

// Reserve consumes one usage unit. The increment and the ceiling check
// are one conditional UPDATE, so concurrent requests from the same user
// can never push usage_count past max_usage. Returns the post-reserve
// record and whether the reservation succeeded.
func (r *UsageRepository) Reserve(ctx context.Context, userID int64) (*models.UsageRecord, bool, error) {
	const update = `
UPDATE user_usage SET usage_count = usage_count + 1, last_used_at = NOW()
WHERE user_id = ? AND (is_premium = 1 OR usage_count < max_usage)`
	res, err := r.db.ExecContext(ctx, update, userID)
	if err != nil {
		return nil, false, fmt.Errorf("reserve usage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("reserve rows affected: %w", err)
	}

	rec, err := r.Find(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, fmt.Errorf("usage record missing for user %d", userID)
	}
	return rec, affected > 0, nil
}

// Reset zeroes the usage counter. Administrator surface only.
func (r *UsageRepository) Reset(ctx context.Context, userID int64) error {
	const query = `UPDATE user_usage SET usage_count = 0 WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("reset usage: %w", err)
	}
	return nil
}

// SetLimits updates the cap and premium flag. Administrator surface only.
func (r *UsageRepository) SetLimits(ctx context.Context, userID int64, maxUsage int, isPremium bool) error {
	if maxUsage < 0 {
		return fmt.Errorf("max_usage must be non-negative")
	}
	premium := 0
	if isPremium {
		premium = 1
	}
	const query = `UPDATE user_usage SET max_usage = ?, is_premium = ? WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, maxUsage, premium, userID); err != nil {
		return fmt.Errorf("set usage limits: %w", err)
	}
	return nil
}

// ListAll returns every usage row, newest first, for the admin table.
func (r *UsageRepository) ListAll(ctx context.Context) ([]*models.UsageRecord, error) {
	query := `SELECT ` + usageColumns + ` FROM user_usage ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	defer rows.Close()

	var records []*models.UsageRecord
	for rows.Next() {
		var rec models.UsageRecord
		var premium int
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Email, &rec.UsageCount, &rec.MaxUsage, &premium, &rec.CreatedAt, &rec.LastUsedAt); err != nil {
			return nil, fmt.Errorf("scan usage record: %w", err)
		}
		rec.IsPremium = premium != 0
		records = append(records, &rec)
	}
	return records, rows.Err()
}
