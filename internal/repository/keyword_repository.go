package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RoyWG925/geo-dashboard-demo/internal/models"
	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateKeyword is returned when the user already has the keyword
// in their personal list.
var ErrDuplicateKeyword = errors.New("keyword already exists for user")

type KeywordRepository struct {
	db *sql.DB
}

func NewKeywordRepository(db *sql.DB) *KeywordRepository {
	return &KeywordRepository{db: db}
}

// ListByUser returns the user's personal keywords, newest first.
func (r *KeywordRepository) ListByUser(ctx context.Context, userID int64) ([]*models.CustomKeyword, error) {
	const query = `
SELECT id, user_id, keyword, created_at FROM custom_keywords
WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list custom keywords: %w", err)
	}
	defer rows.Close()

	keywords := []*models.CustomKeyword{}
	for rows.Next() {
		var kw models.CustomKeyword
		if err := rows.Scan(&kw.ID, &kw.UserID, &kw.Keyword, &kw.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan custom keyword: %w", err)
		}
		keywords = append(keywords, &kw)
	}
	return keywords, rows.Err()
}

// Add inserts a keyword for the user. Uniqueness per user is enforced by
// the table's unique key; a duplicate maps to ErrDuplicateKeyword.
func (r *KeywordRepository) Add(ctx context.Context, userID int64, keyword string) (*models.CustomKeyword, error) {
	const query = `INSERT INTO custom_keywords (user_id, keyword) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, userID, keyword)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrDuplicateKeyword
		}
		return nil, fmt.Errorf("insert custom keyword: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("custom keyword insert id: %w", err)
	}
	return &models.CustomKeyword{ID: id, UserID: userID, Keyword: keyword}, nil
}

// Delete removes the user's own keyword row. Returns false when no row
// matched (wrong id or someone else's keyword).
func (r *KeywordRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	const query = `DELETE FROM custom_keywords WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete custom keyword: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete keyword rows affected: %w", err)
	}
	return affected > 0, nil
}
