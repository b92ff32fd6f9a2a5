package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RoyWG925/geo-dashboard-demo/internal/models"
)

type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Insert appends a new analysis row. Rows are never updated or deleted;
// the newest row per keyword serves as the cache entry.
func (r *ResultRepository) Insert(ctx context.Context, result *models.AnalysisResult) error {
	paa, err := json.Marshal(result.PAAQuestions)
	if err != nil {
		return fmt.Errorf("marshal paa questions: %w", err)
	}

	const query = `
INSERT INTO geo_analysis_results (keyword, paa_questions, geo_optimized_content)
VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, result.Keyword, string(paa), result.Content)
	if err != nil {
		return fmt.Errorf("insert analysis result: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		result.ID = id
	}
	return nil
}

// FindLatest returns the most recent row for the exact keyword string,
// or nil when no row exists.
func (r *ResultRepository) FindLatest(ctx context.Context, keyword string) (*models.AnalysisResult, error) {
	const query = `
SELECT id, keyword, paa_questions, geo_optimized_content, created_at
FROM geo_analysis_results
WHERE keyword = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, keyword)
	result, err := scanResult(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest analysis: %w", err)
	}
	return result, nil
}

// ListRecent returns up to limit rows, newest first.
func (r *ResultRepository) ListRecent(ctx context.Context, limit int) ([]*models.AnalysisResult, error) {
	const query = `
SELECT id, keyword, paa_questions, geo_optimized_content, created_at
FROM geo_analysis_results
ORDER BY created_at DESC, id DESC
LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent analyses: %w", err)
	}
	defer rows.Close()

	var results []*models.AnalysisResult
	for rows.Next() {
		result, err := scanResult(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan analysis result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func scanResult(scan func(dest ...any) error) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	var paaRaw sql.NullString
	if err := scan(&result.ID, &result.Keyword, &paaRaw, &result.Content, &result.CreatedAt); err != nil {
		return nil, err
	}
	result.PAAQuestions = []string{}
	if paaRaw.Valid && paaRaw.String != "" {
		// Older rows may carry malformed JSON; treat that as no questions
		// rather than failing the read.
		_ = json.Unmarshal([]byte(paaRaw.String), &result.PAAQuestions)
	}
	return &result, nil
}
