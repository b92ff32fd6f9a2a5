package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RoyWG925/geo-dashboard-demo/internal/models"
)

type RefinementRepository struct {
	db *sql.DB
}

func NewRefinementRepository(db *sql.DB) *RefinementRepository {
	return &RefinementRepository{db: db}
}

// Insert appends one refinement audit row.
func (r *RefinementRepository) Insert(ctx context.Context, ref *models.Refinement) error {
	const query = `
INSERT INTO content_refinements (user_id, keyword, original_content, refinement_prompt, refined_content, model_used)
VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		ref.UserID, ref.Keyword, ref.OriginalContent, ref.RefinementPrompt, ref.RefinedContent, ref.ModelUsed)
	if err != nil {
		return fmt.Errorf("insert refinement: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		ref.ID = id
	}
	return nil
}
