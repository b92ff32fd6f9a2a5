package models

import "time"

// Refinement maps a row of the 'content_refinements' table: an audit
// trail of manual post-hoc edits. Never consulted as cache input.
type Refinement struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	Keyword          string    `json:"keyword" db:"keyword"`
	OriginalContent  string    `json:"original_content" db:"original_content"`
	RefinementPrompt string    `json:"refinement_prompt" db:"refinement_prompt"`
	RefinedContent   string    `json:"refined_content" db:"refined_content"`
	ModelUsed        string    `json:"model_used" db:"model_used"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
