package models

import "time"

// AnalysisResult maps a row of the 'geo_analysis_results' table.
// Rows are append-only; the newest row for a keyword doubles as the
// cache entry for that keyword.
type AnalysisResult struct {
	ID           int64     `json:"id" db:"id"`
	Keyword      string    `json:"keyword" db:"keyword"`
	PAAQuestions []string  `json:"paa_questions" db:"paa_questions"`
	Content      string    `json:"geo_optimized_content" db:"geo_optimized_content"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
