package model

import "time"

// LearnedPattern is a user's earlier correction, replayed on future descriptions
// containing the same fragment.
type LearnedPattern struct {
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	UserID             string    `json:"user_id"`
	DescriptionPattern string    `json:"description_pattern"`
	CorrectedCategory  string    `json:"corrected_category"`
	CorrectedLabel     string    `json:"corrected_label"`
	ID                 int64     `json:"id"`
	Frequency          int       `json:"frequency"`
}
