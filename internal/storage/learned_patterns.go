package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

const learnedColumns = `id, user_id, description_pattern, corrected_category, corrected_label,
	frequency, created_at, updated_at`

// RecordCorrection saves a user's recategorization of a description fragment. The
// fragment is normalized like a description before it is stored. A
// repeat correction of the same fragment bumps its frequency and replaces the
// category and label with the latest choice.
func (s *SQLiteStorage) RecordCorrection(ctx context.Context, userID, fragment, category, label string) (*model.LearnedPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUserID, err)
	}
	if err := validateString(fragment, "fragment"); err != nil {
		return nil, err
	}
	if err := model.ValidateCategoryLabel(category, label); err != nil {
		return nil, err
	}

	// Stored in the same cleaned form descriptions are matched in, so a raw
	// description recorded as-is still matches itself.
	fragment, _ = categorize.Normalize(fragment)
	if fragment == "" {
		return nil, fmt.Errorf("%w: fragment has no matchable text", ErrEmptyString)
	}
	now := s.now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learned_patterns (
			user_id, description_pattern, corrected_category, corrected_label,
			frequency, created_at, updated_at
		) VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id, description_pattern) DO UPDATE SET
			corrected_category = excluded.corrected_category,
			corrected_label = excluded.corrected_label,
			frequency = learned_patterns.frequency + 1,
			updated_at = excluded.updated_at
	`, userID, fragment, category, label, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record correction: %w", err)
	}

	return s.getLearnedPattern(ctx, userID, fragment)
}

func (s *SQLiteStorage) getLearnedPattern(ctx context.Context, userID, fragment string) (*model.LearnedPattern, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+learnedColumns+` FROM learned_patterns WHERE user_id = ? AND description_pattern = ?`,
		userID, fragment)

	lp, err := scanLearned(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("learned pattern %q: %w", fragment, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get learned pattern: %w", err)
	}
	return lp, nil
}

// GetLearnedPatterns returns a user's learned patterns, most recently corrected
// first. This is the order the engine should consult them in.
func (s *SQLiteStorage) GetLearnedPatterns(ctx context.Context, userID string) ([]model.LearnedPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+learnedColumns+` FROM learned_patterns
		WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query learned patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.LearnedPattern
	for rows.Next() {
		lp, err := scanLearned(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learned pattern: %w", err)
		}
		patterns = append(patterns, *lp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating learned patterns: %w", err)
	}

	return patterns, nil
}

// DeleteLearnedPattern removes one of a user's learned patterns.
func (s *SQLiteStorage) DeleteLearnedPattern(ctx context.Context, userID string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM learned_patterns WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete learned pattern: %w", err)
	}
	return checkRowsAffected(result, fmt.Sprintf("learned pattern %d", id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLearned(row rowScanner) (*model.LearnedPattern, error) {
	var lp model.LearnedPattern
	err := row.Scan(
		&lp.ID, &lp.UserID, &lp.DescriptionPattern, &lp.CorrectedCategory, &lp.CorrectedLabel,
		&lp.Frequency, &lp.CreatedAt, &lp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lp, nil
}
