package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-categorizer/internal/model"
)

// CreateKeyword stores a keyword for a category and label.
func (s *SQLiteStorage) CreateKeyword(ctx context.Context, k *model.Keyword) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKeyword(k); err != nil {
		return err
	}

	k.Keyword = normalizeToken(k.Keyword)
	createdAt := s.now()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO keywords (keyword, category, label, created_at)
		VALUES (?, ?, ?, ?)
	`, k.Keyword, k.Category, k.Label, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("keyword %q for %s/%s: %w", k.Keyword, k.Category, k.Label, ErrDuplicate)
		}
		return fmt.Errorf("failed to create keyword: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get keyword ID: %w", err)
	}

	k.ID = id
	k.CreatedAt = createdAt
	return nil
}

// ListKeywords returns every keyword row in insertion order.
func (s *SQLiteStorage) ListKeywords(ctx context.Context) ([]model.Keyword, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, keyword, category, label, created_at
		FROM keywords
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keywords []model.Keyword
	for rows.Next() {
		var k model.Keyword
		if err := rows.Scan(&k.ID, &k.Keyword, &k.Category, &k.Label, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keywords: %w", err)
	}

	return keywords, nil
}

// DeleteKeyword removes a keyword by ID.
func (s *SQLiteStorage) DeleteKeyword(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM keywords WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	return checkRowsAffected(result, fmt.Sprintf("keyword %d", id))
}
