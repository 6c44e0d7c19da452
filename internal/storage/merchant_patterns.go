package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/spice-categorizer/internal/model"
)

// CreateMerchantPattern stores a new merchant pattern. Tokens are upper-cased
// before storage; category and label must belong to the taxonomy.
func (s *SQLiteStorage) CreateMerchantPattern(ctx context.Context, m *model.MerchantPattern) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMerchantPattern(m); err != nil {
		return err
	}

	m.Pattern = normalizeToken(m.Pattern)
	alternates := make([]string, 0, len(m.AlternatePatterns))
	for _, alt := range m.AlternatePatterns {
		alternates = append(alternates, normalizeToken(alt))
	}
	m.AlternatePatterns = alternates

	altJSON, err := json.Marshal(alternates)
	if err != nil {
		return fmt.Errorf("failed to encode alternate patterns: %w", err)
	}

	createdAt := s.now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO merchant_patterns (pattern, alternate_patterns, category, label, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, m.Pattern, string(altJSON), m.Category, m.Label, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("merchant pattern %q: %w", m.Pattern, ErrDuplicate)
		}
		return fmt.Errorf("failed to create merchant pattern: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get merchant pattern ID: %w", err)
	}

	m.ID = id
	m.CreatedAt = createdAt
	return nil
}

// ListMerchantPatterns returns every merchant pattern in insertion order, which is
// the order the engine evaluates them in.
func (s *SQLiteStorage) ListMerchantPatterns(ctx context.Context) ([]model.MerchantPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pattern, alternate_patterns, category, label, created_at
		FROM merchant_patterns
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var merchants []model.MerchantPattern
	for rows.Next() {
		var m model.MerchantPattern
		var altJSON string
		if err := rows.Scan(&m.ID, &m.Pattern, &altJSON, &m.Category, &m.Label, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan merchant pattern: %w", err)
		}
		if err := json.Unmarshal([]byte(altJSON), &m.AlternatePatterns); err != nil {
			return nil, fmt.Errorf("failed to decode alternate patterns for %q: %w", m.Pattern, err)
		}
		if len(m.AlternatePatterns) == 0 {
			m.AlternatePatterns = nil
		}
		merchants = append(merchants, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merchant patterns: %w", err)
	}

	return merchants, nil
}

// DeleteMerchantPattern removes a merchant pattern by ID.
func (s *SQLiteStorage) DeleteMerchantPattern(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM merchant_patterns WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete merchant pattern: %w", err)
	}
	return checkRowsAffected(result, fmt.Sprintf("merchant pattern %d", id))
}
