package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spice-categorizer/internal/common"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

// Validation and lookup errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrNotFound      = common.ErrNotFound
	ErrDuplicate     = common.ErrDuplicateEntry
	ErrInvalidUserID = errors.New("invalid user id")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateMerchantPattern(m *model.MerchantPattern) error {
	if m == nil {
		return fmt.Errorf("%w: merchant pattern", ErrNilParameter)
	}
	if err := validateString(m.Pattern, "pattern"); err != nil {
		return err
	}
	for i, alt := range m.AlternatePatterns {
		if err := validateString(alt, fmt.Sprintf("alternate pattern %d", i)); err != nil {
			return err
		}
	}
	return model.ValidateCategoryLabel(m.Category, m.Label)
}

func validateKeyword(k *model.Keyword) error {
	if k == nil {
		return fmt.Errorf("%w: keyword", ErrNilParameter)
	}
	if err := validateString(k.Keyword, "keyword"); err != nil {
		return err
	}
	return model.ValidateCategoryLabel(k.Category, k.Label)
}

// normalizeToken upper-cases a pattern token and collapses its whitespace so
// stored tokens compare the same way the engine matches them.
func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}
