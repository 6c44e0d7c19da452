// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spice-categorizer/internal/model"
	"github.com/Veraticus/spice-categorizer/internal/storage"
)

// TestDB wraps an in-memory, migrated store with seeding helpers.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. Migrations are applied and
// the store is closed when the test finishes.
//
// Example:
//
//	db := testutil.SetupTestDB(t).
//		WithMerchant("SHELL", model.CategoryTransport, "Car").
//		WithKeyword("RENT", model.CategoryHousing, "Rent")
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// WithMerchant seeds a merchant pattern or fails the test.
func (db *TestDB) WithMerchant(pattern, category, label string, alternates ...string) *TestDB {
	db.t.Helper()

	err := db.Storage.CreateMerchantPattern(context.Background(), &model.MerchantPattern{
		Pattern:           pattern,
		AlternatePatterns: alternates,
		Category:          category,
		Label:             label,
	})
	if err != nil {
		db.t.Fatalf("failed to seed merchant %q: %v", pattern, err)
	}
	return db
}

// WithKeyword seeds a keyword or fails the test.
func (db *TestDB) WithKeyword(keyword, category, label string) *TestDB {
	db.t.Helper()

	err := db.Storage.CreateKeyword(context.Background(), &model.Keyword{
		Keyword:  keyword,
		Category: category,
		Label:    label,
	})
	if err != nil {
		db.t.Fatalf("failed to seed keyword %q: %v", keyword, err)
	}
	return db
}

// WithCorrection seeds a learned pattern for userID or fails the test.
func (db *TestDB) WithCorrection(userID, fragment, category, label string) *TestDB {
	db.t.Helper()

	if _, err := db.Storage.RecordCorrection(context.Background(), userID, fragment, category, label); err != nil {
		db.t.Fatalf("failed to seed correction %q: %v", fragment, err)
	}
	return db
}
