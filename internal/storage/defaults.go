package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-categorizer/internal/model"
)

// DefaultMerchantPatterns returns the starter merchant table.
func DefaultMerchantPatterns() []model.MerchantPattern {
	return []model.MerchantPattern{
		{Pattern: "TESCO", Category: model.CategoryFood, Label: "Groceries"},
		{Pattern: "SAINSBURYS", AlternatePatterns: []string{"SAINSBURY'S", "JS ONLINE"}, Category: model.CategoryFood, Label: "Groceries"},
		{Pattern: "WHOLE FOODS", AlternatePatterns: []string{"WHOLEFDS"}, Category: model.CategoryFood, Label: "Groceries"},
		{Pattern: "STARBUCKS", Category: model.CategoryFood, Label: "Coffee"},
		{Pattern: "COSTA", Category: model.CategoryFood, Label: "Coffee"},
		{Pattern: "DELIVEROO", Category: model.CategoryFood, Label: "Eating Out"},
		{Pattern: "UBER EATS", Category: model.CategoryFood, Label: "Eating Out"},
		{Pattern: "SHELL", Category: model.CategoryTransport, Label: "Car"},
		{Pattern: "TFL", AlternatePatterns: []string{"TRANSPORT FOR LONDON"}, Category: model.CategoryTransport, Label: "Transport"},
		{Pattern: "UBER", Category: model.CategoryTransport, Label: "Transport"},
		{Pattern: "NETFLIX", Category: model.CategorySubscriptions, Label: "Subscriptions"},
		{Pattern: "SPOTIFY", Category: model.CategorySubscriptions, Label: "Subscriptions"},
		{Pattern: "AMAZON", AlternatePatterns: []string{"AMZN"}, Category: model.CategoryShopping, Label: "Shopping"},
		{Pattern: "BRITISH GAS", Category: model.CategoryBills, Label: "Gas & Electricity"},
		{Pattern: "VODAFONE", Category: model.CategoryBills, Label: "Phone"},
		{Pattern: "PURE GYM", AlternatePatterns: []string{"PUREGYM"}, Category: model.CategoryPersonal, Label: "Gym membership"},
		{Pattern: "RYANAIR", Category: model.CategoryTravel, Label: "Travel"},
		{Pattern: "BOOTS", Category: model.CategoryHealth, Label: "Health"},
	}
}

// DefaultKeywords returns the starter keyword groups, flattened.
func DefaultKeywords() []model.Keyword {
	groups := []struct {
		category string
		label    string
		keywords []string
	}{
		{model.CategoryHousing, "Rent", []string{"RENT", "LETTING"}},
		{model.CategoryHousing, "Pets", []string{"VET", "PET"}},
		{model.CategoryBills, "Bank and other fees", []string{"OVERDRAFT", "FEE"}},
		{model.CategoryBills, "Internet", []string{"BROADBAND"}},
		{model.CategoryBills, "Home insurance", []string{"HOME INSURANCE"}},
		{model.CategoryBills, "Car insurance", []string{"CAR INSURANCE", "MOTOR INSURANCE"}},
		{model.CategoryFood, "Groceries", []string{"GROCERY", "SUPERMARKET"}},
		{model.CategoryFood, "Eating Out", []string{"RESTAURANT", "PIZZA", "BURGER"}},
		{model.CategoryFood, "Coffee", []string{"COFFEE", "CAFE"}},
		{model.CategoryTravel, "Travel", []string{"HOTEL", "AIRLINE", "AIRWAYS"}},
		{model.CategoryHealth, "Health", []string{"PHARMACY", "DENTAL", "CLINIC"}},
		{model.CategoryTransport, "Car", []string{"PARKING", "PETROL", "FUEL"}},
		{model.CategoryTransport, "Transport", []string{"TRAIN", "RAIL", "TAXI"}},
		{model.CategoryEducation, "Education", []string{"SCHOOL", "TUITION", "COURSE"}},
		{model.CategoryPersonal, "Entertainment", []string{"CINEMA", "THEATRE", "TICKETS"}},
		{model.CategoryShopping, "Clothes", []string{"CLOTHING", "FASHION"}},
		{model.CategoryWork, "Work", []string{"COWORKING", "OFFICE"}},
	}

	var keywords []model.Keyword
	for _, g := range groups {
		for _, kw := range g.keywords {
			keywords = append(keywords, model.Keyword{Keyword: kw, Category: g.category, Label: g.label})
		}
	}
	return keywords
}

// SeedDefaults loads the starter merchant patterns and keywords. Entries that
// already exist are skipped, so seeding twice is harmless. It returns how many
// rows were added.
func (s *SQLiteStorage) SeedDefaults(ctx context.Context) (int, error) {
	added := 0

	for _, m := range DefaultMerchantPatterns() {
		err := s.CreateMerchantPattern(ctx, &m)
		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrDuplicate):
		default:
			return added, fmt.Errorf("failed to seed merchant %q: %w", m.Pattern, err)
		}
	}

	for _, k := range DefaultKeywords() {
		err := s.CreateKeyword(ctx, &k)
		switch {
		case err == nil:
			added++
		case errors.Is(err, ErrDuplicate):
		default:
			return added, fmt.Errorf("failed to seed keyword %q: %w", k.Keyword, err)
		}
	}

	slog.Info("Seeded default patterns", "added", added)
	return added, nil
}
