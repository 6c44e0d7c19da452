package model

import (
	"errors"
	"fmt"
)

// Uncategorised is both the category and label assigned when no pattern matches.
const Uncategorised = "Uncategorised"

// ErrInvalidCategory is returned when a category or label falls outside the taxonomy.
var ErrInvalidCategory = errors.New("invalid category")

// Category names in the fixed taxonomy.
const (
	CategoryHousing       = "Housing"
	CategoryBills         = "Bills"
	CategorySubscriptions = "Subscriptions"
	CategoryFood          = "Food"
	CategoryTravel        = "Travel"
	CategoryHealth        = "Health"
	CategoryTransport     = "Transport"
	CategoryEducation     = "Education"
	CategoryPersonal      = "Personal"
	CategoryShopping      = "Shopping"
	CategoryWork          = "Work"
)

// Categories maps every category to its allowed labels, in display order.
var Categories = map[string][]string{
	CategoryHousing:       {"Home", "Rent", "Pets", "Daycare"},
	CategoryBills:         {"Bank and other fees", "Other bills", "Home insurance", "Gas", "Car insurance", "Gas & Electricity", "Phone", "Internet"},
	CategorySubscriptions: {"Subscriptions"},
	CategoryFood:          {"Groceries", "Eating Out", "Coffee"},
	CategoryTravel:        {"Travel"},
	CategoryHealth:        {"Health"},
	CategoryTransport:     {"Transport", "Car"},
	CategoryEducation:     {"Education"},
	CategoryPersonal:      {"Family & Personal", "Sport & Hobbies", "Entertainment", "Gym membership"},
	CategoryShopping:      {"Shopping", "Clothes", "Beauty"},
	CategoryWork:          {"Work"},
}

// CategoryPriority is the order in which keyword groups are evaluated.
var CategoryPriority = []string{
	CategoryHousing,
	CategoryBills,
	CategorySubscriptions,
	CategoryFood,
	CategoryTravel,
	CategoryHealth,
	CategoryTransport,
	CategoryEducation,
	CategoryPersonal,
	CategoryShopping,
	CategoryWork,
}

// LabelsForCategory returns a copy of the labels allowed for category, or nil
// when the category is not part of the taxonomy.
func LabelsForCategory(category string) []string {
	labels, ok := Categories[category]
	if !ok {
		return nil
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// ValidateCategoryLabel checks that label belongs to category.
func ValidateCategoryLabel(category, label string) error {
	labels, ok := Categories[category]
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidCategory, category)
	}
	for _, l := range labels {
		if l == label {
			return nil
		}
	}
	return fmt.Errorf("%w: label %q is not allowed for category %q", ErrInvalidCategory, label, category)
}
