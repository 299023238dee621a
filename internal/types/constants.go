// Package types provides type-safe constants for the badlock module catalog.
//
// This package centralizes the enumerated types used throughout the codebase,
// replacing magic strings with typed constants that provide validation methods.
//
// SYNC REQUIREMENT: These types must stay in sync with:
//   - internal/catalog/validate.go (runtime validation)
//   - internal/templates/modules.yaml (documented values)
package types

import (
	"fmt"
	"strings"
)

// Category groups modules the way the Good Lock app does.
type Category string

const (
	// CategoryMakeUp holds the customization modules (Home Up, LockStar, ...).
	CategoryMakeUp Category = "Make up"
	// CategoryLifeUp holds the utility modules (NotiStar, RegiStar, ...).
	CategoryLifeUp Category = "Life up"
)

// AllCategories returns all valid categories in display order.
func AllCategories() []Category {
	return []Category{CategoryMakeUp, CategoryLifeUp}
}

// Validate checks if the Category is a valid value.
func (c Category) Validate() error {
	switch c {
	case CategoryMakeUp, CategoryLifeUp:
		return nil
	case "":
		return fmt.Errorf("category is required")
	default:
		return fmt.Errorf("invalid category '%s' (must be %q or %q)", c, CategoryMakeUp, CategoryLifeUp)
	}
}

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

// Order returns the display position of the category. Unknown categories
// sort after the known ones.
func (c Category) Order() int {
	for i, known := range AllCategories() {
		if c == known {
			return i
		}
	}
	return len(AllCategories())
}

// ParseCategory parses a string into a Category.
// Matching ignores case, spaces, dashes and underscores, so "makeup",
// "Make-Up" and "make_up" all parse to CategoryMakeUp.
func ParseCategory(s string) (Category, error) {
	key := categoryKey(s)
	for _, c := range AllCategories() {
		if categoryKey(string(c)) == key && key != "" {
			return c, nil
		}
	}
	c := Category(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func categoryKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}
