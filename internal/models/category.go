package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCategory is returned for a category outside the known set.
var ErrInvalidCategory = errors.New("invalid category")

// Category classifies an expense.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryBills         Category = "Bills"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryBills,
	CategoryEntertainment,
	CategoryOther,
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves s to a known category, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}
