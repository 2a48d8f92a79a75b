package finance

import (
	"math"
	"strings"
	"unicode/utf8"

	"finance-tracker/internal/models"
)

const (
	maxCategoryLen = 50
	// maxAmount keeps stored amounts and their sums well inside float64 range.
	maxAmount = 1e15
)

func validateAmount(field string, v float64, allowZero bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a number")
	}
	if v < 0 || (v == 0 && !allowZero) {
		return invalid(field, "must be positive")
	}
	if v > maxAmount {
		return invalid(field, "too large (max 1e15)")
	}
	return nil
}

func normalizeCategory(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return "", invalid("category", "must not be empty")
	}
	if utf8.RuneCountInString(c) > maxCategoryLen {
		return "", invalid("category", "too long (max 50 characters)")
	}
	return c, nil
}

// NormalizeCurrency upper-cases a currency code and checks that it is three
// ASCII letters.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", invalid("currency", "must be a 3-letter code")
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", invalid("currency", "must be a 3-letter code")
		}
	}
	return code, nil
}

func validateKind(k models.Kind) error {
	if !k.Valid() {
		return invalid("type", "must be income or expense")
	}
	return nil
}
