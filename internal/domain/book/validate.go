package book

import (
	"errors"
	"fmt"
	"strings"
)

const maxTextLength = 255

func requiredText(field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", field)
	}
	if len([]rune(value)) > maxTextLength {
		return "", fmt.Errorf("%s cannot exceed %d characters", field, maxTextLength)
	}
	return value, nil
}

func normalizeISBN(raw string) (string, error) {
	isbn := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(raw))
	if isbn == "" {
		return "", errors.New("isbn cannot be empty")
	}
	if len(isbn) != 10 && len(isbn) != 13 {
		return "", errors.New("isbn must have 10 or 13 characters")
	}
	for i, r := range isbn {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == 'X' && len(isbn) == 10 && i == 9 {
			continue
		}
		return "", errors.New("isbn must contain only digits")
	}
	return isbn, nil
}

func validatePrice(price float64) error {
	if price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

func validateYear(year *int) error {
	if year != nil && (*year < 0 || *year > 9999) {
		return errors.New("publication_year is out of range")
	}
	return nil
}

func validateTotal(total int) error {
	if total < 1 {
		return errors.New("total_copies must be at least 1")
	}
	return nil
}

func validateCopies(total, available int) error {
	if total < 0 {
		return errors.New("total_copies cannot be negative")
	}
	if available < 0 {
		return errors.New("available_copies cannot be negative")
	}
	if available > total {
		return errors.New("available_copies cannot exceed total_copies")
	}
	return nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
