package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

const (
	maxNameLength     = 100
	minPasswordLength = 8
	// bcrypt refuses longer input.
	maxPasswordBytes = 72
)

// NormalizeEmail lower-cases and validates an address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", err
	}
	if addr.Address != email {
		return "", errors.New("email must be a bare address")
	}
	return email, nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.New("name cannot be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return "", fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	return name, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password cannot exceed %d bytes", maxPasswordBytes)
	}
	return nil
}

func validateAge(age *int) error {
	if age != nil && (*age < 0 || *age > 150) {
		return errors.New("age must be between 0 and 150")
	}
	return nil
}
