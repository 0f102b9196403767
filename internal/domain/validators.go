package domain

import (
	"fmt"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (in minor units).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidateClubName checks the club display name.
func ValidateClubName(name string) error {
	if name == "" {
		return fmt.Errorf("club name is required")
	}
	if len(name) > 120 {
		return fmt.Errorf("club name must be at most 120 characters")
	}
	return nil
}

// ValidatePlayerAge rejects ages outside any plausible registration range.
// The fraud engine separately flags unusual ages; this only blocks garbage.
func ValidatePlayerAge(age int) error {
	if age < 1 || age > 99 {
		return fmt.Errorf("age must be between 1 and 99, got %d", age)
	}
	return nil
}
