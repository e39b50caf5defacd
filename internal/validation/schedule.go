package validation

import (
	"fmt"
	"regexp"
	"time"
)

const (
	scheduledDateLayout = "2006-01-02"
	scheduledTimeLayout = "15:04"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,18}[0-9]$`)

// ValidateScheduledDate checks that the value is a calendar date in
// YYYY-MM-DD form and not in the past relative to now.
func ValidateScheduledDate(value string, now time.Time) error {
	date, err := time.Parse(scheduledDateLayout, value)
	if err != nil {
		return fmt.Errorf("scheduled date must be in YYYY-MM-DD format")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return fmt.Errorf("scheduled date cannot be in the past")
	}

	return nil
}

// ValidateScheduledTime checks a 24-hour HH:MM time of day.
func ValidateScheduledTime(value string) error {
	if _, err := time.Parse(scheduledTimeLayout, value); err != nil {
		return fmt.Errorf("scheduled time must be in HH:MM format")
	}
	return nil
}

// ValidatePhone accepts international-style phone numbers with an
// optional leading + and common separators.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone must be 8-20 digits, optionally starting with +")
	}
	return nil
}
