package utils

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrEndDateBefore  = errors.New("end date must not be before start date")
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateClockRange checks two HH:MM values and requires end to be strictly after start.
func ValidateClockRange(start, end string) error {
	startTime, err := time.Parse(ClockLayout, start)
	if err != nil {
		return errors.New("start time must use the HH:MM format")
	}
	endTime, err := time.Parse(ClockLayout, end)
	if err != nil {
		return errors.New("end time must use the HH:MM format")
	}
	if !endTime.After(startTime) {
		return ErrEndBeforeStart
	}
	return nil
}

// ValidateDateRange checks two YYYY-MM-DD values; a single-day range is allowed.
func ValidateDateRange(start, end string) error {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return errors.New("start date must use the YYYY-MM-DD format")
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return errors.New("end date must use the YYYY-MM-DD format")
	}
	if endDate.Before(startDate) {
		return ErrEndDateBefore
	}
	return nil
}
