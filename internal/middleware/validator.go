package middleware

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateReportID checks the path id is a canonical UUID.
func ValidateReportID(id string) error {
	if id == "" {
		return fmt.Errorf("report ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid report ID format")
	}
	return nil
}

// ValidateAggressorParam bounds a name taken from the URL.
func ValidateAggressorParam(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("aggressor name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return fmt.Errorf("aggressor name too long (max 255 characters)")
	}
	if strings.ContainsRune(name, '\x00') {
		return fmt.Errorf("invalid characters in aggressor name")
	}
	return nil
}
