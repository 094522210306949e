package services

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound      = errors.New("blacklist entry not found")
	ErrAlreadyBlacklisted = errors.New("value is already blacklisted")
	ErrEntryNotActive     = errors.New("only active blacklist entries can be modified")
)

// ValidationError reports malformed input for a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
