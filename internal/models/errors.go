package models

import (
	"errors"
	"fmt"
)

// ErrEpisodeNotFound is returned when an update targets an episode that does not exist.
var ErrEpisodeNotFound = errors.New("episode not found")

// ValidationError reports a write payload rejected at the boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// DecodeError reports a stored column that could not be mapped to its view-model type.
type DecodeError struct {
	EpisodeID int64
	Column    string
	Value     string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.EpisodeID != 0 {
		return fmt.Sprintf("decode %s of episode %d: %v", e.Column, e.EpisodeID, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Column, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecode reports whether err is (or wraps) a DecodeError.
func IsDecode(err error) bool {
	var d *DecodeError
	return errors.As(err, &d)
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}
