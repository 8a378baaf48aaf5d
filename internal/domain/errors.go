// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidSessionStatus is returned when a session status is not valid.
	ErrInvalidSessionStatus = errors.New("invalid session status")

	// ErrInvalidStateTransition is returned when a session operation is not
	// allowed from the session's current status.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidSimilarityScore is returned when a similarity score falls
	// outside the [0, 1] range.
	ErrInvalidSimilarityScore = errors.New("similarity score must be between 0 and 1")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
