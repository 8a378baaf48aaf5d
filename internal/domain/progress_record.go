package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ProgressRecord
var (
	ErrEmptyRecordID        = errors.New("progress record ID cannot be empty")
	ErrEmptyRecordUserID    = errors.New("progress record user ID cannot be empty")
	ErrEmptyRecordTermID    = errors.New("progress record term ID cannot be empty")
	ErrEmptyStudentAnswer   = errors.New("student answer cannot be empty")
	ErrEmptyCorrectAnswer   = errors.New("correct answer cannot be empty")
	ErrInvalidAttemptNumber = errors.New("attempt number must be at least 1")
)

// ProgressRecord is one graded attempt at a term. Records are append-only:
// once written they are never mutated or deleted, and AttemptNumber is
// strictly increasing and gapless per (user, term). SessionID is nil for
// attempts made outside a session (e.g. ad-hoc evaluation drills).
// CorrectAnswer snapshots the definition text at evaluation time so later
// edits to the term do not rewrite history.
type ProgressRecord struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	TermID          uuid.UUID  `json:"term_id"`
	SessionID       *uuid.UUID `json:"session_id,omitempty"`
	StudentAnswer   string     `json:"student_answer"`
	CorrectAnswer   string     `json:"correct_answer"`
	IsCorrect       bool       `json:"is_correct"`
	SimilarityScore float64    `json:"similarity_score"`
	AttemptNumber   int        `json:"attempt_number"`
	Feedback        string     `json:"feedback"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewProgressRecord creates a new attempt record for the given user and term.
// It generates a new UUID for the record ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewProgressRecord(
	userID, termID uuid.UUID,
	sessionID *uuid.UUID,
	studentAnswer, correctAnswer string,
	isCorrect bool,
	similarityScore float64,
	attemptNumber int,
	feedback string,
) (*ProgressRecord, error) {
	record := &ProgressRecord{
		ID:              uuid.New(),
		UserID:          userID,
		TermID:          termID,
		SessionID:       sessionID,
		StudentAnswer:   studentAnswer,
		CorrectAnswer:   correctAnswer,
		IsCorrect:       isCorrect,
		SimilarityScore: similarityScore,
		AttemptNumber:   attemptNumber,
		Feedback:        feedback,
		CreatedAt:       time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the ProgressRecord has valid data.
// Returns an error if any field fails validation.
func (r *ProgressRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRecordID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}

	if r.TermID == uuid.Nil {
		return ErrEmptyRecordTermID
	}

	if r.StudentAnswer == "" {
		return ErrEmptyStudentAnswer
	}

	if r.CorrectAnswer == "" {
		return ErrEmptyCorrectAnswer
	}

	if r.SimilarityScore < 0 || r.SimilarityScore > 1 {
		return ErrInvalidSimilarityScore
	}

	if r.AttemptNumber < 1 {
		return ErrInvalidAttemptNumber
	}

	return nil
}
