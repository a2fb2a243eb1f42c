package services

import (
	"fmt"
	"github.com/pkg/errors"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrNoResume          = errors.New("no resume on file")
	ErrNoCandidateSkills = errors.New("no skills in candidate profile")
	ErrEmptyCompletion   = errors.New("language model returned an empty completion")
	ErrInvalidProfile    = errors.New("language model returned an invalid profile")
	ErrEmptyCoverLetter  = errors.New("cover letter cannot be empty")
	ErrInvalidDays       = errors.New("days must be between 1 and 365")

	ErrEmptyFile    = errors.New("empty file")
	ErrFileTooLarge = errors.New("file too large (max 5MB)")
	ErrNotPDF       = errors.New("only PDF allowed")
	ErrPDFSignature = errors.New("invalid pdf signature")
)

// OverWordLimitError reports a cover letter longer than allowed.
type OverWordLimitError struct {
	MaxWords int
	Words    int
}

func (e *OverWordLimitError) Error() string {
	return fmt.Sprintf("cover letter has %d words, limit is %d", e.Words, e.MaxWords)
}

// AiCallError wraps a failed language model call so callers can tell
// provider failures apart from storage failures.
type AiCallError struct {
	Err error
}

func (e *AiCallError) Error() string {
	return "language model call failed: " + e.Err.Error()
}

func (e *AiCallError) Unwrap() error {
	return e.Err
}
