package pipeline

import (
	"errors"
)

var (
	// ErrNoFields is returned when an extraction pass starts without any
	// declared fields. Classification passes skip this check.
	ErrNoFields = errors.New("no fields to extract")

	// ErrEmptyText is returned when extraction succeeded but produced only
	// whitespace. The document record is registered regardless.
	ErrEmptyText = errors.New("no text extracted from file")

	ErrExtractionBackend = errors.New("error extracting text")
	ErrCompletionBackend = errors.New("error extracting fields")

	// ErrParse is returned when the completion text is not a JSON object.
	ErrParse = errors.New("error parsing extraction result")

	// ErrFileCountMismatch is returned when the backend echoes a different
	// number of files than were sent, making positional reconciliation
	// impossible.
	ErrFileCountMismatch = errors.New("file count mismatch between request and response")
)
