package domain

import "errors"

// Sentinel errors for the ingestion and reconciliation boundaries.
// Callers match them with errors.Is; wrapping sites add context with %w.
var (
	// ErrEmptyFile is returned for zero-byte uploads, before any format
	// detection is attempted.
	ErrEmptyFile = errors.New("empty file")

	// ErrUnsupportedFormat is returned when neither the declared MIME
	// type nor the file extension maps to a supported statement format.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge is returned when an upload exceeds the configured
	// size ceiling, before any row is read.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrCorruptFile is returned when a decoder cannot parse the
	// structural envelope of a file (bad zip, bad SGML, truncated PDF).
	ErrCorruptFile = errors.New("corrupt file")

	// ErrAccountNotFound is returned by the reconciliation step when the
	// target account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)
