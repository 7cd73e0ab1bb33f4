// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
)

// Sentinel errors for the failure kinds the webhook can hit.
// Use errors.Is() to check these errors in your code.
var (
	// ErrSourceUnavailable indicates the spreadsheet source could not be
	// fetched and no prior catalog snapshot exists to serve instead.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrSourceMalformed indicates the source header row is missing a
	// required column.
	ErrSourceMalformed = errors.New("catalog source malformed")

	// ErrNotFound indicates a referenced procedure id does not exist in
	// the current snapshot.
	ErrNotFound = errors.New("procedure not found")

	// ErrNoMatch indicates a free-text query produced zero candidates.
	ErrNoMatch = errors.New("no matching procedure")

	// ErrInvalidAttribute indicates a requested attribute key is
	// unrecognized or empty for the record.
	ErrInvalidAttribute = errors.New("invalid attribute key")
)

// SourceBusyMessage is the user-facing reply when the catalog source
// cannot be read. Carried as the UserMessage on wrapped source errors.
const SourceBusyMessage = "Xin lỗi, hệ thống đang gặp sự cố khi đọc dữ liệu. Vui lòng thử lại."

// Is reports whether any error in err's tree matches target.
// Re-exported so callers don't need to import both errors packages.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// Re-exported for the same reason as Is.
func As(err error, target any) bool {
	return errors.As(err, target)
}
