package common

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors of the job board. Callers match them with errors.Is; a
// user-facing message travels with the error as a hint (see Hintf) so the
// boundary can render it without exposing wrapped internal detail.
var (
	// Credential problems.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Valid identity, wrong role or not the owner.
	ErrForbidden = errors.New("forbidden")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// Application workflow errors.
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrPostingExpired       = errors.New("job posting expired")

	// Resume handling errors. ErrResumeRejected is caused by the upload itself
	// (type, size), ErrUploadFailed by the staging area or the storage backend.
	ErrUploadFailed   = errors.New("upload failed")
	ErrResumeRejected = errors.New("resume rejected")
)

// Hintf wraps kind with a stack trace and attaches a user-facing message.
func Hintf(kind error, format string, args ...any) error {
	return errors.WithHint(errors.WithStack(kind), fmt.Sprintf(format, args...))
}

// Validationf reports malformed input.
func Validationf(format string, args ...any) error {
	return Hintf(ErrValidation, format, args...)
}

// Forbiddenf reports a caller acting outside its role or ownership.
func Forbiddenf(format string, args ...any) error {
	return Hintf(ErrForbidden, format, args...)
}

// NotFoundf reports a missing entity.
func NotFoundf(format string, args ...any) error {
	return Hintf(ErrNotFound, format, args...)
}

// UploadFailed wraps a storage failure as ErrUploadFailed. The cause shows in
// Error() for logging but is not part of the hint.
func UploadFailed(cause error) error {
	return errors.WithHint(
		errors.Mark(errors.Wrap(cause, "upload failed"), ErrUploadFailed),
		"Failed to upload resume, try again",
	)
}

// IsUploadFailure reports whether err is any kind of resume upload failure.
func IsUploadFailure(err error) bool {
	return errors.IsAny(err, ErrUploadFailed, ErrResumeRejected)
}

// Message returns the user-facing hints attached to err, or "" if none.
func Message(err error) string {
	return errors.FlattenHints(err)
}
