package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTenantInactive      = errors.New("tenant is inactive")
	ErrUserInactive        = errors.New("user is inactive")
	ErrDuplicateEmail      = errors.New("email already exists for this tenant")
	ErrDuplicateTenantSlug = errors.New("tenant slug already exists")

	ErrFilingNotFound     = errors.New("tax filing not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrPermissionNotFound = errors.New("permission grant not found")
	ErrInvalidTaxType     = errors.New("invalid tax type")
	ErrInvalidPeriod      = errors.New("invalid tax period")
	ErrInvalidSchedule    = errors.New("invalid filing schedule")
	ErrInvalidDecision    = errors.New("invalid review decision; allowed: approve, reject")
	ErrValidationFailed   = errors.New("filing has blocking validation issues")

	ErrPermissionDenied  = errors.New("insufficient delegated permission")
	ErrPermissionExpired = errors.New("delegated permission has expired")
	ErrInvalidPermission = errors.New("invalid permission level; allowed: read, create, update, submit")
	ErrInvalidArea       = errors.New("invalid permission area")
	ErrSelfGrant         = errors.New("associates cannot grant themselves permissions")

	ErrNotTransmittable     = errors.New("only approved filings can be transmitted")
	ErrAlreadyTransmitted   = errors.New("filing has already been transmitted")
	ErrAuthorityUnavailable = errors.New("tax authority service unavailable")

	ErrUnsupportedFileType = errors.New("unsupported file type; allowed: pdf, jpg, png")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)

// InvalidStateError signals an operation attempted from a disallowed filing
// status. It names the current state so the caller can surface it.
type InvalidStateError struct {
	Op      string
	Current FilingStatus
	Want    FilingStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s filing in status %q; requires %q", e.Op, e.Current, e.Want)
}

// NewInvalidState builds an InvalidStateError for the given operation.
func NewInvalidState(op string, current, want FilingStatus) error {
	return &InvalidStateError{Op: op, Current: current, Want: want}
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}
