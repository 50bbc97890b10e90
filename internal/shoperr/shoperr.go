// Package shoperr defines the error taxonomy shared by every shop-db component.
//
// Each failure is a sentinel *Error carrying a Category, a stable machine-readable
// Code and a human-readable Message. Callers wrap sentinels with fmt.Errorf("...: %w")
// to add context and match them with errors.Is; transport layers use errors.As to
// recover the code and message.
package shoperr

import (
	"errors"
	"fmt"
)

// Category groups errors by how a caller should react to them.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryNotFound      Category = "not_found"
	CategoryState         Category = "state"
	CategoryDomainRule    Category = "domain_rule"
	CategoryAuthorization Category = "authorization"
	CategoryConflict      Category = "persistence_conflict"
	CategoryUnavailable   Category = "unavailable"
)

// Error is a classified shop-db failure.
type Error struct {
	Category Category
	Code     string
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(category Category, code, message string) *Error {
	return &Error{Category: category, Code: code, Message: message}
}

// Validation errors.
var (
	ErrDataMissing    = newError(CategoryValidation, "DataIsMissing", "Some data is missing.")
	ErrUnknownField   = newError(CategoryValidation, "UnknownField", "Unknown field.")
	ErrWrongType      = newError(CategoryValidation, "WrongType", "Wrong type.")
	ErrForbiddenField = newError(CategoryValidation, "ForbiddenField", "Forbidden field.")
	ErrInvalidJSON    = newError(CategoryValidation, "InvalidJSON", "Invalid JSON body.")
	ErrInvalidData    = newError(CategoryValidation, "InvalidData", "The data is invalid.")
)

// Lookup errors.
var (
	ErrEntryNotFound = newError(CategoryNotFound, "EntryNotFound", "Entry not found.")
)

// State errors.
var (
	ErrStateUnchanged      = newError(CategoryState, "StateUnchanged", "The requested state is already set.")
	ErrNothingHasChanged   = newError(CategoryState, "NothingHasChanged", "Nothing has changed.")
	ErrUserAlreadyVerified = newError(CategoryState, "UserAlreadyVerified", "This user has already been verified.")
	ErrEntryAlreadyExists  = newError(CategoryState, "EntryAlreadyExists", "This entry already exists.")
)

// Domain rule errors.
var (
	ErrInvalidAmount     = newError(CategoryDomainRule, "InvalidAmount", "Invalid amount.")
	ErrUserIsNotVerified = newError(CategoryDomainRule, "UserIsNotVerified", "This user has not been verified yet.")
	ErrUserIsInactive    = newError(CategoryDomainRule, "UserIsInactive", "This user is inactive.")
	ErrEntryIsInactive   = newError(CategoryDomainRule, "EntryIsInactive", "This entry is inactive.")
	ErrPasswordTooShort  = newError(CategoryDomainRule, "PasswordTooShort", "The password is too short.")
)

// Authorization errors.
var (
	ErrUnauthorized       = newError(CategoryAuthorization, "UnauthorizedAccess", "You do not have the rights to access this content.")
	ErrTokenInvalid       = newError(CategoryAuthorization, "TokenInvalid", "The token is invalid.")
	ErrTokenExpired       = newError(CategoryAuthorization, "TokenExpired", "The token has expired.")
	ErrInvalidCredentials = newError(CategoryAuthorization, "InvalidCredentials", "Invalid credentials.")
)

// Persistence conflicts.
var (
	ErrCouldNotCreateEntry = newError(CategoryConflict, "CouldNotCreateEntry", "Could not create the entry.")
	ErrCouldNotUpdateEntry = newError(CategoryConflict, "CouldNotUpdateEntry", "Could not update the entry.")
)

// Availability errors.
var (
	ErrMaintenanceMode = newError(CategoryUnavailable, "MaintenanceMode", "The application is in maintenance mode.")
)

// Field wraps a validation sentinel with the offending field name.
func Field(err error, field string) error {
	return fmt.Errorf("%w: %s", err, field)
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// Is reports whether err belongs to the given category.
func Is(err error, category Category) bool {
	e, ok := As(err)
	return ok && e.Category == category
}
