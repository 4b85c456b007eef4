// Package service holds the user and task business rules that sit between the
// HTTP handlers and the repositories: input validation, update allow-lists,
// session bookkeeping, the account deletion cascade and account emails.
package service

import (
	"errors"
	"fmt"
	"strings"

	"task-service/repository"

	"go.uber.org/multierr"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrInvalidUpdates = errors.New("Invalid update properties!")
	ErrUnableToLogin  = errors.New("Unable to login")
	ErrNotFound       = errors.New("not found")
	ErrUploadRejected = errors.New("upload rejected")
)

// invalid builds a validation error carrying one message per failed rule
func invalid(msgs ...string) error {
	err := ErrValidation
	for _, msg := range msgs {
		err = multierr.Append(err, errors.New(msg))
	}
	return err
}

// ValidationMessage returns the client facing text of a validation error,
// without the sentinel prefix.
func ValidationMessage(err error) string {
	var msgs []string
	for _, e := range multierr.Errors(err) {
		if e == ErrValidation {
			continue
		}
		msgs = append(msgs, e.Error())
	}
	if len(msgs) == 0 {
		return err.Error()
	}
	return strings.Join(msgs, ", ")
}

// CheckAllowed fails with ErrInvalidUpdates when any field is outside allowed
func CheckAllowed(fields, allowed []string) error {
	ok := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		ok[f] = true
	}
	for _, f := range fields {
		if !ok[f] {
			return ErrInvalidUpdates
		}
	}
	return nil
}

// storeError maps repository sentinels onto service ones
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return invalid("email is already registered")
	default:
		return fmt.Errorf("store: %w", err)
	}
}
