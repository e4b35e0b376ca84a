package services

import "errors"

var (
	// ErrUnauthorized means the caller has no usable GitHub token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the provider does not know the repository.
	ErrNotFound = errors.New("repository not found")

	// ErrBulkDisabled means bulk operations are switched off in the
	// user's settings.
	ErrBulkDisabled = errors.New("bulk operations are disabled")
)
