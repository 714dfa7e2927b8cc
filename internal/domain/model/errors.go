package model

import "errors"

var (
	// ErrInvalidRepo is returned when the repository is not in "owner/repo" form.
	ErrInvalidRepo = errors.New(`"github-repo" must be provided in form of "<owner>/<repo>"`)

	// ErrLabelNotFound is returned when the stale label cannot be verified.
	ErrLabelNotFound = errors.New(`"stale-label" doesn't refer to an existing label or repository cannot be accessed`)

	// ErrInvalidThreshold is returned when days-before-close is not a non-negative number.
	ErrInvalidThreshold = errors.New(`"days-before-close" must be a number`)

	// ErrInvalidInput is returned when a named input has a malformed value.
	ErrInvalidInput = errors.New("invalid input")
)
