package games

import "errors"

var (
	// ErrNotFound means neither the store nor the external provider
	// knows the title.
	ErrNotFound = errors.New("game not found")

	// ErrUpstreamUnavailable means the external provider call failed;
	// the title may or may not exist.
	ErrUpstreamUnavailable = errors.New("metadata provider unavailable")

	// ErrTitleExists means an insert hit the unique-title constraint.
	ErrTitleExists = errors.New("game title already exists")
)
