package bridge

import "errors"

var (
	// ErrInvalidCommand is returned for command topics or payloads that
	// cannot be parsed.
	ErrInvalidCommand = errors.New("bridge: invalid command")

	// ErrMissingDependency is returned by New when a required option is nil.
	ErrMissingDependency = errors.New("bridge: missing dependency")
)
