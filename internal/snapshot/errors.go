package snapshot

import "errors"

var (
	// ErrSnapshotNotFound is returned when no snapshot matches the request.
	ErrSnapshotNotFound = errors.New("snapshot: not found")

	// ErrInvalidSnapshot is returned when a stored payload cannot be decoded.
	ErrInvalidSnapshot = errors.New("snapshot: invalid payload")
)
