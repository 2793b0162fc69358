package catalog

import "errors"

var (
	// ErrNotFound indicates the id does not resolve to a catalog node of the
	// expected kind.
	ErrNotFound = errors.New("catalog node not found")
	// ErrInvalidInput indicates malformed node data.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrInvalidParent indicates a parent/child pairing the hierarchy forbids.
	ErrInvalidParent = errors.New("invalid catalog parent")
	// ErrHasChildren indicates the node still has children and cannot be
	// deleted.
	ErrHasChildren = errors.New("catalog node has children")
)
