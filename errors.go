package vector

import "github.com/pkg/errors"

var (
	// ErrOutOfMemory is raised when a buffer request would push the allocator
	// past its configured byte limit.
	ErrOutOfMemory = errors.New("vector: allocation exceeds memory limit")
	// ErrCapacityOverflow is raised for negative capacities and for requests
	// whose byte size does not fit in an int.
	ErrCapacityOverflow = errors.New("vector: capacity overflow")
	// ErrNotCopyable is raised when a copy is requested for an element type
	// that implements NonCopyable.
	ErrNotCopyable = errors.New("vector: element type is not copyable")
)
