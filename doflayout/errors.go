package doflayout

import "errors"

var (
	// ErrConfig reports a malformed element definition at construction time
	ErrConfig = errors.New("invalid dof layout definition")
	// ErrOutOfRange reports a query outside the layout's dimensions, entities
	// or sub-layout structure
	ErrOutOfRange = errors.New("out of range")
	// ErrNotView reports a sub-layout without a parent map where one is needed
	ErrNotView = errors.New("layout is not a view")
)
