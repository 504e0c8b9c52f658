package vbap

import "errors"

// Errors returned by the panner and topology builder.
var (
	// ErrDegenerateLayout reports a layout that yields no usable region.
	// It is not fatal: the topology is empty and every direction is
	// uncovered.
	ErrDegenerateLayout = errors.New("vbap: degenerate speaker layout")

	ErrSingularBasis         = errors.New("vbap: singular region basis")
	ErrInvalidManualRegion   = errors.New("vbap: invalid manual region")
	ErrInvalidPhantomMapping = errors.New("vbap: invalid phantom channel mapping")
	ErrModeMismatch          = errors.New("vbap: operation not available in current mode")
)
