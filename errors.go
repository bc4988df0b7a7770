package frametap

import (
	"errors"

	"github.com/pthm-cable/frametap/reflex"
)

// Errors returned by result-bearing operations. Marking operations never
// surface errors; a fault there degrades to an unset timestamp instead of
// disturbing the caller's render loop.
var (
	// ErrNotSupported means the pacing capability probe failed for this
	// context. Permanent for the context's lifetime.
	ErrNotSupported = reflex.ErrNotSupported

	// ErrInvalidHandle means the operation was called on a destroyed
	// context. Void operations silently no-op instead.
	ErrInvalidHandle = errors.New("frametap: context destroyed")

	// ErrOutOfMemory means the metrics window could not be sized at init.
	ErrOutOfMemory = errors.New("frametap: metrics window allocation failed")

	// ErrUnknown is an opaque vendor-layer failure with no finer cause.
	ErrUnknown = reflex.ErrUnknown
)
