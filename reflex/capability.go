package reflex

import "errors"

// Errors surfaced by the control path. They mirror the driver-side result
// codes: ErrNotSupported is permanent for a context's lifetime, ErrUnknown
// covers vendor-layer failures with no finer classification.
var (
	ErrNotSupported = errors.New("reflex: not supported")
	ErrUnknown      = errors.New("reflex: unknown vendor error")
)

// Capability is the probed vendor binding for one rendering surface. The
// real implementation wraps the driver's low-latency entry points; tests
// and the demo substitute SimulatedCapability.
type Capability interface {
	// SetSleepMode applies the requested pacing mode driver-side.
	SetSleepMode(mode Mode) error

	// Sleep blocks until the optimal wake time for the next frame's CPU
	// work, then returns. The caller still owns the semaphore wait; Sleep
	// only decides when the wait should begin.
	Sleep(tl *Timeline, value uint64) error
}
