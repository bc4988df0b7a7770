package reflex

import (
	"errors"
	"fmt"
	"sync"
)

// Controller tracks the logical pacing mode of one context. The cached
// mode is the last mode the vendor accepted, kept separate from the
// driver-side state so reads never round-trip into the driver: Mode and
// Supported are plain cached reads, safe to poll on a hot path.
type Controller struct {
	mu      sync.Mutex
	binding Capability
	mode    Mode
}

// NewController creates a controller for the probed capability. A nil
// capability means the probe failed: the controller is permanently
// unsupported and every SetMode returns ErrNotSupported. Otherwise the
// initial mode is ModeOff.
func NewController(binding Capability) *Controller {
	c := &Controller{binding: binding, mode: ModeOff}
	if binding == nil {
		c.mode = ModeUnsupported
	}
	return c
}

// SetMode applies the requested mode via the vendor capability. The
// cached mode only advances when the vendor call succeeds; on failure it
// keeps its prior value, so there is never a partial transition.
func (c *Controller) SetMode(requested Mode) error {
	if requested < ModeOff || requested > ModeBoost {
		return fmt.Errorf("%w: mode %v is not requestable", ErrUnknown, requested)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeUnsupported {
		return ErrNotSupported
	}

	if err := c.binding.SetSleepMode(requested); err != nil {
		if errors.Is(err, ErrNotSupported) {
			return err
		}
		return fmt.Errorf("%w: set sleep mode %v: %v", ErrUnknown, requested, err)
	}

	c.mode = requested
	return nil
}

// Mode returns the cached mode. It never invokes the vendor capability.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Supported reports whether the capability probe succeeded for this
// context. The answer is fixed for the context's lifetime.
func (c *Controller) Supported() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode != ModeUnsupported
}
