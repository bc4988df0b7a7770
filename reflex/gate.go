package reflex

import "fmt"

// Gate paces submission of the next frame. Sleep is the only long-blocking
// operation in the library; it has no timeout and no cancellation, and the
// caller must not assume anything about how long it blocks.
type Gate struct {
	ctrl *Controller
}

// NewGate creates a gate driven by the controller's current mode.
func NewGate(ctrl *Controller) *Gate {
	return &Gate{ctrl: ctrl}
}

// Sleep blocks until the timeline has reached at least target, letting the
// vendor capability insert its pacing delay first when a pacing mode is
// active. On an unsupported context, or with pacing off, it degrades to a
// plain wait.
//
// Postcondition on every return, success or failure: tl.Value() >= target.
// The caller may unconditionally proceed with the next frame's work.
func (g *Gate) Sleep(tl *Timeline, target uint64) error {
	if tl == nil {
		return fmt.Errorf("%w: nil timeline", ErrUnknown)
	}

	mode := g.ctrl.Mode()
	if mode == ModeUnsupported || mode == ModeOff {
		tl.Wait(target)
		return nil
	}

	err := g.ctrl.binding.Sleep(tl, target)

	// The wait contract outlives any vendor failure: the pacing delay is
	// best-effort, the semaphore value is not.
	tl.Wait(target)

	if err != nil {
		return fmt.Errorf("%w: pacing sleep: %v", ErrUnknown, err)
	}
	return nil
}
