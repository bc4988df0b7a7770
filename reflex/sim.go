package reflex

import (
	"sync"
	"time"
)

// SimulatedCapability is a software stand-in for the vendor binding. It
// paces by sleeping out the remainder of a fixed frame interval, the way
// a driver-side sleep would hold the CPU until the optimal submit time.
// The demo runs on it, and tests use it to exercise the controller and
// gate without a graphics driver.
type SimulatedCapability struct {
	mu       sync.Mutex
	interval time.Duration
	lastWake time.Time
	mode     Mode

	// SetModeErr, when non-nil, is returned by the next SetSleepMode call
	// and then cleared. Lets tests inject vendor-side failures.
	SetModeErr error
}

// NewSimulatedCapability creates a simulated capability pacing to the
// given frame interval. A non-positive interval disables the delay.
func NewSimulatedCapability(interval time.Duration) *SimulatedCapability {
	return &SimulatedCapability{interval: interval}
}

// SetSleepMode records the mode, or fails with the injected error.
func (s *SimulatedCapability) SetSleepMode(mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.SetModeErr; err != nil {
		s.SetModeErr = nil
		return err
	}
	s.mode = mode
	return nil
}

// SleepMode returns the last mode the capability accepted.
func (s *SimulatedCapability) SleepMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Sleep holds the caller until one frame interval has passed since the
// previous wake. In ModeBoost the delay is skipped: submit as early as
// possible and let the driver clocks absorb the difference.
func (s *SimulatedCapability) Sleep(tl *Timeline, value uint64) error {
	s.mu.Lock()
	interval := s.interval
	last := s.lastWake
	boost := s.mode == ModeBoost
	s.mu.Unlock()

	if interval > 0 && !boost && !last.IsZero() {
		if remaining := interval - time.Since(last); remaining > 0 {
			time.Sleep(remaining)
		}
	}

	s.mu.Lock()
	s.lastWake = time.Now()
	s.mu.Unlock()
	return nil
}
