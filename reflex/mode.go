// Package reflex controls a vendor low-latency pacing capability: the
// sleep mode applied to the driver and the pacing gate that delays CPU
// frame submission to the optimal wake time.
package reflex

import "fmt"

// Mode is the logical pacing mode of a context.
type Mode int32

const (
	// ModeOff disables pacing. This is the conservative default on any
	// context whose capability probe succeeded.
	ModeOff Mode = iota
	// ModeOn enables latency-optimal pacing.
	ModeOn
	// ModeBoost enables pacing with the driver's aggressive clock policy.
	ModeBoost
	// ModeUnsupported marks a context whose capability probe failed.
	// It is assigned once at context creation and never changes.
	ModeUnsupported
)

// String returns the config-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeOn:
		return "on"
	case ModeBoost:
		return "boost"
	case ModeUnsupported:
		return "unsupported"
	}
	return fmt.Sprintf("mode(%d)", int32(m))
}

// ParseMode converts a config-file spelling into a Mode. Only the three
// requestable modes parse; "unsupported" is a probe outcome, not a request.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "off", "":
		return ModeOff, nil
	case "on":
		return ModeOn, nil
	case "boost":
		return ModeBoost, nil
	}
	return ModeOff, fmt.Errorf("reflex: unknown mode %q", s)
}
