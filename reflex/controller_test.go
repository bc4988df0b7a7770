package reflex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_UnsupportedIsSticky(t *testing.T) {
	c := NewController(nil)

	assert.False(t, c.Supported())
	assert.Equal(t, ModeUnsupported, c.Mode())

	for _, m := range []Mode{ModeOff, ModeOn, ModeBoost} {
		err := c.SetMode(m)
		assert.ErrorIs(t, err, ErrNotSupported)
	}

	// The mode never leaves Unsupported, no matter how often SetMode fails.
	assert.Equal(t, ModeUnsupported, c.Mode())
}

func TestController_SetModeAppliesToVendor(t *testing.T) {
	cap := NewSimulatedCapability(0)
	c := NewController(cap)

	require.True(t, c.Supported())
	assert.Equal(t, ModeOff, c.Mode())

	require.NoError(t, c.SetMode(ModeBoost))
	assert.Equal(t, ModeBoost, c.Mode())
	assert.Equal(t, ModeBoost, cap.SleepMode())
}

func TestController_VendorFailureKeepsCachedMode(t *testing.T) {
	cap := NewSimulatedCapability(0)
	c := NewController(cap)

	require.NoError(t, c.SetMode(ModeOn))

	cap.SetModeErr = errors.New("driver rejected the request")
	err := c.SetMode(ModeBoost)
	require.ErrorIs(t, err, ErrUnknown)

	// No partial transition: the cache still holds the last applied mode.
	assert.Equal(t, ModeOn, c.Mode())
}

func TestController_RejectsNonRequestableMode(t *testing.T) {
	c := NewController(NewSimulatedCapability(0))

	err := c.SetMode(ModeUnsupported)
	assert.ErrorIs(t, err, ErrUnknown)
	assert.Equal(t, ModeOff, c.Mode())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"off", ModeOff, false},
		{"", ModeOff, false},
		{"on", ModeOn, false},
		{"boost", ModeBoost, false},
		{"unsupported", ModeOff, true},
		{"turbo", ModeOff, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
