package frametap_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/frametap"
	"github.com/pthm-cable/frametap/reflex"
)

func simProbe(frametap.Surface) (reflex.Capability, error) {
	return reflex.NewSimulatedCapability(0), nil
}

func failingProbe(frametap.Surface) (reflex.Capability, error) {
	return nil, errors.New("extension not present")
}

func TestInit_ProbeFailureYieldsUnsupportedContext(t *testing.T) {
	ctx, err := frametap.Init(0, failingProbe)
	require.NoError(t, err, "probe failure must not fail Init")
	defer ctx.Destroy()

	assert.False(t, ctx.Supported())
	assert.Equal(t, reflex.ModeUnsupported, ctx.Mode())

	err = ctx.SetMode(reflex.ModeOn)
	assert.ErrorIs(t, err, frametap.ErrNotSupported)
	assert.Equal(t, reflex.ModeUnsupported, ctx.Mode())

	// Timing still works without the capability.
	ctx.BeginFrame()
	time.Sleep(time.Millisecond)
	rec := ctx.EndFrame()
	assert.NotZero(t, rec.TotalUS)
}

func TestInit_NilProbe(t *testing.T) {
	ctx, err := frametap.Init(0, nil)
	require.NoError(t, err)
	defer ctx.Destroy()

	assert.False(t, ctx.Supported())
}

func TestInit_ExcessiveWindowCapacity(t *testing.T) {
	ctx, err := frametap.Init(0, simProbe, frametap.WithWindowCapacity(1<<30))
	assert.ErrorIs(t, err, frametap.ErrOutOfMemory)
	assert.Nil(t, ctx)
}

func TestContext_EndFrameFeedsMetrics(t *testing.T) {
	ctx, err := frametap.Init(0, simProbe, frametap.WithWindowCapacity(16))
	require.NoError(t, err)
	defer ctx.Destroy()

	for i := 0; i < 3; i++ {
		ctx.BeginFrame()
		time.Sleep(time.Millisecond)
		ctx.EndFrame()
	}

	m := ctx.Metrics()
	assert.Equal(t, uint64(3), m.TotalFrames)
	assert.NotZero(t, m.AvgFrameTimeUS)
	assert.NotZero(t, m.AvgFPS)
}

func TestContext_ResetMetricsKeepsFrameIDSequence(t *testing.T) {
	ctx, err := frametap.Init(0, simProbe)
	require.NoError(t, err)
	defer ctx.Destroy()

	assert.Equal(t, uint64(0), ctx.BeginFrame())
	ctx.EndFrame()
	assert.Equal(t, uint64(1), ctx.BeginFrame())
	ctx.EndFrame()

	ctx.ResetMetrics()

	m := ctx.Metrics()
	assert.Equal(t, uint64(0), m.TotalFrames)

	// The ID sequence is independent of metrics and continues unbroken.
	assert.Equal(t, uint64(2), ctx.BeginFrame())
	ctx.EndFrame()
}

func TestContext_SetModeAppliesAndCaches(t *testing.T) {
	ctx, err := frametap.Init(0, simProbe)
	require.NoError(t, err)
	defer ctx.Destroy()

	require.True(t, ctx.Supported())
	assert.Equal(t, reflex.ModeOff, ctx.Mode())

	require.NoError(t, ctx.SetMode(reflex.ModeBoost))
	assert.Equal(t, reflex.ModeBoost, ctx.Mode())
}

func TestContext_SleepPostconditionWithPacingOff(t *testing.T) {
	ctx, err := frametap.Init(0, failingProbe)
	require.NoError(t, err)
	defer ctx.Destroy()

	tl := reflex.NewTimeline()
	go func() {
		time.Sleep(2 * time.Millisecond)
		tl.Signal(7)
	}()

	require.NoError(t, ctx.Sleep(tl, 7))
	assert.GreaterOrEqual(t, tl.Value(), uint64(7))
}

func TestContext_DestroyedHandle(t *testing.T) {
	ctx, err := frametap.Init(0, simProbe)
	require.NoError(t, err)

	ctx.BeginFrame()
	ctx.Destroy()
	ctx.Destroy() // idempotent

	// Void operations no-op without crashing.
	ctx.MarkInputSample()
	ctx.MarkSimulationEnd()
	ctx.MarkRenderSubmitStart()
	ctx.MarkRenderSubmitEnd()
	ctx.MarkPresentStart()
	ctx.MarkPresentEnd()
	ctx.ResetMetrics()

	assert.Equal(t, uint64(0), ctx.BeginFrame())
	assert.Zero(t, ctx.EndFrame())
	assert.Zero(t, ctx.Metrics())
	assert.False(t, ctx.Supported())
	assert.Equal(t, reflex.ModeUnsupported, ctx.Mode())

	// Result-returning operations report the dead handle.
	assert.ErrorIs(t, ctx.SetMode(reflex.ModeOn), frametap.ErrInvalidHandle)
	assert.ErrorIs(t, ctx.Sleep(reflex.NewTimeline(), 0), frametap.ErrInvalidHandle)
}

func TestVersion(t *testing.T) {
	want := uint32(frametap.VersionMajor<<16 | frametap.VersionMinor<<8 | frametap.VersionPatch)
	assert.Equal(t, want, frametap.Version())
	assert.Equal(t, "0.1.0", frametap.VersionString())
}

func TestIsNvidiaGPU_DoesNotPanic(t *testing.T) {
	// Hardware-dependent; only assert it answers.
	_ = frametap.IsNvidiaGPU()
}
