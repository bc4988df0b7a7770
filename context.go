package frametap

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/pthm-cable/frametap/metrics"
	"github.com/pthm-cable/frametap/reflex"
	"github.com/pthm-cable/frametap/timing"
)

// Surface is an opaque handle to a caller-owned rendering surface. The
// library never creates, dereferences or destroys it; it exists so the
// probe can bind vendor entry points to the right swapchain.
type Surface uintptr

// Probe binds the vendor pacing entry points for a surface. It is invoked
// exactly once per Init. Returning an error (or a nil Probe) leaves the
// context permanently unsupported; Init still succeeds, so integrators
// that never check support keep working with pacing disabled.
type Probe func(Surface) (reflex.Capability, error)

// maxWindowCapacity bounds the metrics buffer a caller can request.
const maxWindowCapacity = 1 << 22

// Option configures a Context at Init.
type Option func(*options)

type options struct {
	windowCapacity int
}

// WithWindowCapacity sets the number of frames the metrics window retains.
// Zero or negative selects metrics.DefaultCapacity.
func WithWindowCapacity(n int) Option {
	return func(o *options) {
		o.windowCapacity = n
	}
}

// Context owns the frame phase tracker, the metrics window and the pacing
// controller for one rendering surface. Contexts are never copied or
// shared across surfaces.
//
// BeginFrame, EndFrame and Sleep belong to the render thread. The mark
// methods may additionally run on a simulation/input thread, and the
// query methods (Metrics, FrameID, Mode, Supported) are safe from any
// thread, including concurrently with EndFrame.
type Context struct {
	surface   Surface
	tracker   *timing.Tracker
	window    *metrics.Window
	ctrl      *reflex.Controller
	gate      *reflex.Gate
	destroyed atomic.Bool
}

// Init creates a context bound to the given surface. The probe runs once;
// on probe failure the context comes back in the permanently unsupported
// state rather than failing Init. The metrics window is sized here, once;
// nothing on the per-frame path allocates afterwards.
func Init(surface Surface, probe Probe, opts ...Option) (*Context, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.windowCapacity > maxWindowCapacity {
		return nil, fmt.Errorf("%w: window capacity %d exceeds %d", ErrOutOfMemory, o.windowCapacity, maxWindowCapacity)
	}

	var binding reflex.Capability
	if probe != nil {
		bound, err := probe(surface)
		if err != nil {
			slog.Warn("pacing capability probe failed, context is unsupported", "error", err)
		} else {
			binding = bound
		}
	}

	ctx := &Context{
		surface: surface,
		window:  metrics.NewWindow(o.windowCapacity),
		ctrl:    reflex.NewController(binding),
	}
	ctx.gate = reflex.NewGate(ctx.ctrl)
	ctx.tracker = timing.NewTracker(func(rec timing.Timings) {
		ctx.window.Push(rec)
	})
	return ctx, nil
}

// Destroy releases the context's owned state. Idempotent. Afterwards the
// void operations silently no-op and the result-returning ones fail with
// ErrInvalidHandle; a destroyed context never crashes the process.
func (c *Context) Destroy() {
	if c == nil {
		return
	}
	if c.destroyed.CompareAndSwap(false, true) {
		c.window.Reset()
	}
}

// invalid reports whether the context may not be used.
func (c *Context) invalid() bool {
	return c == nil || c.destroyed.Load()
}

// BeginFrame starts a new frame and returns its ID. IDs run 0,1,2,...
// with no reuse and no gaps. A still-active frame is ended implicitly
// first. Returns 0 on a destroyed context.
func (c *Context) BeginFrame() uint64 {
	if c.invalid() {
		return 0
	}
	return c.tracker.BeginFrame()
}

// MarkInputSample records the input sampling time; latest call wins.
func (c *Context) MarkInputSample() {
	if c.invalid() {
		return
	}
	c.tracker.MarkInputSample()
}

// MarkSimulationEnd records the end of game/simulation logic.
func (c *Context) MarkSimulationEnd() {
	if c.invalid() {
		return
	}
	c.tracker.MarkSimulationEnd()
}

// MarkRenderSubmitStart records the start of render command submission.
func (c *Context) MarkRenderSubmitStart() {
	if c.invalid() {
		return
	}
	c.tracker.MarkRenderSubmitStart()
}

// MarkRenderSubmitEnd records the end of render command submission.
func (c *Context) MarkRenderSubmitEnd() {
	if c.invalid() {
		return
	}
	c.tracker.MarkRenderSubmitEnd()
}

// MarkPresentStart records the start of present.
func (c *Context) MarkPresentStart() {
	if c.invalid() {
		return
	}
	c.tracker.MarkPresentStart()
}

// MarkPresentEnd records the end of present.
func (c *Context) MarkPresentEnd() {
	if c.invalid() {
		return
	}
	c.tracker.MarkPresentEnd()
}

// EndFrame ends the active frame, pushes its record into the metrics
// window and returns it. Returns a zero record while idle or destroyed.
func (c *Context) EndFrame() timing.Timings {
	if c.invalid() {
		return timing.Timings{}
	}
	return c.tracker.EndFrame()
}

// FrameID returns the most recently issued frame ID.
func (c *Context) FrameID() uint64 {
	if c.invalid() {
		return 0
	}
	return c.tracker.FrameID()
}

// Metrics returns an aggregate snapshot over the retained frames.
func (c *Context) Metrics() metrics.Metrics {
	if c.invalid() {
		return metrics.Metrics{}
	}
	return c.window.Snapshot()
}

// ResetMetrics clears the metrics window and its total frame counter.
// Frame ID sequencing is independent and continues unbroken.
func (c *Context) ResetMetrics() {
	if c.invalid() {
		return
	}
	c.window.Reset()
}

// SetMode applies the requested pacing mode. Fails with ErrNotSupported
// on an unsupported context and ErrInvalidHandle on a destroyed one; on a
// vendor failure the cached mode keeps its prior value.
func (c *Context) SetMode(mode reflex.Mode) error {
	if c.invalid() {
		return ErrInvalidHandle
	}
	return c.ctrl.SetMode(mode)
}

// Mode returns the cached pacing mode without touching the vendor layer.
// A destroyed context reads as unsupported.
func (c *Context) Mode() reflex.Mode {
	if c.invalid() {
		return reflex.ModeUnsupported
	}
	return c.ctrl.Mode()
}

// Supported reports whether the pacing capability probe succeeded.
func (c *Context) Supported() bool {
	if c.invalid() {
		return false
	}
	return c.ctrl.Supported()
}

// Sleep paces the next frame's CPU start against the timeline, then
// waits for it to reach target. On return, success or failure, the
// timeline has reached at least target. Blocks with no timeout and no
// cancellation.
func (c *Context) Sleep(tl *reflex.Timeline, target uint64) error {
	if c.invalid() {
		return ErrInvalidHandle
	}
	return c.gate.Sleep(tl, target)
}
