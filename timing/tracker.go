// Package timing records phase timestamps for one in-flight frame and
// derives a Timings record when the frame ends.
package timing

import (
	"sync/atomic"
	"time"
)

// Sink receives the Timings record of every completed frame.
type Sink func(Timings)

// Tracker is the per-context frame phase state machine. One frame is live
// at a time: BeginFrame moves Idle -> Active, EndFrame moves back to Idle.
//
// BeginFrame and EndFrame belong to the render thread. The mark methods
// may be called from a simulation/input thread; each timestamp slot is a
// single atomic word, so cross-thread marks never tear. Ordering between
// threads is the integrator's job (their existing frame synchronization).
//
// Marks never fail and never block. A mark in the wrong state or order
// degrades the data (the slot stays unset and the derived field reads 0)
// instead of disturbing the caller's loop.
type Tracker struct {
	sink Sink

	active atomic.Bool
	nextID uint64
	lastID atomic.Uint64

	// Timestamp slots in nanoseconds since the Unix epoch. 0 means unset.
	begin        atomic.Int64
	inputSample  atomic.Int64
	simEnd       atomic.Int64
	submitStart  atomic.Int64
	submitEnd    atomic.Int64
	presentStart atomic.Int64
	presentEnd   atomic.Int64
}

// NewTracker creates a tracker. sink is invoked once per completed frame,
// on the thread that ended it; a nil sink discards the records.
func NewTracker(sink Sink) *Tracker {
	if sink == nil {
		sink = func(Timings) {}
	}
	return &Tracker{sink: sink}
}

// BeginFrame starts a new frame and returns its ID. IDs start at 0 and
// increase by exactly 1 per call, independent of which marks follow.
// If a frame is still Active, it is ended first under the same rules as
// EndFrame, so this is always safe to call.
func (t *Tracker) BeginFrame() uint64 {
	if t.active.Load() {
		t.finish()
	}

	id := t.nextID
	t.nextID++
	t.lastID.Store(id)

	t.inputSample.Store(0)
	t.simEnd.Store(0)
	t.submitStart.Store(0)
	t.submitEnd.Store(0)
	t.presentStart.Store(0)
	t.presentEnd.Store(0)
	t.begin.Store(time.Now().UnixNano())
	t.active.Store(true)

	return id
}

// MarkInputSample records the input sampling time. Unlike the phase edge
// marks, a later call overwrites an earlier one: input may be re-sampled
// within a frame and the freshest sample is the one that reaches the
// display. No-op while Idle.
func (t *Tracker) MarkInputSample() {
	if !t.active.Load() {
		return
	}
	t.inputSample.Store(time.Now().UnixNano())
}

// MarkSimulationEnd records the end of game/simulation logic.
func (t *Tracker) MarkSimulationEnd() { t.markOnce(&t.simEnd) }

// MarkRenderSubmitStart records the start of render command submission.
func (t *Tracker) MarkRenderSubmitStart() { t.markOnce(&t.submitStart) }

// MarkRenderSubmitEnd records the end of render command submission.
func (t *Tracker) MarkRenderSubmitEnd() { t.markOnce(&t.submitEnd) }

// MarkPresentStart records the start of present.
func (t *Tracker) MarkPresentStart() { t.markOnce(&t.presentStart) }

// MarkPresentEnd records the end of present.
func (t *Tracker) MarkPresentEnd() { t.markOnce(&t.presentEnd) }

// markOnce sets a phase edge slot if it is still unset. Repeated calls
// keep the first value; these marks delimit discrete phase edges.
func (t *Tracker) markOnce(slot *atomic.Int64) {
	if !t.active.Load() {
		return
	}
	slot.CompareAndSwap(0, time.Now().UnixNano())
}

// EndFrame ends the Active frame, derives its Timings, hands the record
// to the sink and returns it. Returns a zero record while Idle.
func (t *Tracker) EndFrame() Timings {
	if !t.active.Load() {
		return Timings{}
	}
	return t.finish()
}

// FrameID returns the most recently issued frame ID. Safe from any thread.
func (t *Tracker) FrameID() uint64 {
	return t.lastID.Load()
}

func (t *Tracker) finish() Timings {
	now := time.Now().UnixNano()
	t.active.Store(false)

	begin := t.begin.Load()
	presentEnd := t.presentEnd.Load()

	// Input latency runs to present end when it was marked, otherwise to
	// frame end; the photon left the pipeline somewhere in between.
	inputEnd := presentEnd
	if inputEnd == 0 {
		inputEnd = now
	}

	rec := Timings{
		FrameID:        t.lastID.Load(),
		SimulationUS:   elapsedUS(begin, t.simEnd.Load()),
		RenderSubmitUS: elapsedUS(t.submitStart.Load(), t.submitEnd.Load()),
		PresentUS:      elapsedUS(t.presentStart.Load(), presentEnd),
		TotalUS:        elapsedUS(begin, now),
		InputLatencyUS: elapsedUS(t.inputSample.Load(), inputEnd),
	}

	t.sink(rec)
	return rec
}

// elapsedUS converts a nanosecond timestamp pair to microseconds,
// clamped to 0 when either endpoint is unset or the marks arrived out
// of order. Derived durations are never negative.
func elapsedUS(start, end int64) uint64 {
	if start == 0 || end == 0 || end < start {
		return 0
	}
	return uint64(end-start) / 1000
}
