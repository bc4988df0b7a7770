package metrics

import (
	"math"
	"sync"
	"testing"

	"github.com/pthm-cable/frametap/timing"
)

func push(w *Window, totalUS uint64) {
	w.Push(timing.Timings{TotalUS: totalUS})
}

func TestWindow_EmptySnapshot(t *testing.T) {
	w := NewWindow(100)

	m := w.Snapshot()

	if m.TotalFrames != 0 || m.AvgFrameTimeUS != 0 || m.AvgFPS != 0 || m.FPS1Low != 0 || m.AvgInputLatencyUS != 0 {
		t.Errorf("empty window should snapshot to all zeros, got %+v", m)
	}
}

func TestWindow_AverageAndFPS(t *testing.T) {
	w := NewWindow(100)

	// Steady 10ms frames.
	for i := 0; i < 50; i++ {
		push(w, 10000)
	}

	m := w.Snapshot()

	if m.AvgFrameTimeUS != 10000 {
		t.Errorf("AvgFrameTimeUS = %d, want 10000", m.AvgFrameTimeUS)
	}
	if math.Abs(m.AvgFPS-100) > 0.001 {
		t.Errorf("AvgFPS = %v, want 100", m.AvgFPS)
	}
	if m.TotalFrames != 50 {
		t.Errorf("TotalFrames = %d, want 50", m.TotalFrames)
	}
}

func TestWindow_OnePercentLowOutlier(t *testing.T) {
	w := NewWindow(1000)

	// 99 clean 10ms frames and one 1s stutter. The 1% low metric must be
	// dominated by the single outlier while the average barely moves.
	for i := 0; i < 99; i++ {
		push(w, 10000)
	}
	push(w, 1000000)

	m := w.Snapshot()

	if m.AvgFrameTimeUS != 19900 {
		t.Errorf("AvgFrameTimeUS = %d, want 19900", m.AvgFrameTimeUS)
	}
	if math.Abs(m.FPS1Low-1.0) > 0.001 {
		t.Errorf("FPS1Low = %v, want 1.0", m.FPS1Low)
	}
}

func TestWindow_OnePercentLowSmallOccupancy(t *testing.T) {
	w := NewWindow(1000)

	// With fewer than 100 samples, ceil(0.01*n) clamps to one entry: the
	// single worst frame.
	push(w, 5000)
	push(w, 20000)
	push(w, 5000)

	m := w.Snapshot()

	if math.Abs(m.FPS1Low-50) > 0.001 {
		t.Errorf("FPS1Low = %v, want 50 (worst single frame of 20ms)", m.FPS1Low)
	}
}

func TestWindow_Eviction(t *testing.T) {
	w := NewWindow(4)

	// Eight slow frames pushed out by four fast ones: the snapshot covers
	// only retained entries, while TotalFrames keeps counting.
	for i := 0; i < 8; i++ {
		push(w, 100000)
	}
	for i := 0; i < 4; i++ {
		push(w, 10000)
	}

	m := w.Snapshot()

	if m.AvgFrameTimeUS != 10000 {
		t.Errorf("AvgFrameTimeUS = %d, want 10000 after eviction", m.AvgFrameTimeUS)
	}
	if m.TotalFrames != 12 {
		t.Errorf("TotalFrames = %d, want 12", m.TotalFrames)
	}
}

func TestWindow_InputLatencySkipsUnsampledFrames(t *testing.T) {
	w := NewWindow(100)

	w.Push(timing.Timings{TotalUS: 10000, InputLatencyUS: 8000})
	w.Push(timing.Timings{TotalUS: 10000}) // no input sample this frame
	w.Push(timing.Timings{TotalUS: 10000, InputLatencyUS: 4000})

	m := w.Snapshot()

	if m.AvgInputLatencyUS != 6000 {
		t.Errorf("AvgInputLatencyUS = %d, want 6000 (mean over sampled frames only)", m.AvgInputLatencyUS)
	}
}

func TestWindow_Reset(t *testing.T) {
	w := NewWindow(100)

	for i := 0; i < 10; i++ {
		push(w, 10000)
	}
	w.Reset()

	m := w.Snapshot()
	if m.TotalFrames != 0 || m.AvgFrameTimeUS != 0 || m.AvgFPS != 0 || m.FPS1Low != 0 {
		t.Errorf("snapshot after reset should be all zeros, got %+v", m)
	}

	// The window keeps working after a reset.
	push(w, 10000)
	m = w.Snapshot()
	if m.TotalFrames != 1 {
		t.Errorf("TotalFrames = %d, want 1 after reset and one push", m.TotalFrames)
	}
}

func TestWindow_ConcurrentPushAndSnapshot(t *testing.T) {
	w := NewWindow(64)

	// Every pushed record carries the same value in both fields; a torn
	// read would surface as a snapshot whose aggregates disagree.
	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			w.Push(timing.Timings{TotalUS: 10000, InputLatencyUS: 10000})
		}
		close(done)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			m := w.Snapshot()
			if m.TotalFrames > 0 {
				if m.AvgFrameTimeUS != 10000 {
					t.Errorf("AvgFrameTimeUS = %d, want 10000", m.AvgFrameTimeUS)
					return
				}
				if m.AvgInputLatencyUS != 10000 {
					t.Errorf("AvgInputLatencyUS = %d, want 10000", m.AvgInputLatencyUS)
					return
				}
			}
			select {
			case <-done:
				return
			default:
			}
		}
	}()

	wg.Wait()
}
