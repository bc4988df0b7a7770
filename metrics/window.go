// Package metrics aggregates completed frame timings over a fixed-size
// rolling window.
package metrics

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/frametap/timing"
)

// DefaultCapacity is the window size used when none is configured.
const DefaultCapacity = 1000

// Window is a fixed-capacity circular buffer of frame timings plus an
// unbounded frame counter. Push, Snapshot and Reset may run concurrently
// from different threads; the buffer is sized once at construction and
// Push never allocates, so the render thread's frame-end path stays
// jitter-free.
type Window struct {
	mu          sync.Mutex
	samples     []timing.Timings
	writeIndex  int
	sampleCount int
	totalFrames uint64
}

// NewWindow creates a window retaining up to capacity frames.
// Non-positive capacities fall back to DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Window{
		samples: make([]timing.Timings, capacity),
	}
}

// Capacity returns the fixed window size.
func (w *Window) Capacity() int {
	return len(w.samples)
}

// Push records a completed frame, evicting the oldest retained record
// when the window is full. The total frame counter always advances,
// independent of eviction.
func (w *Window) Push(rec timing.Timings) {
	w.mu.Lock()
	w.samples[w.writeIndex] = rec
	w.writeIndex = (w.writeIndex + 1) % len(w.samples)
	if w.sampleCount < len(w.samples) {
		w.sampleCount++
	}
	w.totalFrames++
	w.mu.Unlock()
}

// Reset clears the retained records and zeroes the frame counter.
// Frame ID sequencing lives in the tracker and is unaffected.
func (w *Window) Reset() {
	w.mu.Lock()
	w.writeIndex = 0
	w.sampleCount = 0
	w.totalFrames = 0
	w.mu.Unlock()
}

// Snapshot computes aggregate metrics over the currently retained
// records. The retained records are copied out under the lock and the
// aggregation runs outside it, so a slow telemetry reader never stalls
// the render thread's Push.
func (w *Window) Snapshot() Metrics {
	w.mu.Lock()
	total := w.totalFrames
	retained := make([]timing.Timings, w.sampleCount)
	copy(retained, w.samples[:w.sampleCount])
	w.mu.Unlock()

	m := Metrics{TotalFrames: total}
	if len(retained) == 0 {
		return m
	}

	frameTimes := make([]float64, len(retained))
	var inputLatencies []float64
	for i, rec := range retained {
		frameTimes[i] = float64(rec.TotalUS)
		if rec.InputLatencyUS > 0 {
			inputLatencies = append(inputLatencies, float64(rec.InputLatencyUS))
		}
	}

	avg := stat.Mean(frameTimes, nil)
	m.AvgFrameTimeUS = uint64(math.Round(avg))
	if avg > 0 {
		m.AvgFPS = 1e6 / avg
	}
	m.FPS1Low = onePercentLow(frameTimes)

	// Input latency only averages frames that actually sampled input;
	// frames without a sample would drag the mean toward zero.
	if len(inputLatencies) > 0 {
		m.AvgInputLatencyUS = uint64(math.Round(stat.Mean(inputLatencies, nil)))
	}

	return m
}

// onePercentLow returns the frame rate implied by the slowest ~1% of the
// given frame times: sort descending, average the worst max(1, ceil(n/100))
// entries, convert to fps. The metric is meant to be dominated by
// outliers; a single 100ms stutter in a hundred 10ms frames reads as
// 10 fps here while barely denting the plain average.
func onePercentLow(frameTimes []float64) float64 {
	sort.Sort(sort.Reverse(sort.Float64Slice(frameTimes)))

	worst := int(math.Ceil(0.01 * float64(len(frameTimes))))
	if worst < 1 {
		worst = 1
	}

	avgWorst := stat.Mean(frameTimes[:worst], nil)
	if avgWorst <= 0 {
		return 0
	}
	return 1e6 / avgWorst
}
