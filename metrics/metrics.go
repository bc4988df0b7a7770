package metrics

import "log/slog"

// Metrics is an aggregated snapshot over the currently retained frames.
type Metrics struct {
	TotalFrames       uint64  `csv:"total_frames"`
	AvgFrameTimeUS    uint64  `csv:"avg_frame_time_us"`
	AvgFPS            float64 `csv:"avg_fps"`
	FPS1Low           float64 `csv:"fps_1_low"`
	AvgInputLatencyUS uint64  `csv:"avg_input_latency_us"`
}

// LogValue implements slog.LogValuer for structured logging.
func (m Metrics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("total_frames", m.TotalFrames),
		slog.Uint64("avg_frame_time_us", m.AvgFrameTimeUS),
		slog.Float64("avg_fps", m.AvgFPS),
		slog.Float64("fps_1_low", m.FPS1Low),
		slog.Uint64("avg_input_latency_us", m.AvgInputLatencyUS),
	)
}

// LogStats logs the snapshot using slog.
func (m Metrics) LogStats() {
	slog.Info("frame metrics",
		"total_frames", m.TotalFrames,
		"avg_frame_time_us", m.AvgFrameTimeUS,
		"avg_fps", m.AvgFPS,
		"fps_1_low", m.FPS1Low,
		"avg_input_latency_us", m.AvgInputLatencyUS,
	)
}
