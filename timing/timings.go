package timing

// Timings holds the derived phase durations for one completed frame.
// All durations are in microseconds. A field is 0 when the marks that
// bound it were never recorded for that frame.
type Timings struct {
	FrameID        uint64 `csv:"frame_id"`
	SimulationUS   uint64 `csv:"simulation_us"`
	RenderSubmitUS uint64 `csv:"render_submit_us"`
	PresentUS      uint64 `csv:"present_us"`
	TotalUS        uint64 `csv:"total_us"`
	InputLatencyUS uint64 `csv:"input_latency_us"`
}
