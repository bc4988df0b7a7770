// Package frametap instruments a real-time render loop: it records
// phase-level timestamps for each frame, aggregates latency metrics over
// a rolling window, and controls a vendor low-latency pacing capability
// (NVIDIA Reflex on Vulkan, via VK_NV_low_latency2).
//
// Typical integration:
//
//	ctx, err := frametap.Init(surface, probe)
//	...
//	ctx.SetMode(reflex.ModeOn)
//	for running {
//		ctx.Sleep(tl, presentCount) // pace next frame's CPU start
//		ctx.BeginFrame()
//		ctx.MarkInputSample()
//		// game simulation
//		ctx.MarkSimulationEnd()
//		ctx.MarkRenderSubmitStart()
//		// record submission
//		ctx.MarkRenderSubmitEnd()
//		ctx.MarkPresentStart()
//		// present
//		ctx.MarkPresentEnd()
//		ctx.EndFrame()
//	}
//	m := ctx.Metrics()
//	ctx.Destroy()
//
// The library performs no rendering and no command submission itself; it
// only records the timestamps the caller marks and aggregates them.
package frametap
