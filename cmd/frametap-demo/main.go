// Demo render loop wired to frametap: marks every frame phase, paces
// through the gate, and shows the rolling metrics on screen.
//
// Usage: go run ./cmd/frametap-demo [-mode on] [-output-dir out]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
	"unsafe"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/frametap"
	"github.com/pthm-cable/frametap/config"
	"github.com/pthm-cable/frametap/output"
	"github.com/pthm-cable/frametap/reflex"
)

type ball struct {
	x, y, vx, vy float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	modeFlag := flag.String("mode", "", "Initial pacing mode: off, on or boost (overrides config)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited, headless defaults to 600)")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *outputDir == "" {
		*outputDir = cfg.Output.Dir
	}
	out, err := output.NewManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	modeName := cfg.Pacing.DefaultMode
	if *modeFlag != "" {
		modeName = *modeFlag
	}
	mode, err := reflex.ParseMode(modeName)
	if err != nil {
		slog.Error("bad pacing mode", "error", err)
		os.Exit(1)
	}

	slog.Info("starting demo",
		"version", frametap.VersionString(),
		"nvidia_gpu", frametap.IsNvidiaGPU(),
		"mode", mode,
		"headless", *headless,
	)

	if *headless {
		if *maxFrames == 0 {
			*maxFrames = 600
		}
		runHeadless(cfg, out, mode, *maxFrames)
		return
	}
	runGraphics(cfg, out, mode, *maxFrames)
}

// newContext initializes a frametap context on the simulated capability,
// standing in for a real Vulkan swapchain binding.
func newContext(cfg *config.Config, surface frametap.Surface, mode reflex.Mode) *frametap.Context {
	probe := func(frametap.Surface) (reflex.Capability, error) {
		return reflex.NewSimulatedCapability(cfg.Derived.FrameInterval), nil
	}

	ctx, err := frametap.Init(surface, probe,
		frametap.WithWindowCapacity(cfg.Metrics.WindowCapacity))
	if err != nil {
		slog.Error("failed to init frametap", "error", err)
		os.Exit(1)
	}

	if mode != reflex.ModeOff || cfg.Pacing.AutoApply {
		if err := ctx.SetMode(mode); err != nil {
			slog.Warn("could not apply pacing mode", "mode", mode, "error", err)
		}
	}
	return ctx
}

// frame runs one instrumented frame: pacing gate, phase marks around the
// supplied simulate and render callbacks, then metrics/output plumbing.
// n is the number of frames completed so far.
func frame(ctx *frametap.Context, tl *reflex.Timeline, cfg *config.Config, out *output.Manager, n uint64, simulate, render func()) {
	// One frame in flight: wait for the previous frame's present signal.
	if err := ctx.Sleep(tl, n); err != nil {
		slog.Warn("pacing sleep failed", "error", err)
	}

	ctx.BeginFrame()
	ctx.MarkInputSample()
	simulate()
	ctx.MarkSimulationEnd()

	ctx.MarkRenderSubmitStart()
	render()
	ctx.MarkRenderSubmitEnd()

	ctx.MarkPresentStart()
	// render() ends with the present call, so the present phase collapses
	// to the edge here; a real integration brackets the swapchain present.
	ctx.MarkPresentEnd()
	rec := ctx.EndFrame()

	tl.Signal(rec.FrameID + 1)

	if cfg.Output.PerFrameCSV {
		if err := out.WriteFrame(rec); err != nil {
			slog.Warn("failed to write frame row", "error", err)
		}
	}
	if n := uint64(cfg.Output.FlushInterval); n > 0 && (rec.FrameID+1)%n == 0 {
		m := ctx.Metrics()
		m.LogStats()
		if err := out.WriteMetrics(m); err != nil {
			slog.Warn("failed to write metrics row", "error", err)
		}
	}
}

func runHeadless(cfg *config.Config, out *output.Manager, mode reflex.Mode, maxFrames int) {
	ctx := newContext(cfg, 0, mode)
	defer ctx.Destroy()

	tl := reflex.NewTimeline()
	simLoad := time.Duration(cfg.Demo.SimLoadUS) * time.Microsecond
	submitLoad := time.Duration(cfg.Demo.SubmitLoadUS) * time.Microsecond

	for i := 0; i < maxFrames; i++ {
		frame(ctx, tl, cfg, out, uint64(i),
			func() { time.Sleep(simLoad) },
			func() { time.Sleep(submitLoad) },
		)
	}

	ctx.Metrics().LogStats()
}

func runGraphics(cfg *config.Config, out *output.Manager, mode reflex.Mode, maxFrames int) {
	rl.InitWindow(int32(cfg.Demo.ScreenWidth), int32(cfg.Demo.ScreenHeight), "frametap demo")
	defer rl.CloseWindow()

	surface := frametap.Surface(uintptr(unsafe.Pointer(rl.GetWindowHandle())))
	ctx := newContext(cfg, surface, mode)
	defer ctx.Destroy()

	tl := reflex.NewTimeline()
	simLoad := time.Duration(cfg.Demo.SimLoadUS) * time.Microsecond

	balls := make([]ball, 24)
	for i := range balls {
		balls[i] = ball{
			x:  float32(30 * (i + 1) % cfg.Demo.ScreenWidth),
			y:  float32(50 * (i + 1) % cfg.Demo.ScreenHeight),
			vx: float32(2 + i%5),
			vy: float32(1 + i%7),
		}
	}

	for n := uint64(0); !rl.WindowShouldClose(); n++ {
		frame(ctx, tl, cfg, out, n,
			func() {
				time.Sleep(simLoad)
				stepBalls(balls, cfg)
			},
			func() {
				drawScene(ctx, balls)
			},
		)
		if maxFrames > 0 && ctx.FrameID() >= uint64(maxFrames) {
			break
		}
	}

	ctx.Metrics().LogStats()
}

func stepBalls(balls []ball, cfg *config.Config) {
	w := float32(cfg.Demo.ScreenWidth)
	h := float32(cfg.Demo.ScreenHeight)
	for i := range balls {
		b := &balls[i]
		b.x += b.vx
		b.y += b.vy
		if b.x < 0 || b.x > w {
			b.vx = -b.vx
		}
		if b.y < 0 || b.y > h {
			b.vy = -b.vy
		}
	}
}

func drawScene(ctx *frametap.Context, balls []ball) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	for _, b := range balls {
		rl.DrawCircle(int32(b.x), int32(b.y), 8, rl.SkyBlue)
	}

	drawHUD(ctx)
	drawModePanel(ctx)

	rl.EndDrawing()
}

func drawHUD(ctx *frametap.Context) {
	m := ctx.Metrics()

	rl.DrawText(fmt.Sprintf("Frame: %d  Total: %d", ctx.FrameID(), m.TotalFrames), 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Avg: %.2f ms | FPS: %.1f | 1%% low: %.1f",
			float64(m.AvgFrameTimeUS)/1000, m.AvgFPS, m.FPS1Low),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(fmt.Sprintf("Input latency: %.2f ms", float64(m.AvgInputLatencyUS)/1000), 10, 55, 16, rl.LightGray)

	modeColor := rl.Gray
	if ctx.Mode() == reflex.ModeOn || ctx.Mode() == reflex.ModeBoost {
		modeColor = rl.Green
	}
	rl.DrawText(fmt.Sprintf("Pacing: %s", ctx.Mode()), 10, 75, 16, modeColor)
}

func drawModePanel(ctx *frametap.Context) {
	panelX := float32(rl.GetScreenWidth() - 130)
	panelY := float32(10)

	for _, m := range []reflex.Mode{reflex.ModeOff, reflex.ModeOn, reflex.ModeBoost} {
		label := m.String()
		if ctx.Mode() == m {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 26}, label) {
			if err := ctx.SetMode(m); err != nil {
				slog.Warn("mode change rejected", "mode", m, "error", err)
			}
		}
		panelY += 32
	}

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY + 8, Width: 120, Height: 26}, "Reset metrics") {
		ctx.ResetMetrics()
	}
}
