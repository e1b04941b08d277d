// Command oxy-scene renders a scene described by a YAML file, in a window or headless.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine"
	"github.com/Carmen-Shannon/oxy-scene/engine/config"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/wgpu_backend"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
)

func main() {
	configPath := flag.String("config", "", "scene description `file` (YAML); the built-in cube scene when empty")
	headlessMode := flag.Bool("headless", false, "render with the in-memory backend instead of a window")
	frames := flag.Int("frames", 120, "number of frames to render in headless mode")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "oxy-scene: invalid -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *headlessMode, *frames); err != nil {
		logger.Error("oxy-scene failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string, headlessMode bool, frames int) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var (
		backend renderer.RendererBackend
		win     window.Window
		width   = cfg.Window.Width
		height  = cfg.Window.Height
	)
	if headlessMode {
		backend = headless.NewHeadlessBackend()
	} else {
		resizable := cfg.Window.Resizable == nil || *cfg.Window.Resizable
		w, err := window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
			window.WithResizable(resizable),
		)
		if err != nil {
			return err
		}
		defer w.Close()
		win = w

		b, err := wgpu_backend.NewWGPUBackend(win.SurfaceDescriptor(), wgpu_backend.WithLogger(logger))
		if err != nil {
			return err
		}
		backend = b
		width, height = win.Size()
	}

	s, err := scene.NewScene(cfg.Window.Title, backend, width, height,
		scene.WithLogger(logger),
		scene.WithCameraOptions(cfg.Camera.Options()...),
		scene.WithRendererOptions(cfg.Renderer.Options()...),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	spins, err := cfg.Populate(s)
	if err != nil {
		return err
	}

	options := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithProfiling(true),
		engine.WithTickCallback(spins.Tick),
	}
	if headlessMode {
		options = append(options, engine.WithFixedTimestep(time.Second/60))
	} else {
		options = append(options, engine.WithWindow(win))
	}
	e, err := engine.NewEngine(s, options...)
	if err != nil {
		return err
	}

	if headlessMode {
		if err := e.RunFrames(frames); err != nil {
			return err
		}
		stats := s.Stats()
		logger.Info("headless run complete",
			"frames", e.Frames(),
			"skipped", e.Skipped(),
			"objects", stats.Objects,
			"draw_calls", stats.DrawCalls,
			"instances", stats.Instances,
			"scene_time", s.Time(),
		)
		return nil
	}
	return e.Run()
}
