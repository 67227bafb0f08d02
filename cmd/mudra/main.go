package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/assistant"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/observability"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger.Info().
		Int("port", cfg.Port).
		Str("data_dir", cfg.DataDir).
		Bool("camera", cfg.CameraEnabled).
		Msg("Starting mudra")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create data directory")
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer st.Close()

	dispatcher := assistant.NewDispatcher(
		assistant.NewHTTPClient(cfg.AssistantConfig()),
		cfg.AssistantTimeout,
		logger,
	)
	defer dispatcher.Close()

	hub := server.NewHub(logger)

	appCfg := app.Config{
		Dispatcher:    dispatcher,
		Publisher:     hub,
		Gesture:       cfg.Gesture,
		FrameInterval: cfg.FrameInterval(),
		Logger:        logger,
	}
	if cfg.CameraEnabled {
		camCfg := capture.DefaultConfig()
		camCfg.DeviceID = cfg.CameraID
		camCfg.FPS = cfg.FPS
		appCfg.Camera = capture.NewCamera(camCfg, logger)
		appCfg.Detector = newDetector(cfg, logger)
	}

	application := app.New(appCfg)
	restoreDeck(st, application, logger)

	if cfg.PluginsEnabled {
		plugins := plugin.NewManager(cfg.PluginDir, logger)
		if err := plugins.Discover(); err != nil {
			logger.Warn().Err(err).Msg("Plugin discovery failed")
		}
		runner := plugin.NewRunner(plugins, plugin.NewExecutor(cfg.PluginTimeout), logger)
		defer runner.Close()
		application.Subscribe(runner)
	}

	application.SetEnabled(true)
	if err := application.Start(); err != nil {
		if errors.Is(err, app.ErrNoCamera) {
			logger.Info().Msg("Camera disabled; gestures off, manual navigation only")
		} else {
			logger.Error().Err(err).Msg("Failed to start detection pipeline")
		}
	}
	defer application.Stop()

	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		logger.Info().Str("dir", webDir).Msg("Serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Presenter: application,
		Frames:    application.Frames(),
		Hub:       hub,
		Metrics:   cfg.MetricsEnabled,
		Logger:    logger,

		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		if err := srv.ListenAndServe(cfg.Addr()); err != nil {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if cfg.TrayEnabled {
		t := newTray(application, cfg, logger)
		go func() {
			<-sigCh
			t.Quit()
		}()
		// systray needs the main goroutine; Run returns after Quit.
		t.Run()
	} else {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}
	logger.Info().Msg("Shutdown complete")
}

// newDetector prefers the MediaPipe service and falls back to a detector
// that never sees hands, so the preview stream still works without Python.
func newDetector(cfg *config.Config, logger zerolog.Logger) detector.Detector {
	d, err := detector.NewMediaPipeDetector(cfg.DetectorConfig(), logger)
	if err != nil {
		logger.Warn().Err(err).Msg("MediaPipe unavailable; gestures will not be detected")
		return detector.NewMockDetector()
	}
	return d
}

// restoreDeck reloads the deck that was active when mudra last ran.
func restoreDeck(st *store.Store, application *app.App, logger zerolog.Logger) {
	id, err := st.Settings().Get(store.KeyActiveDeck)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn().Err(err).Msg("Failed to read active deck")
		}
		return
	}

	deck, err := st.Decks().GetByID(id)
	if err != nil {
		logger.Warn().Err(err).Str("deck", id).Msg("Active deck not restored")
		return
	}
	application.LoadDeck(*deck)
}

func newTray(application *app.App, cfg *config.Config, logger zerolog.Logger) *tray.Tray {
	t := tray.New(application.IsEnabled())
	t.OnToggle(application.SetEnabled)
	t.OnNext(func() { application.Next() })
	t.OnPrev(func() { application.Prev() })
	t.OnSettings(func() {
		logger.Info().Str("url", "http://localhost"+cfg.Addr()).Msg("Presenter view")
	})
	application.Subscribe(t)
	return t
}

// findWebDir searches for the web directory in common locations: "web",
// "../web", "../../web" and <dataDir>/web. Returns "" if none exists.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	dir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
