package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("MUDRA_DATA_DIR", t.TempDir())

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.FPS != 15 {
		t.Errorf("expected default FPS 15, got %d", cfg.FPS)
	}
	if cfg.AssistantTimeout != 20*time.Second {
		t.Errorf("expected default assistant timeout 20s, got %v", cfg.AssistantTimeout)
	}
	if cfg.Gesture != gesture.DefaultConfig() {
		t.Errorf("expected default gesture config, got %+v", cfg.Gesture)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Addr())
	}
	if cfg.FrameInterval() != time.Second/15 {
		t.Errorf("unexpected frame interval %v", cfg.FrameInterval())
	}
	if !cfg.PluginsEnabled || cfg.PluginTimeout != 5*time.Second {
		t.Errorf("unexpected plugin defaults enabled=%v timeout=%v", cfg.PluginsEnabled, cfg.PluginTimeout)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MUDRA_DATA_DIR", dir)
	t.Setenv("MUDRA_PORT", "9090")
	t.Setenv("MUDRA_ASSISTANT_MODEL", "local-model")
	t.Setenv("MUDRA_ASSISTANT_TIMEOUT", "5s")
	t.Setenv("MUDRA_DETECTOR_MAX_HANDS", "1")
	t.Setenv("MUDRA_CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.DBPath() != filepath.Join(dir, "mudra.db") {
		t.Errorf("unexpected db path %s", cfg.DBPath())
	}
	if got := cfg.AssistantConfig(); got.Model != "local-model" || got.Timeout != 5*time.Second {
		t.Errorf("unexpected assistant config %+v", got)
	}
	if got := cfg.DetectorConfig(); got.MaxHands != 1 {
		t.Errorf("expected max hands 1, got %d", got.MaxHands)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.PluginDir != filepath.Join(dir, "plugins") {
		t.Errorf("expected plugin dir under data dir, got %s", cfg.PluginDir)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port out of range", key: "MUDRA_PORT", value: "70000"},
		{name: "zero fps", key: "MUDRA_FPS", value: "0"},
		{name: "unknown log level", key: "MUDRA_LOG_LEVEL", value: "chatty"},
		{name: "not a number", key: "MUDRA_CAMERA_ID", value: "front"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MUDRA_DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadGestureFile(t *testing.T) {
	t.Run("overlays present keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gestures.yaml")
		data := "hold_duration: 1500ms\nswipe_threshold: 0.2\n"
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadGestureFile(path, gesture.DefaultConfig())
		if err != nil {
			t.Fatalf("LoadGestureFile() failed: %v", err)
		}
		if cfg.HoldDuration != 1500*time.Millisecond {
			t.Errorf("expected hold 1.5s, got %v", cfg.HoldDuration)
		}
		if cfg.SwipeThreshold != 0.2 {
			t.Errorf("expected threshold 0.2, got %f", cfg.SwipeThreshold)
		}
		if cfg.SwipeWindow != gesture.DefaultConfig().SwipeWindow {
			t.Errorf("expected default window, got %v", cfg.SwipeWindow)
		}
	})

	t.Run("rejects invalid thresholds", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gestures.yaml")
		if err := os.WriteFile(path, []byte("swipe_threshold: 1.5\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadGestureFile(path, gesture.DefaultConfig()); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadGestureFile(filepath.Join(t.TempDir(), "nope.yaml"), gesture.DefaultConfig()); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("env points at file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gestures.yaml")
		if err := os.WriteFile(path, []byte("swipe_cooldown: 1s\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("MUDRA_DATA_DIR", t.TempDir())
		t.Setenv("MUDRA_GESTURE_FILE", path)

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() failed: %v", err)
		}
		if cfg.Gesture.SwipeCooldown != time.Second {
			t.Errorf("expected cooldown 1s, got %v", cfg.Gesture.SwipeCooldown)
		}
	})
}
