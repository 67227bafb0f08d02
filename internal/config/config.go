// Package config loads mudra's settings from the environment, an optional
// .env file and an optional YAML file of gesture thresholds.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/assistant"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Prefix is prepended to every environment variable, e.g. MUDRA_PORT.
const Prefix = "MUDRA"

// Config holds all configuration for the controller.
type Config struct {
	// Server configuration
	Port        int      `envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	DataDir     string   `envconfig:"DATA_DIR"` // defaults to ~/.mudra
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	// Camera and detector
	CameraEnabled         bool    `envconfig:"CAMERA_ENABLED" default:"true"`
	CameraID              int     `envconfig:"CAMERA_ID" default:"0" validate:"gte=0"`
	FPS                   int     `envconfig:"FPS" default:"15" validate:"gte=1,lte=60"`
	DetectorScript        string  `envconfig:"DETECTOR_SCRIPT"`
	DetectorPython        string  `envconfig:"DETECTOR_PYTHON"`
	DetectorMaxHands      int     `envconfig:"DETECTOR_MAX_HANDS" default:"2" validate:"gte=1,lte=4"`
	DetectorMinConfidence float64 `envconfig:"DETECTOR_MIN_CONFIDENCE" default:"0.5" validate:"gte=0,lte=1"`

	// Gesture thresholds; see gesture.Config for the keys.
	GestureFile string `envconfig:"GESTURE_FILE"`

	// Text-generation service (OpenAI-compatible)
	AssistantURL         string        `envconfig:"ASSISTANT_URL" default:"https://api.openai.com/v1" validate:"required,url"`
	AssistantAPIKey      string        `envconfig:"ASSISTANT_API_KEY"`
	AssistantModel       string        `envconfig:"ASSISTANT_MODEL" default:"gpt-4o-mini" validate:"required"`
	AssistantMaxTokens   int           `envconfig:"ASSISTANT_MAX_TOKENS" default:"200" validate:"gt=0"`
	AssistantTemperature float64       `envconfig:"ASSISTANT_TEMPERATURE" default:"0.7" validate:"gte=0,lte=2"`
	AssistantTimeout     time.Duration `envconfig:"ASSISTANT_TIMEOUT" default:"20s" validate:"gt=0"`

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`

	TrayEnabled bool `envconfig:"TRAY_ENABLED" default:"false"`

	// Event hook executables
	PluginsEnabled bool          `envconfig:"PLUGINS_ENABLED" default:"true"`
	PluginDir      string        `envconfig:"PLUGIN_DIR"` // defaults to <DataDir>/plugins
	PluginTimeout  time.Duration `envconfig:"PLUGIN_TIMEOUT" default:"5s" validate:"gt=0"`

	Gesture gesture.Config `ignored:"true"`
}

var validate = validator.New()

// Load reads configuration from the environment after loading .env if present.
func Load() (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from the environment only.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".mudra")
	}
	if cfg.PluginDir == "" {
		cfg.PluginDir = filepath.Join(cfg.DataDir, "plugins")
	}

	cfg.Gesture = gesture.DefaultConfig()
	if cfg.GestureFile != "" {
		g, err := LoadGestureFile(cfg.GestureFile, cfg.Gesture)
		if err != nil {
			return nil, err
		}
		cfg.Gesture = g
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadGestureFile overlays the thresholds in a YAML file onto base. Keys that
// are absent keep their base value. Durations use Go syntax ("750ms").
func LoadGestureFile(path string, base gesture.Config) (gesture.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read gesture file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse gesture file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Validate checks field ranges and the gesture thresholds.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.Gesture.Validate()
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "mudra.db")
}

// FrameInterval returns the time between captured frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// DetectorConfig returns the landmark detector settings.
func (c *Config) DetectorConfig() detector.Config {
	d := detector.DefaultConfig()
	d.MaxHands = c.DetectorMaxHands
	d.MinConfidence = c.DetectorMinConfidence
	d.ScriptPath = c.DetectorScript
	d.PythonPath = c.DetectorPython
	return d
}

// AssistantConfig returns the text-generation client settings.
func (c *Config) AssistantConfig() assistant.HTTPConfig {
	return assistant.HTTPConfig{
		BaseURL:     c.AssistantURL,
		APIKey:      c.AssistantAPIKey,
		Model:       c.AssistantModel,
		MaxTokens:   c.AssistantMaxTokens,
		Temperature: c.AssistantTemperature,
		Timeout:     c.AssistantTimeout,
	}
}
