package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/joho/godotenv"
)

type Config struct {
	// Batch directories
	InputDir   string
	OutputDir  string
	Extensions []string

	// Classifier thresholds (points)
	TitleMinSize float64
	H1MinSize    float64
	H2MinSize    float64
	H3MinSize    float64

	// Output
	ValidateOutput bool

	// Watch mode
	WatchSettle time.Duration

	// HTTP mode
	Port             string
	DocoutlineAPIKey string
	MaxUploadBytes   int64

	// Latency stats
	StatsWindow time.Duration

	// Logging
	LogFormat string
	LogLevel  string
}

// Load reads configuration from the environment. A .env file in the
// working directory, if present, is applied first without overriding
// variables that are already set.
func Load() Config {
	_ = godotenv.Load()

	def := outline.DefaultThresholds()

	cfg := Config{
		InputDir:   envOr("INPUT_DIR", "/app/input"),
		OutputDir:  envOr("OUTPUT_DIR", "/app/output"),
		Extensions: envList("OUTLINE_EXTENSIONS", []string{".pdf"}),

		TitleMinSize: envFloat("TITLE_MIN_SIZE", def.Title),
		H1MinSize:    envFloat("H1_MIN_SIZE", def.H1),
		H2MinSize:    envFloat("H2_MIN_SIZE", def.H2),
		H3MinSize:    envFloat("H3_MIN_SIZE", def.H3),

		ValidateOutput: envBool("VALIDATE_OUTPUT", true),

		WatchSettle: envDuration("WATCH_SETTLE", 750*time.Millisecond),

		Port:             envOr("PORT", "8090"),
		DocoutlineAPIKey: os.Getenv("DOCOUTLINE_API_KEY"),
		MaxUploadBytes:   envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "json")),
		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	cfg.Extensions = normalizeExtensions(cfg.Extensions)

	if cfg.WatchSettle <= 0 {
		cfg.WatchSettle = 750 * time.Millisecond
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("INPUT_DIR is required")
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	if len(c.Extensions) == 0 {
		return errors.New("OUTLINE_EXTENSIONS must list at least one extension")
	}
	for _, th := range []struct {
		name string
		v    float64
	}{
		{"TITLE_MIN_SIZE", c.TitleMinSize},
		{"H1_MIN_SIZE", c.H1MinSize},
		{"H2_MIN_SIZE", c.H2MinSize},
		{"H3_MIN_SIZE", c.H3MinSize},
	} {
		if math.IsNaN(th.v) || math.IsInf(th.v, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", th.name, th.v)
		}
	}
	if c.H3MinSize <= 0 {
		return fmt.Errorf("H3_MIN_SIZE must be positive, got %v", c.H3MinSize)
	}
	if c.TitleMinSize < c.H1MinSize || c.H1MinSize < c.H2MinSize || c.H2MinSize < c.H3MinSize {
		return fmt.Errorf("size thresholds must be ordered title >= h1 >= h2 >= h3, got %v/%v/%v/%v",
			c.TitleMinSize, c.H1MinSize, c.H2MinSize, c.H3MinSize)
	}
	return nil
}

// Thresholds returns the classifier thresholds. They are fixed for the
// lifetime of the process.
func (c Config) Thresholds() outline.Thresholds {
	return outline.Thresholds{
		Title: c.TitleMinSize,
		H1:    c.H1MinSize,
		H2:    c.H2MinSize,
		H3:    c.H3MinSize,
	}
}

// Accepts reports whether filename has one of the configured extensions.
func (c Config) Accepts(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range c.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		return strings.Split(v, ",")
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
