// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, database selection, rate limiting, the remote video provider, the
// generation workflow budget, thumbnail limits, and observability.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/akashparashar014/Video-Genration/internal/utils"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "video-generation")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ProviderConfig describes the remote image-to-video job API.
type ProviderConfig struct {
	APISecret   string        // RUNWAYML_API_SECRET, never logged
	BaseURL     string        // RUNWAY_BASE_URL
	APIVersion  string        // RUNWAY_API_VERSION, sent as X-Runway-Version
	Model       string        // RUNWAY_MODEL
	Ratio       string        // RUNWAY_RATIO, optional output aspect
	HTTPTimeout time.Duration // RUNWAY_HTTP_TIMEOUT per remote call
}

// GenerationConfig bounds the submit/poll workflow.
type GenerationConfig struct {
	PollInterval      time.Duration // POLL_INTERVAL
	MaxAttempts       int           // POLL_MAX_ATTEMPTS
	MaxConcurrentJobs int           // MAX_CONCURRENT_JOBS
	StatusCacheSize   int           // STATUS_CACHE_SIZE (0 disables)
	DummyVideoURL     string        // DUMMY_VIDEO_URL
	UploadDir         string        // UPLOAD_DIR, optional archive of originals
}

// ThumbnailConfig controls the media transform applied before submission.
type ThumbnailConfig struct {
	MaxWidth      int // THUMB_MAX_WIDTH
	MaxHeight     int // THUMB_MAX_HEIGHT
	Quality       int // THUMB_QUALITY (1..100)
	MaxEncodedLen int // THUMB_MAX_ENCODED_LEN, in characters of the data URI
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must outlive the poll budget
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // request body cap (uploads included)
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Database
	DBDriver    string // sqlite|postgres
	DBPath      string // SQLite path
	DatabaseURL string // Postgres DSN

	// Audio
	AudioExtension string // accepted upload suffix, e.g. ".mp3"

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Video generation
	Provider   ProviderConfig
	Generation GenerationConfig
	Thumbnail  ThumbnailConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 30*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 6*time.Minute),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 32<<20)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Database
		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBPath:      getenv("DB_PATH", "app.db"),
		DatabaseURL: getenv("DATABASE_URL", ""),

		// Audio
		AudioExtension: normalizeExt(getenv("AUDIO_EXTENSION", ".mp3")),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Remote provider
		Provider: ProviderConfig{
			APISecret:   getenv("RUNWAYML_API_SECRET", ""),
			BaseURL:     strings.TrimRight(getenv("RUNWAY_BASE_URL", "https://api.dev.runwayml.com"), "/"),
			APIVersion:  getenv("RUNWAY_API_VERSION", "2024-11-06"),
			Model:       getenv("RUNWAY_MODEL", "gen3a_turbo"),
			Ratio:       getenv("RUNWAY_RATIO", ""),
			HTTPTimeout: getdur("RUNWAY_HTTP_TIMEOUT", 30*time.Second),
		},
		Generation: GenerationConfig{
			PollInterval:      getdur("POLL_INTERVAL", 5*time.Second),
			MaxAttempts:       getint("POLL_MAX_ATTEMPTS", 60),
			MaxConcurrentJobs: getint("MAX_CONCURRENT_JOBS", 16),
			StatusCacheSize:   getint("STATUS_CACHE_SIZE", 1024),
			DummyVideoURL:     getenv("DUMMY_VIDEO_URL", "https://www.example.com/dummy_video.mp4"),
			UploadDir:         getenv("UPLOAD_DIR", ""),
		},
		Thumbnail: ThumbnailConfig{
			MaxWidth:      getint("THUMB_MAX_WIDTH", 100),
			MaxHeight:     getint("THUMB_MAX_HEIGHT", 100),
			Quality:       getint("THUMB_QUALITY", 20),
			MaxEncodedLen: getint("THUMB_MAX_ENCODED_LEN", 2048),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "video-generation"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DBDriver == "postgresql" || cfg.DBDriver == "pg" {
		cfg.DBDriver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case "sqlite":
		if strings.TrimSpace(cfg.DBPath) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return cfg, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.AudioExtension == "" {
		return cfg, errors.New("AUDIO_EXTENSION must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.Provider.BaseURL == "" {
		return cfg, errors.New("RUNWAY_BASE_URL must not be empty")
	}
	if cfg.Provider.HTTPTimeout <= 0 {
		return cfg, errors.New("RUNWAY_HTTP_TIMEOUT must be > 0")
	}
	if cfg.Generation.PollInterval <= 0 {
		return cfg, errors.New("POLL_INTERVAL must be > 0")
	}
	if cfg.Generation.MaxAttempts < 1 {
		return cfg, errors.New("POLL_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.Generation.MaxConcurrentJobs < 1 {
		return cfg, errors.New("MAX_CONCURRENT_JOBS must be >= 1")
	}
	if cfg.Generation.StatusCacheSize < 0 {
		return cfg, errors.New("STATUS_CACHE_SIZE must be >= 0")
	}
	if cfg.Thumbnail.MaxWidth < 1 || cfg.Thumbnail.MaxHeight < 1 {
		return cfg, errors.New("THUMB_MAX_WIDTH and THUMB_MAX_HEIGHT must be >= 1")
	}
	if cfg.Thumbnail.Quality < 1 || cfg.Thumbnail.Quality > 100 {
		return cfg, errors.New("THUMB_QUALITY must be between 1 and 100")
	}
	if cfg.Thumbnail.MaxEncodedLen < 1 {
		return cfg, errors.New("THUMB_MAX_ENCODED_LEN must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// PollBudget is the worst-case time a single generation request may spend
// waiting on the provider.
func (c Config) PollBudget() time.Duration {
	return time.Duration(c.Generation.MaxAttempts) * c.Generation.PollInterval
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	return utils.FloatDefault(os.Getenv(k), def)
}

func getint(k string, def int) int {
	return utils.AtoiDefault(os.Getenv(k), def)
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	return utils.DurationDefault(os.Getenv(k), def)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeExt lowercases an extension and ensures a leading dot.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
