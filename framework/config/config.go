package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App    AppConfig
	Signup SignupConfig
	Log    LogConfig
}

type AppConfig struct {
	Name   string
	Env    string // local | production | testing
	Debug  bool
	URL    string
	Port   string
	Locale string // default message locale
}

type SignupConfig struct {
	// LenientSubmit lets a form with both password fields empty pass submit.
	LenientSubmit bool
	LivePath      string
	ReadLimit     int // max bytes per websocket frame
	AllowedOrigin string
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | console
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	appEnv := env("APP_ENV", "local")
	defaultFormat := "json"
	if appEnv == "local" {
		defaultFormat = "console"
	}

	return &Config{
		App: AppConfig{
			Name:   env("APP_NAME", "GoSignup"),
			Env:    appEnv,
			Debug:  envBool("APP_DEBUG", true),
			URL:    env("APP_URL", "http://localhost"),
			Port:   env("APP_PORT", "8000"),
			Locale: env("APP_LOCALE", "ko"),
		},
		Signup: SignupConfig{
			LenientSubmit: envBool("SIGNUP_LENIENT_SUBMIT", false),
			LivePath:      env("SIGNUP_LIVE_PATH", "/signup/live"),
			ReadLimit:     GetInt("SIGNUP_READ_LIMIT", 4096),
			AllowedOrigin: env("SIGNUP_ALLOWED_ORIGIN", ""),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", defaultFormat),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
