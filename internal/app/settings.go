package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadSettings.
const (
	EnvScorecard = "RISKCARD_SCORECARD"
	EnvAddr      = "RISKCARD_ADDR"
	EnvDataDir   = "RISKCARD_DATA_DIR"
	EnvWatch     = "RISKCARD_WATCH"
	EnvDebounce  = "RISKCARD_WATCH_DEBOUNCE"
	EnvKeep      = "RISKCARD_KEEP_REVISIONS"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Settings holds service configuration. Flags on the serve command
// override whatever LoadSettings read from the environment.
type Settings struct {
	Scorecard string        // scorecard YAML file, empty serves the embedded default
	Addr      string        // HTTP listen address
	DataDir   string        // holds the revision database
	Watch     bool          // reload when the scorecard file changes
	Debounce  time.Duration // quiet period before a watched change reloads
	Keep      int           // revisions retained, <= 0 keeps all
	Log       LogConfig
}

// LoadSettings reads configuration from environment variables with defaults.
func LoadSettings() Settings {
	return Settings{
		Scorecard: getEnv(EnvScorecard, "scorecard.yaml"),
		Addr:      getEnv(EnvAddr, ":8000"),
		DataDir:   getEnv(EnvDataDir, ".riskcard"),
		Watch:     getEnvBool(EnvWatch, true),
		Debounce:  getEnvDuration(EnvDebounce, 200*time.Millisecond),
		Keep:      getEnvInt(EnvKeep, 100),
		Log: LogConfig{
			Level:  getEnv(EnvLogLevel, "info"),
			Format: getEnv(EnvLogFormat, "text"),
		},
	}
}

// Validate reports settings the service cannot start with.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Addr) == "" {
		return fmt.Errorf("listen address required")
	}
	if strings.TrimSpace(s.DataDir) == "" {
		return fmt.Errorf("data dir required")
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", s.Log.Format)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
