package reasoning

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"

	"reportgen/internal/llm"
)

// Defaults for the reasoning layer.
const (
	DefaultProvider    = "anthropic"
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.0
	DefaultRPS         = 0.0
)

// Config holds process-wide reasoning settings. Each field resolves as
// explicit override, then environment variable, then default:
//
//	ENABLE_REASONING       enable/disable the layer (default false)
//	REASONING_PROVIDER     backend name (default "anthropic")
//	REASONING_MAX_TOKENS   generation budget (default 2048)
//	REASONING_TEMPERATURE  sampling temperature (default 0.0)
//	REASONING_RPS          request rate cap, 0 disables (default 0)
//
// Malformed env values fall back to the default silently; report
// generation should never fail because of a typo in a tuning knob.
type Config struct {
	Enabled           bool
	Provider          string
	MaxTokens         int
	Temperature       float64
	RequestsPerSecond float64
}

// Overrides carries explicit constructor-time settings that take priority
// over the environment. Nil fields defer to env/default resolution.
type Overrides struct {
	Enabled           *bool
	Provider          string
	MaxTokens         *int
	Temperature       *float64
	RequestsPerSecond *float64
}

// NewConfig resolves a Config from overrides and the environment.
func NewConfig(ov Overrides) *Config {
	cfg := &Config{
		Enabled:           parseBoolEnv("ENABLE_REASONING", ov.Enabled, false),
		Provider:          strings.ToLower(firstNonEmpty(ov.Provider, os.Getenv("REASONING_PROVIDER"), DefaultProvider)),
		MaxTokens:         parseIntEnv("REASONING_MAX_TOKENS", ov.MaxTokens, DefaultMaxTokens),
		Temperature:       parseFloatEnv("REASONING_TEMPERATURE", ov.Temperature, DefaultTemperature),
		RequestsPerSecond: parseFloatEnv("REASONING_RPS", ov.RequestsPerSecond, DefaultRPS),
	}
	return cfg
}

// IsEnabled reports whether the reasoning layer is switched on.
func (c *Config) IsEnabled() bool { return c.Enabled }

// NewProvider constructs the configured provider backend. It fails with a
// configuration error when reasoning is disabled or the provider name is
// not registered; callers should check IsEnabled first.
func (c *Config) NewProvider(ctx context.Context) (llm.Provider, error) {
	if !c.Enabled {
		return nil, &llm.ConfigurationError{Reason: "reasoning layer is not enabled"}
	}
	return llm.New(ctx, c.Provider)
}

func parseBoolEnv(key string, override *bool, def bool) bool {
	if override != nil {
		return *override
	}
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return def
}

func parseIntEnv(key string, override *int, def int) int {
	if override != nil {
		return *override
	}
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func parseFloatEnv(key string, override *float64, def float64) float64 {
	if override != nil {
		return *override
	}
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// -------- process-wide config --------

var (
	globalMu     sync.Mutex
	globalConfig *Config
)

// GetConfig returns the shared configuration, resolving it from the
// environment on first use.
func GetConfig() *Config {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		globalConfig = NewConfig(Overrides{})
	}
	return globalConfig
}

// SetConfig replaces the shared configuration. Intended for tests and for
// hosts that resolve configuration themselves at startup.
func SetConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetConfig clears the shared configuration so the next GetConfig
// re-reads the environment. Test isolation hook.
func ResetConfig() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
