package reasoning

import (
	"context"
	"errors"
	"testing"

	"reportgen/internal/llm"
)

func clearReasoningEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENABLE_REASONING", "REASONING_PROVIDER",
		"REASONING_MAX_TOKENS", "REASONING_TEMPERATURE", "REASONING_RPS",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	clearReasoningEnv(t)
	cfg := NewConfig(Overrides{})
	if cfg.Enabled {
		t.Error("reasoning must be off by default")
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("max tokens = %d, want 2048", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.0 {
		t.Errorf("temperature = %g, want 0", cfg.Temperature)
	}
	if cfg.RequestsPerSecond != 0.0 {
		t.Errorf("rps = %g, want 0 (rate limiting off)", cfg.RequestsPerSecond)
	}
}

func TestNewConfigRPSFromEnv(t *testing.T) {
	clearReasoningEnv(t)
	t.Setenv("REASONING_RPS", "2.5")
	if got := NewConfig(Overrides{}).RequestsPerSecond; got != 2.5 {
		t.Errorf("rps = %g, want 2.5", got)
	}

	t.Setenv("REASONING_RPS", "fast")
	if got := NewConfig(Overrides{}).RequestsPerSecond; got != 0.0 {
		t.Errorf("rps = %g, want default 0 for malformed value", got)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	clearReasoningEnv(t)
	t.Setenv("ENABLE_REASONING", "true")
	t.Setenv("REASONING_PROVIDER", "Gemini")
	t.Setenv("REASONING_MAX_TOKENS", "1024")
	t.Setenv("REASONING_TEMPERATURE", "0.7")

	cfg := NewConfig(Overrides{})
	if !cfg.Enabled {
		t.Error("enabled = false")
	}
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want lowercased gemini", cfg.Provider)
	}
	if cfg.MaxTokens != 1024 || cfg.Temperature != 0.7 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestNewConfigBoolSpellings(t *testing.T) {
	clearReasoningEnv(t)
	for _, v := range []string{"true", "1", "yes", "on", "TRUE", "Yes"} {
		t.Setenv("ENABLE_REASONING", v)
		if !NewConfig(Overrides{}).Enabled {
			t.Errorf("%q should enable reasoning", v)
		}
	}
	for _, v := range []string{"false", "0", "no", "off", "", "banana"} {
		t.Setenv("ENABLE_REASONING", v)
		if NewConfig(Overrides{}).Enabled {
			t.Errorf("%q should leave reasoning disabled", v)
		}
	}
}

func TestNewConfigMalformedNumbersFallBack(t *testing.T) {
	clearReasoningEnv(t)
	t.Setenv("REASONING_MAX_TOKENS", "lots")
	t.Setenv("REASONING_TEMPERATURE", "warm")

	cfg := NewConfig(Overrides{})
	if cfg.MaxTokens != 2048 || cfg.Temperature != 0.0 {
		t.Fatalf("cfg = %+v, want defaults for malformed values", cfg)
	}
}

func TestNewConfigOverridesBeatEnv(t *testing.T) {
	clearReasoningEnv(t)
	t.Setenv("ENABLE_REASONING", "false")
	t.Setenv("REASONING_PROVIDER", "anthropic")
	t.Setenv("REASONING_MAX_TOKENS", "99")

	enabled := true
	tokens := 4096
	temp := 0.25
	cfg := NewConfig(Overrides{
		Enabled:     &enabled,
		Provider:    "fake",
		MaxTokens:   &tokens,
		Temperature: &temp,
	})
	if !cfg.Enabled || cfg.Provider != "fake" || cfg.MaxTokens != 4096 || cfg.Temperature != 0.25 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestNewProviderDisabled(t *testing.T) {
	cfg := &Config{Enabled: false, Provider: "fake"}
	_, err := cfg.NewProvider(context.Background())
	var ce *llm.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *llm.ConfigurationError, got %v", err)
	}
}

func TestNewProviderDispatches(t *testing.T) {
	cfg := &Config{Enabled: true, Provider: "fake"}
	p, err := cfg.NewProvider(context.Background())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	defer p.Close()
	if p.Model() != "fake-model" {
		t.Fatalf("model = %q", p.Model())
	}
}

func TestGlobalConfigLifecycle(t *testing.T) {
	clearReasoningEnv(t)
	ResetConfig()
	t.Cleanup(ResetConfig)

	first := GetConfig()
	if first != GetConfig() {
		t.Fatal("GetConfig should return the same instance")
	}

	custom := &Config{Enabled: true, Provider: "fake", MaxTokens: 10}
	SetConfig(custom)
	if GetConfig() != custom {
		t.Fatal("SetConfig not honored")
	}

	ResetConfig()
	if GetConfig() == custom {
		t.Fatal("ResetConfig should discard the injected config")
	}
}
