package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegistryNames(t *testing.T) {
	names := Names()
	for _, want := range []string{"anthropic", "fake", "gemini"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("provider %q not registered: %v", want, names)
		}
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), "openai")
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigurationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Fatalf("error should name the unknown provider: %v", err)
	}
	if !strings.Contains(err.Error(), "fake") {
		t.Fatalf("error should list registered providers: %v", err)
	}
}

func TestNewFakeProvider(t *testing.T) {
	p, err := New(context.Background(), "FAKE") // name lookup is case-insensitive
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()
	if p.Model() != "fake-model" {
		t.Fatalf("model = %q", p.Model())
	}
}
