package llm

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Factory constructs a Provider from ambient credentials (env vars).
type Factory func(ctx context.Context) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a named provider factory. Later registrations under the
// same name replace earlier ones.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// New constructs the named provider. Unknown names fail with a
// ConfigurationError listing the registered providers.
func New(ctx context.Context, name string) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{
			Reason: "unsupported provider: " + name + ". Supported providers: " + strings.Join(Names(), ", "),
		}
	}
	return factory(ctx)
}

// Names returns the registered provider names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("anthropic", func(ctx context.Context) (Provider, error) {
		return NewAnthropicClient("")
	})
	Register("gemini", func(ctx context.Context) (Provider, error) {
		return NewGeminiClient(ctx, "")
	})
	Register("fake", func(ctx context.Context) (Provider, error) {
		return NewFakeClient(), nil
	})
}
