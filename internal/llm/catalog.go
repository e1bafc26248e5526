// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ErrMissingCredential marks an absent API key for the selected model's
// provider. This is a precondition failure reported before any work begins.
var ErrMissingCredential = errors.New("missing API credential")

// Provider describes one extraction provider: its credential source, its
// OpenAI-compatible chat completions endpoint, and commonly used models.
type Provider struct {
	Name    string   `yaml:"name"`
	EnvKey  string   `yaml:"env_key"`
	BaseURL string   `yaml:"base_url"`
	Models  []string `yaml:"models"`
}

// catalogYAML is the built-in provider catalog. Model strings are
// provider-prefixed (provider/model); bare model names belong to OpenAI.
const catalogYAML = `
providers:
  - name: gemini
    env_key: GEMINI_API_KEY
    base_url: https://generativelanguage.googleapis.com/v1beta/openai/chat/completions
    models:
      - gemini/gemini-2.5-flash
      - gemini/gemini-1.5-pro
      - gemini/gemini-1.5-flash
  - name: openai
    env_key: OPENAI_API_KEY
    base_url: https://api.openai.com/v1/chat/completions
    models:
      - gpt-4o
      - gpt-4o-mini
      - gpt-4-turbo
  - name: anthropic
    env_key: ANTHROPIC_API_KEY
    base_url: https://api.anthropic.com/v1/chat/completions
    models:
      - anthropic/claude-sonnet-4-20250514
      - anthropic/claude-3-5-sonnet-20241022
      - anthropic/claude-3-5-haiku-20241022
`

var catalog = mustParseCatalog()

func mustParseCatalog() []Provider {
	var parsed struct {
		Providers []Provider `yaml:"providers"`
	}
	if err := yaml.Unmarshal([]byte(catalogYAML), &parsed); err != nil {
		panic(fmt.Sprintf("llm: invalid provider catalog: %v", err))
	}
	return parsed.Providers
}

// Providers returns the catalog for display (list-models).
func Providers() []Provider {
	return catalog
}

// ProviderFor resolves the provider for a model string. A "provider/" prefix
// selects by name; bare "claude-" models map to anthropic; anything else is
// assumed to be an OpenAI model name.
func ProviderFor(model string) (Provider, error) {
	name := "openai"
	if prefix, _, ok := strings.Cut(model, "/"); ok {
		name = prefix
	} else if strings.HasPrefix(model, "claude-") {
		name = "anthropic"
	}

	for _, p := range catalog {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("unknown provider %q for model %q", name, model)
}

// ModelName strips the provider prefix from a model string, yielding the
// name the provider's API expects.
func ModelName(model string) string {
	if _, rest, ok := strings.Cut(model, "/"); ok {
		return rest
	}
	return model
}

// RequireCredential verifies the environment holds the API key the selected
// model's provider needs, returning the key value. Checked before any
// rendering work starts.
func RequireCredential(model string) (string, error) {
	p, err := ProviderFor(model)
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(os.Getenv(p.EnvKey))
	if key == "" {
		return "", fmt.Errorf("%w: set %s to use model %s", ErrMissingCredential, p.EnvKey, model)
	}
	return key, nil
}
