// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderFor(t *testing.T) {
	tests := []struct {
		model   string
		want    string
		wantErr bool
	}{
		{model: "gemini/gemini-2.5-flash", want: "gemini"},
		{model: "anthropic/claude-sonnet-4-20250514", want: "anthropic"},
		{model: "claude-3-5-sonnet-20241022", want: "anthropic"},
		{model: "gpt-4o", want: "openai"},
		{model: "gpt-4o-mini", want: "openai"},
		{model: "wat/model", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			p, err := ProviderFor(tt.model)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name)
			assert.NotEmpty(t, p.EnvKey)
			assert.NotEmpty(t, p.BaseURL)
		})
	}
}

func TestModelName(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", ModelName("gemini/gemini-2.5-flash"))
	assert.Equal(t, "gpt-4o", ModelName("gpt-4o"))
	assert.Equal(t, "claude-sonnet-4-20250514", ModelName("anthropic/claude-sonnet-4-20250514"))
}

func TestRequireCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := RequireCredential("gemini/gemini-2.5-flash")
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "abc123")
	key, err := RequireCredential("gemini/gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
}

func TestNewBackend(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	backend, err := NewBackend("gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", backend.APIKey)
	assert.Contains(t, backend.BaseURL, "api.openai.com")

	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err = NewBackend("claude-3-5-haiku-20241022")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestProviders_CatalogComplete(t *testing.T) {
	providers := Providers()
	require.Len(t, providers, 3)
	for _, p := range providers {
		assert.NotEmpty(t, p.Models, "provider %s", p.Name)
	}
}
