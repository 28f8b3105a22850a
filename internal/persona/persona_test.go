package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogRoster(t *testing.T) {
	c := DefaultCatalog()

	ids := c.IDs()
	assert.Equal(t, []string{"claude", "gpt", "grok", "deepseek"}, ids)

	seen := map[string]bool{}
	for _, id := range ids {
		p, ok := c.Get(id)
		require.True(t, ok)
		assert.NotEmpty(t, p.Model)
		assert.NotEmpty(t, p.Provider)
		assert.Greater(t, p.MaxTokens, 0)
		seen[p.Provider] = true
	}
	// One backend family per persona.
	assert.Len(t, seen, 4)
}

func TestSpeakerIsFirstSeeded(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, "claude", c.Speaker().ID)
}

func TestSystemDirectiveComposition(t *testing.T) {
	c := DefaultCatalog()

	d, err := c.SystemDirective("grok")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d, BaseDirective))
	assert.Contains(t, d, "TREND_HIJACKER")

	_, err = c.SystemDirective("nobody")
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	c := DefaultCatalog()
	c.Apply(Overrides{Personas: map[string]PersonaOverride{
		"gpt":     {Model: "gpt-5", MaxTokens: 900},
		"phantom": {Model: "ignored"},
	}})

	p, _ := c.Get("gpt")
	assert.Equal(t, "gpt-5", p.Model)
	assert.Equal(t, 900, p.MaxTokens)

	// Zero fields leave existing values alone.
	c.Apply(Overrides{Personas: map[string]PersonaOverride{"gpt": {}}})
	p, _ = c.Get("gpt")
	assert.Equal(t, "gpt-5", p.Model)
	assert.Equal(t, 900, p.MaxTokens)
}
