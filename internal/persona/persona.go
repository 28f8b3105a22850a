// Package persona holds the fixed roster of AI personas, their system
// directives, and the shared task directives used by the turn engine.
package persona

import (
	"fmt"
	"sync"
)

// Persona is one autonomous identity in the experiment. The backend fields
// pin which generation family and model speak for it.
type Persona struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Color     string `yaml:"color"`
	Role      string `yaml:"role"`
	Provider  string `yaml:"provider"` // anthropic, openai, xai, deepseek, gemini
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`

	// Directive is the persona-specific section appended to the shared base
	// directive.
	Directive string `yaml:"directive"`
}

// Catalog is the persona registry. Reads vastly outnumber writes; writes
// only happen when an overrides file is reloaded.
type Catalog struct {
	mu       sync.RWMutex
	personas map[string]Persona
	order    []string
}

// DefaultCatalog returns the seeded four-persona roster, one backend family
// each.
func DefaultCatalog() *Catalog {
	c := &Catalog{personas: make(map[string]Persona)}
	for _, p := range defaultPersonas {
		c.personas[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// Get returns the persona for id.
func (c *Catalog) Get(id string) (Persona, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.personas[id]
	return p, ok
}

// IDs returns persona ids in seeding order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Speaker returns the persona that speaks for the collective in one-shot
// pipelines (goal generation). By convention the first seeded persona.
func (c *Catalog) Speaker() Persona {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.personas[c.order[0]]
}

// SystemDirective composes the full system directive for a persona: the
// shared experiment framing plus the persona section.
func (c *Catalog) SystemDirective(id string) (string, error) {
	p, ok := c.Get(id)
	if !ok {
		return "", fmt.Errorf("unknown persona: %s", id)
	}
	return BaseDirective + "\n\n" + p.Directive, nil
}

// Overrides is the shape of the optional personas.yaml overrides file.
// Only non-zero fields replace catalog values.
type Overrides struct {
	Personas map[string]PersonaOverride `yaml:"personas"`
}

// PersonaOverride tunes a single persona.
type PersonaOverride struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Directive string `yaml:"directive"`
}

// Apply merges overrides into the catalog. Unknown ids are ignored rather
// than rejected so a stale overrides file cannot break a running
// experiment.
func (c *Catalog) Apply(o Overrides) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ov := range o.Personas {
		p, ok := c.personas[id]
		if !ok {
			continue
		}
		if ov.Model != "" {
			p.Model = ov.Model
		}
		if ov.MaxTokens > 0 {
			p.MaxTokens = ov.MaxTokens
		}
		if ov.Directive != "" {
			p.Directive = ov.Directive
		}
		c.personas[id] = p
	}
}
