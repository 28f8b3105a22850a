// Package action defines the structured decision an agent derives from raw
// model output, plus the parser that recovers it from semi-structured text.
package action

// Kind enumerates the four things an agent can do on its turn.
type Kind string

const (
	KindChat     Kind = "chat"
	KindPost     Kind = "post"
	KindAnalyze  Kind = "analyze"
	KindStrategy Kind = "strategy"
)

// Valid reports whether k is one of the known action kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindChat, KindPost, KindAnalyze, KindStrategy:
		return true
	}
	return false
}

// Action is the tagged decision parsed from a model response. Kind is always
// one of the four known kinds; the parser guarantees a chat fallback for
// anything it cannot decode.
type Action struct {
	Kind      Kind   `json:"action"`
	Platform  string `json:"platform,omitempty"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning,omitempty"`
}
