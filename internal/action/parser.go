package action

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MaxContentLen bounds cleaned content to keep storage and display cheap.
const MaxContentLen = 500

var (
	// First-to-last brace span. Greedy on purpose: models that wrap JSON in
	// prose still yield the full object.
	jsonSpanRe = regexp.MustCompile(`(?s)\{.*\}`)

	leadingJSONRe   = regexp.MustCompile(`(?is)^\s*\{.*?"content"\s*:\s*"`)
	trailingKeyRe   = regexp.MustCompile(`(?is)"\s*,\s*"(?:reasoning|platform)".*$`)
	trailingBraceRe = regexp.MustCompile(`(?s)"\s*\}\s*$`)
	spaceRe         = regexp.MustCompile(`\s+`)
)

// Parse extracts an Action from raw model output. It locates the first
// balanced-looking JSON object and decodes it; on any failure the entire raw
// text degrades to a chat action. Parse never fails: format noise must not
// cost the agent its turn.
func Parse(raw string) Action {
	if span := jsonSpanRe.FindString(raw); span != "" {
		var a Action
		if err := json.Unmarshal([]byte(span), &a); err == nil {
			a.Content = Clean(a.Content)
			if a.Kind.Valid() {
				return a
			}
			// Decoded but with an unknown or absent action tag. Keep the
			// content if there was any, otherwise fall through to raw.
			if a.Content != "" {
				return Action{Kind: KindChat, Content: a.Content, Reasoning: a.Reasoning}
			}
		}
	}
	return Action{Kind: KindChat, Content: Clean(raw)}
}

// Clean strips JSON artifacts that models leak around content fields. The
// rules are layered heuristics carried over verbatim from the experiment's
// reference behavior: they can under-strip residual punctuation and
// over-strip content containing a literal "reasoning" key fragment. That
// boundary is part of the contract, not a defect to repair.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	cleaned := leadingJSONRe.ReplaceAllString(text, "")
	cleaned = trailingKeyRe.ReplaceAllString(cleaned, "")
	cleaned = trailingBraceRe.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, `\n`, " ")
	cleaned = strings.ReplaceAll(cleaned, `\"`, `"`)
	cleaned = spaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	// Still looks like JSON: take one more shot at pulling out the content
	// field before giving up and returning the text as-is.
	if strings.HasPrefix(cleaned, "{") || strings.Contains(cleaned, `"action"`) {
		if span := jsonSpanRe.FindString(cleaned); span != "" {
			var obj struct {
				Content string `json:"content"`
			}
			if err := json.Unmarshal([]byte(span), &obj); err == nil && obj.Content != "" {
				cleaned = obj.Content
			}
		}
	}

	if len(cleaned) >= 2 && strings.HasPrefix(cleaned, `"`) && strings.HasSuffix(cleaned, `"`) {
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}

	if len(cleaned) > MaxContentLen {
		cleaned = cleaned[:MaxContentLen]
	}
	return cleaned
}
