//go:build property
// +build property

package markup

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestEngineProperties checks the rendering invariants that hold for
// arbitrary input, not just well-formed markup.
func TestEngineProperties(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}

	properties := gopter.NewProperties(nil)

	// Property 1: rendering is deterministic
	properties.Property("render determinism", prop.ForAll(
		func(source string) bool {
			return engine.Render(source) == engine.Render(source)
		},
		gen.AnyString(),
	))

	// Property 2: parsing always terminates and covers the whole input;
	// a panic here fails the property runner, and the parse must produce
	// no tokens only for blank input
	properties.Property("parse completion", prop.ForAll(
		func(source string) bool {
			tokens := engine.Parse(source)
			if strings.TrimSpace(source) == "" {
				return len(tokens) == 0
			}
			return len(tokens) > 0
		},
		gen.AnyString(),
	))

	// Property 3: no executable markup survives sanitization
	properties.Property("sanitizer safety", prop.ForAll(
		func(prefix, suffix string) bool {
			for _, payload := range []string{
				"<script>alert(1)</script>",
				`<img src=x onerror=alert(1)>`,
				"[click](javascript:alert(1))",
			} {
				html := engine.Render(prefix + payload + suffix)
				if strings.Contains(html, "<script") ||
					strings.Contains(html, "<img") ||
					strings.Contains(html, "javascript:") {
					return false
				}
			}
			return true
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	// Property 4: stray directive markers never break rendering
	properties.Property("directive fragments degrade to text", prop.ForAll(
		func(body string) bool {
			html := engine.Render(":::alert " + body)
			return html != "" || strings.TrimSpace(body) == ""
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
