package markup

import (
	"html"
	"strings"
)

// Renderer walks a token tree and the registry's render-rule table to
// emit HTML. Children render first, depth-first; the parent rule then
// wraps the joined child HTML. A kind with no render rule emits its raw
// text escaped, never an error.
type Renderer struct {
	reg *Registry
}

// NewRenderer returns a renderer over the given registry.
func NewRenderer(reg *Registry) *Renderer {
	return &Renderer{reg: reg}
}

// Render renders a token list to an HTML string.
func (r *Renderer) Render(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(r.renderToken(t))
	}
	return b.String()
}

func (r *Renderer) renderToken(t Token) string {
	var childHTML string
	if len(t.Children) > 0 {
		childHTML = r.Render(t.Children)
	}
	rule, ok := r.reg.renderRule(t.Kind)
	if !ok {
		return html.EscapeString(t.Raw)
	}
	return rule.Render(t, childHTML)
}
