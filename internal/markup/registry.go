package markup

import (
	"fmt"
	"sort"
)

// Registry is the immutable, priority-ordered rule table assembled from
// all registered extensions at engine construction time. It is built once
// and only read afterward, so concurrent renders never race on it.
type Registry struct {
	blockRules  []BlockRule
	inlineRules []InlineRule
	renderRules map[string]RenderRule
	extensions  []string
}

// newRegistry concatenates the rules of exts and stable-sorts them by
// priority descending. The sort is stable so equal priorities keep
// registration order, built-ins first.
func newRegistry(exts []Extension) (*Registry, error) {
	reg := &Registry{
		renderRules: make(map[string]RenderRule),
	}

	seen := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if ext.Name == "" {
			return nil, fmt.Errorf("extension with empty name")
		}
		if _, dup := seen[ext.Name]; dup {
			return nil, fmt.Errorf("extension %q already registered", ext.Name)
		}
		seen[ext.Name] = struct{}{}
		reg.extensions = append(reg.extensions, ext.Name)

		reg.blockRules = append(reg.blockRules, ext.BlockRules...)
		reg.inlineRules = append(reg.inlineRules, ext.InlineRules...)
		for _, rr := range ext.RenderRules {
			// Last render rule for a kind wins, letting a custom
			// extension restyle a built-in kind without replacing
			// its parse rules.
			reg.renderRules[rr.Kind] = rr
		}
	}

	sort.SliceStable(reg.blockRules, func(i, j int) bool {
		return reg.blockRules[i].Priority > reg.blockRules[j].Priority
	})
	sort.SliceStable(reg.inlineRules, func(i, j int) bool {
		return reg.inlineRules[i].Priority > reg.inlineRules[j].Priority
	})

	return reg, nil
}

// Extensions returns the names of the extensions the registry was built
// from, in registration order.
func (r *Registry) Extensions() []string {
	out := make([]string, len(r.extensions))
	copy(out, r.extensions)
	return out
}

// renderRule looks up the render rule for a token kind.
func (r *Registry) renderRule(kind string) (RenderRule, bool) {
	rr, ok := r.renderRules[kind]
	return rr, ok
}
