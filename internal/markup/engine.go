package markup

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Options configures an Engine at construction time.
type Options struct {
	// EnableCUM registers the CUM directive dialect (buttons, alerts,
	// embeds, subtext). With it disabled the directive syntax is not
	// recognized and renders through the generic rules.
	EnableCUM bool

	// Extra extensions registered after the built-ins, in order.
	Extra []Extension
}

// DefaultOptions enables the full grammar.
func DefaultOptions() Options {
	return Options{EnableCUM: true}
}

// Engine couples an immutable registry, parser, renderer, and sanitizer.
// It is safe for concurrent use: all shared state is read-only after
// construction and every call allocates its own scan state.
type Engine struct {
	registry  *Registry
	sanitizer *bluemonday.Policy
}

// NewEngine builds an engine from the built-in extensions, the GFM table
// extension, optionally the CUM dialect, and any extra extensions.
// Duplicate extension names are rejected.
func NewEngine(opts Options) (*Engine, error) {
	exts := builtinExtensions()
	exts = append(exts, tableExtension())
	if opts.EnableCUM {
		exts = append(exts, cumExtension())
	}
	exts = append(exts, opts.Extra...)

	reg, err := newRegistry(exts)
	if err != nil {
		return nil, fmt.Errorf("building rule registry: %w", err)
	}
	return &Engine{
		registry:  reg,
		sanitizer: newSanitizerPolicy(),
	}, nil
}

// Registry exposes the engine's immutable rule registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Parse scans source into a token tree. The tree is freshly allocated
// per call and never retained by the engine.
func (e *Engine) Parse(source string) []Token {
	return NewParser(e.registry).Parse(norm.NFC.String(source))
}

// Render compiles source to sanitized HTML.
func (e *Engine) Render(source string) string {
	tokens := e.Parse(source)
	raw := NewRenderer(e.registry).Render(tokens)
	return e.sanitizer.Sanitize(raw)
}

// ---- process-wide cached instance ----

var (
	bootstrapMu   sync.Mutex
	bootstrapExts []Extension
	cumEnabled    = true
	instance      atomic.Pointer[Engine]
)

// getEngine lazily constructs the shared engine on first use and
// memoizes it. Bootstrap state is validated by RegisterExtension, so
// construction here cannot fail on registered input; a failure from a
// hand-built Options misuse degrades to the default grammar.
func getEngine() *Engine {
	if e := instance.Load(); e != nil {
		return e
	}
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()
	if e := instance.Load(); e != nil {
		return e
	}
	e, err := NewEngine(Options{EnableCUM: cumEnabled, Extra: bootstrapExts})
	if err != nil {
		e, _ = NewEngine(DefaultOptions())
	}
	instance.Store(e)
	return e
}

// RegisterExtension adds an extension to the engine bootstrap set. It
// must be called before the first render; once the shared engine exists
// the registry is frozen and registration fails. A name that collides
// with a built-in or previously registered extension is rejected.
func RegisterExtension(ext Extension) error {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()

	if instance.Load() != nil {
		return fmt.Errorf("engine already constructed; call ResetEngineInstance before registering %q", ext.Name)
	}
	if ext.Name == "" {
		return fmt.Errorf("extension with empty name")
	}
	for _, name := range reservedExtensionNames() {
		if name == ext.Name {
			return fmt.Errorf("extension %q already registered", ext.Name)
		}
	}
	for _, existing := range bootstrapExts {
		if existing.Name == ext.Name {
			return fmt.Errorf("extension %q already registered", ext.Name)
		}
	}
	bootstrapExts = append(bootstrapExts, ext)
	return nil
}

func reservedExtensionNames() []string {
	names := make([]string, 0, 12)
	for _, ext := range builtinExtensions() {
		names = append(names, ext.Name)
	}
	names = append(names, tableExtension().Name)
	if cumEnabled {
		names = append(names, cumExtension().Name)
	}
	return names
}

// SetCUMEnabled switches the CUM dialect on or off for the next engine
// construction. Call ResetEngineInstance afterwards if the shared engine
// already exists.
func SetCUMEnabled(enabled bool) {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()
	cumEnabled = enabled
}

// ResetEngineInstance discards the memoized engine so the next call
// rebuilds the registry from the current bootstrap set. Registered
// extensions persist across resets. Not safe to call while a concurrent
// render is relying on engine identity; intended for tests and for
// applying feature-flag changes at startup.
func ResetEngineInstance() {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()
	instance.Store(nil)
}

// clearRegisteredExtensions empties the bootstrap set. Test hook.
func clearRegisteredExtensions() {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()
	bootstrapExts = nil
	cumEnabled = true
	instance.Store(nil)
}

// ParseMarkdown parses source with the shared engine, a pure function of
// the input and the registered extension set.
func ParseMarkdown(source string) []Token {
	return getEngine().Parse(source)
}

// RenderMarkdown compiles source to sanitized HTML with the shared
// engine.
func RenderMarkdown(source string) string {
	return getEngine().Render(source)
}
