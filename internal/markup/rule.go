package markup

// Rule priorities. Higher priorities are evaluated first; ties are broken
// by registration order, built-ins before custom extensions. The generic
// paragraph rule sits at the bottom so every extension-contributed block
// shape wins over it.
const (
	PriorityCodeFence     = 900
	PriorityHeading       = 800
	PriorityThematicBreak = 760
	PriorityBlockquote    = 700
	PriorityList          = 640
	PrioritySubtext       = 580
	PriorityAlert         = 560
	PriorityEmbed         = 550
	PriorityTable         = 500
	PriorityParagraph     = 100

	PriorityCodeSpan = 900
	PriorityImage    = 820
	PriorityButton   = 780
	PriorityLink     = 700
	PriorityStrong   = 620
	PriorityEmphasis = 560
	PriorityStrike   = 500
)

// BlockMatchFunc attempts to recognize a block construct starting at
// lines[pos]. On success it returns the produced token and the number of
// lines consumed, which must be at least 1 to keep the scanner moving.
// Rules that contain nested content (blockquotes, alerts, list items)
// recurse through the parser they are handed.
type BlockMatchFunc func(p *Parser, lines []string, pos int) (Token, int, bool)

// InlineMatchFunc attempts to recognize an inline construct at src[pos].
// On success it returns the produced token and the number of bytes
// consumed, at least 1.
type InlineMatchFunc func(p *Parser, src string, pos int) (Token, int, bool)

// BlockRule maps a block-level pattern to a token.
type BlockRule struct {
	Name     string
	Priority int
	Match    BlockMatchFunc
}

// InlineRule maps an inline pattern to a token.
type InlineRule struct {
	Name     string
	Priority int
	Match    InlineMatchFunc
}

// RenderFunc turns a token into HTML. Children have already been rendered
// depth-first and are passed pre-joined as childHTML; leaf rules ignore it
// and render from the token itself.
type RenderFunc func(t Token, childHTML string) string

// RenderRule maps a token kind to its HTML form. Exactly one render rule
// should exist per kind produced by any registered parse rule; a kind
// without one renders as escaped literal text.
type RenderRule struct {
	Kind   string
	Render RenderFunc
}

// Extension is a named bundle of parse and render rules. Built-in grammar
// (headings, emphasis, lists, code, ...) is expressed through the same
// type and the same registration path as custom syntax.
type Extension struct {
	Name        string
	BlockRules  []BlockRule
	InlineRules []InlineRule
	RenderRules []RenderRule
}
