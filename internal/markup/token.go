// Package markup implements the Changerawr markup engine: a rule-based
// markdown compiler with a custom directive dialect (CUM) for buttons,
// alerts, embeds, and tables.
//
// The engine is a one-shot text-to-HTML pipeline: source text is scanned
// into a token tree by priority-ordered parse rules, the tree is rendered
// to HTML by per-kind render rules, and the result passes through a fixed
// sanitizer policy before it is returned. New syntaxes are added by
// registering an Extension; the core scanner never changes.
package markup

// Token kinds produced by the built-in and CUM extensions. Custom
// extensions may introduce their own kinds as long as they ship a
// matching render rule.
const (
	KindText          = "text"
	KindParagraph     = "paragraph"
	KindHeading       = "heading"
	KindThematicBreak = "thematic-break"
	KindBlockquote    = "blockquote"
	KindList          = "list"
	KindListItem      = "list-item"
	KindCodeBlock     = "code-block"
	KindCodeSpan      = "code-span"
	KindStrong        = "strong"
	KindEmphasis      = "emphasis"
	KindStrike        = "strike"
	KindLink          = "link"
	KindImage         = "image"
	KindHardBreak     = "hard-break"

	KindTable     = "table"
	KindTableHead = "table-head"
	KindTableBody = "table-body"
	KindTableRow  = "table-row"
	KindTableCell = "table-cell"

	KindSubtext = "subtext"
	KindButton  = "cum-button"
	KindAlert   = "cum-alert"
	KindEmbed   = "cum-embed"
)

// Alignment is a table column alignment taken from the separator row.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the CSS text-align value, or "" for AlignNone.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// Attrs carries the per-kind data attached to a token. It is a closed
// struct rather than an open map so render rules can match known shapes;
// each kind reads only the fields it documents and leaves the rest zero.
type Attrs struct {
	// Link, image, button, and embed targets.
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Alt   string `json:"alt,omitempty" yaml:"alt,omitempty"`

	// Heading level (1-6) and anchor id.
	Level int    `json:"level,omitempty" yaml:"level,omitempty"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`

	// Code fence info string, e.g. "js".
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	// List shape.
	Ordered bool `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	Start   int  `json:"start,omitempty" yaml:"start,omitempty"`

	// Table column alignments (on the table token) and the per-cell
	// alignment plus header flag (on table-cell tokens).
	Aligns []Alignment `json:"aligns,omitempty" yaml:"aligns,omitempty"`
	Align  Alignment   `json:"align,omitempty" yaml:"align,omitempty"`
	Header bool        `json:"header,omitempty" yaml:"header,omitempty"`

	// CUM button options.
	Style    string `json:"style,omitempty" yaml:"style,omitempty"`
	Size     string `json:"size,omitempty" yaml:"size,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	SameTab  bool   `json:"same_tab,omitempty" yaml:"same_tab,omitempty"`

	// CUM alert variant (info, success, warning, error).
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

// Token is the intermediate representation of a parsed markup fragment.
// Raw holds the source text the producing rule consumed; leaf tokens
// render from Raw while container tokens render from Children.
type Token struct {
	Kind     string
	Raw      string
	Children []Token
	Attrs    Attrs
}

// textToken builds a plain literal token.
func textToken(raw string) Token {
	return Token{Kind: KindText, Raw: raw}
}
