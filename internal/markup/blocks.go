package markup

import (
	"strings"
)

// blockState names the scanner's block-level mode. Rules that consume
// multi-line constructs set the state for the duration of their match so
// fence, table, and nesting behavior is observable in tests.
type blockState int

const (
	stateNone blockState = iota
	stateCodeFence
	stateTable
	stateList
	stateBlockquote
)

func (s blockState) String() string {
	switch s {
	case stateCodeFence:
		return "code-fence"
	case stateTable:
		return "table"
	case stateList:
		return "list"
	case stateBlockquote:
		return "blockquote"
	default:
		return "none"
	}
}

// Parser scans source text into a token tree using the rule registry it
// was constructed with. A Parser holds only per-call scan state; the
// registry is shared and read-only, so a fresh Parser per invocation is
// cheap and concurrent invocations never interact.
type Parser struct {
	reg   *Registry
	state blockState
}

// NewParser returns a parser over the given registry.
func NewParser(reg *Registry) *Parser {
	return &Parser{reg: reg}
}

// Parse scans source into a flat list of block tokens. Inline content
// hangs off each block as children.
func (p *Parser) Parse(source string) []Token {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	if source == "" {
		return nil
	}
	return p.ParseBlocks(strings.Split(source, "\n"))
}

// ParseBlocks runs the block pass over a window of lines. At each
// position the highest-priority matching rule wins; a rule that matches
// must consume at least one line. If nothing matches, the scanner
// consumes exactly one line as a literal paragraph, so it can never
// stall regardless of which extensions are registered.
func (p *Parser) ParseBlocks(lines []string) []Token {
	var out []Token
	pos := 0
	for pos < len(lines) {
		if isBlank(lines[pos]) {
			pos++
			continue
		}
		tok, n, ok := p.matchBlock(lines, pos)
		if !ok || n < 1 {
			line := lines[pos]
			tok = Token{Kind: KindParagraph, Raw: line, Children: p.ParseInline(line)}
			n = 1
		}
		out = append(out, tok)
		pos += n
	}
	return out
}

// matchBlock evaluates block rules in priority order at lines[pos].
func (p *Parser) matchBlock(lines []string, pos int) (Token, int, bool) {
	for _, r := range p.reg.blockRules {
		if tok, n, ok := r.Match(p, lines, pos); ok && n >= 1 {
			return tok, n, true
		}
	}
	return Token{}, 0, false
}

// interrupts reports whether a rule that outranks the paragraph rule
// matches at lines[pos]. The paragraph rule uses it to stop consuming a
// run of lines when a real block construct starts.
func (p *Parser) interrupts(lines []string, pos int) bool {
	for _, r := range p.reg.blockRules {
		if r.Priority <= PriorityParagraph {
			break
		}
		if _, n, ok := r.Match(p, lines, pos); ok && n >= 1 {
			return true
		}
	}
	return false
}

// enterState switches the scanner mode and returns a func restoring the
// previous one; multi-line rules defer it around their consumption.
func (p *Parser) enterState(s blockState) func() {
	prev := p.state
	p.state = s
	return func() { p.state = prev }
}

// State exposes the current block mode.
func (p *Parser) State() blockState { return p.state }

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// indentWidth measures leading whitespace, counting a tab as 4 columns.
func indentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}
