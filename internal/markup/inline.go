package markup

import (
	"strings"
	"unicode/utf8"
)

// ParseInline runs the inline pass over a block's text content. Rules
// are tried in priority order at each byte position; when none match,
// exactly one rune joins the pending literal run. Matched rules must
// consume at least one byte, so the loop always terminates.
func (p *Parser) ParseInline(src string) []Token {
	var out []Token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			out = append(out, textToken(lit.String()))
			lit.Reset()
		}
	}

	pos := 0
	for pos < len(src) {
		if src[pos] == '\\' && pos+1 < len(src) && isEscapable(src[pos+1]) {
			lit.WriteByte(src[pos+1])
			pos += 2
			continue
		}

		matched := false
		for _, r := range p.reg.inlineRules {
			if tok, n, ok := r.Match(p, src, pos); ok && n >= 1 {
				flush()
				out = append(out, tok)
				pos += n
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(src[pos:])
			lit.WriteString(src[pos : pos+size])
			pos += size
		}
	}
	flush()
	return out
}

// isEscapable reports whether c may follow a backslash to suppress its
// markup meaning.
func isEscapable(c byte) bool {
	return strings.IndexByte("\\`*_{}[]()#+-.!|~:", c) >= 0
}
