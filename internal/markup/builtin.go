package markup

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode"
)

// builtinExtensions returns the base grammar, each concern expressed as
// an extension so custom syntax registers through the same path.
func builtinExtensions() []Extension {
	return []Extension{
		codeExtension(),
		headingExtension(),
		thematicBreakExtension(),
		blockquoteExtension(),
		listExtension(),
		emphasisExtension(),
		linkExtension(),
		paragraphExtension(),
	}
}

// ---- code fences and code spans ----

func codeExtension() Extension {
	return Extension{
		Name: "code",
		BlockRules: []BlockRule{
			{Name: "code-fence", Priority: PriorityCodeFence, Match: matchCodeFence},
		},
		InlineRules: []InlineRule{
			{Name: "code-span", Priority: PriorityCodeSpan, Match: matchCodeSpan},
		},
		RenderRules: []RenderRule{
			{Kind: KindCodeBlock, Render: renderCodeBlock},
			{Kind: KindCodeSpan, Render: func(t Token, _ string) string {
				return "<code>" + html.EscapeString(t.Raw) + "</code>"
			}},
		},
	}
}

// matchCodeFence opens on a ``` line and consumes until a closing fence
// or end of input. An unterminated fence closes at EOF and still renders
// as a code block; it is never an error.
func matchCodeFence(p *Parser, lines []string, pos int) (Token, int, bool) {
	trimmed := strings.TrimSpace(lines[pos])
	if !strings.HasPrefix(trimmed, "```") {
		return Token{}, 0, false
	}
	lang := strings.TrimSpace(strings.TrimLeft(trimmed, "`"))
	if strings.ContainsAny(lang, "`") {
		return Token{}, 0, false
	}

	leave := p.enterState(stateCodeFence)
	defer leave()

	var body []string
	for i := pos + 1; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if strings.HasPrefix(t, "```") && strings.Trim(t, "`") == "" {
			return Token{
				Kind:  KindCodeBlock,
				Raw:   strings.Join(body, "\n"),
				Attrs: Attrs{Lang: lang},
			}, i - pos + 1, true
		}
		body = append(body, lines[i])
	}
	return Token{
		Kind:  KindCodeBlock,
		Raw:   strings.Join(body, "\n"),
		Attrs: Attrs{Lang: lang},
	}, len(lines) - pos, true
}

func renderCodeBlock(t Token, _ string) string {
	var b strings.Builder
	b.WriteString("<pre><code")
	if t.Attrs.Lang != "" {
		b.WriteString(` class="language-` + html.EscapeString(t.Attrs.Lang) + `"`)
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(t.Raw))
	b.WriteString("</code></pre>")
	return b.String()
}

// matchCodeSpan recognizes `code` delimited by a backtick run; the
// closing run must have the same length. An unclosed run falls through
// and renders as literal backticks.
func matchCodeSpan(_ *Parser, src string, pos int) (Token, int, bool) {
	if src[pos] != '`' {
		return Token{}, 0, false
	}
	n := 0
	for pos+n < len(src) && src[pos+n] == '`' {
		n++
	}
	fence := src[pos : pos+n]
	rest := src[pos+n:]
	idx := strings.Index(rest, fence)
	if idx < 0 {
		return Token{}, 0, false
	}
	content := rest[:idx]
	// one leading+trailing space pair is stripped, so ` `x` ` works
	if len(content) >= 2 && strings.HasPrefix(content, " ") && strings.HasSuffix(content, " ") {
		content = content[1 : len(content)-1]
	}
	return Token{Kind: KindCodeSpan, Raw: content}, n*2 + idx, true
}

// ---- headings ----

func headingExtension() Extension {
	return Extension{
		Name: "heading",
		BlockRules: []BlockRule{
			{Name: "atx-heading", Priority: PriorityHeading, Match: matchHeading},
		},
		RenderRules: []RenderRule{
			{Kind: KindHeading, Render: func(t Token, childHTML string) string {
				lvl := t.Attrs.Level
				if t.Attrs.ID != "" {
					return fmt.Sprintf(`<h%d id="%s">%s</h%d>`, lvl, html.EscapeString(t.Attrs.ID), childHTML, lvl)
				}
				return fmt.Sprintf("<h%d>%s</h%d>", lvl, childHTML, lvl)
			}},
		},
	}
}

func matchHeading(p *Parser, lines []string, pos int) (Token, int, bool) {
	line := lines[pos]
	trimmed := strings.TrimLeft(line, " ")
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return Token{}, 0, false
	}
	rest := trimmed[level:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return Token{}, 0, false
	}
	text := strings.TrimSpace(rest)
	text = strings.TrimRight(text, "#")
	text = strings.TrimSpace(text)
	return Token{
		Kind:     KindHeading,
		Raw:      line,
		Children: p.ParseInline(text),
		Attrs:    Attrs{Level: level, ID: slugify(text)},
	}, 1, true
}

// slugify builds a heading anchor id: lowercase, alphanumerics kept,
// runs of everything else collapsed to single hyphens.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		} else {
			dash = true
		}
	}
	return b.String()
}

// ---- thematic break ----

func thematicBreakExtension() Extension {
	return Extension{
		Name: "thematic-break",
		BlockRules: []BlockRule{
			{Name: "thematic-break", Priority: PriorityThematicBreak, Match: matchThematicBreak},
		},
		RenderRules: []RenderRule{
			{Kind: KindThematicBreak, Render: func(Token, string) string { return "<hr>" }},
		},
	}
}

func matchThematicBreak(_ *Parser, lines []string, pos int) (Token, int, bool) {
	trimmed := strings.TrimSpace(lines[pos])
	if len(trimmed) < 3 {
		return Token{}, 0, false
	}
	c := trimmed[0]
	if c != '-' && c != '*' && c != '_' {
		return Token{}, 0, false
	}
	count := 0
	for _, r := range trimmed {
		switch {
		case byte(r) == c:
			count++
		case r == ' ':
		default:
			return Token{}, 0, false
		}
	}
	if count < 3 {
		return Token{}, 0, false
	}
	return Token{Kind: KindThematicBreak, Raw: lines[pos]}, 1, true
}

// ---- blockquote ----

func blockquoteExtension() Extension {
	return Extension{
		Name: "blockquote",
		BlockRules: []BlockRule{
			{Name: "blockquote", Priority: PriorityBlockquote, Match: matchBlockquote},
		},
		RenderRules: []RenderRule{
			{Kind: KindBlockquote, Render: func(_ Token, childHTML string) string {
				return "<blockquote>" + childHTML + "</blockquote>"
			}},
		},
	}
}

// matchBlockquote consumes the run of > lines, strips one marker level,
// and block-parses the interior recursively; deeper markers nest rather
// than producing siblings.
func matchBlockquote(p *Parser, lines []string, pos int) (Token, int, bool) {
	if !isQuoteLine(lines[pos]) {
		return Token{}, 0, false
	}
	leave := p.enterState(stateBlockquote)
	defer leave()

	var inner []string
	i := pos
	for ; i < len(lines) && isQuoteLine(lines[i]); i++ {
		inner = append(inner, stripQuoteMarker(lines[i]))
	}
	return Token{
		Kind:     KindBlockquote,
		Raw:      strings.Join(lines[pos:i], "\n"),
		Children: p.ParseBlocks(inner),
	}, i - pos, true
}

func isQuoteLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " "), ">")
}

func stripQuoteMarker(line string) string {
	s := strings.TrimLeft(line, " ")
	s = strings.TrimPrefix(s, ">")
	return strings.TrimPrefix(s, " ")
}

// ---- lists ----

func listExtension() Extension {
	return Extension{
		Name: "list",
		BlockRules: []BlockRule{
			{Name: "list", Priority: PriorityList, Match: matchList},
		},
		RenderRules: []RenderRule{
			{Kind: KindList, Render: renderList},
			{Kind: KindListItem, Render: func(_ Token, childHTML string) string {
				return "<li>" + childHTML + "</li>"
			}},
		},
	}
}

func renderList(t Token, childHTML string) string {
	if t.Attrs.Ordered {
		if t.Attrs.Start != 1 {
			return fmt.Sprintf(`<ol start="%d">%s</ol>`, t.Attrs.Start, childHTML)
		}
		return "<ol>" + childHTML + "</ol>"
	}
	return "<ul>" + childHTML + "</ul>"
}

type listMarker struct {
	ordered bool
	start   int
	// offset is the content column on the marker line: indent plus
	// marker plus one space. Continuation lines dedent by it.
	offset int
}

// parseListMarker recognizes "-", "*", "+" bullets and "1." / "1)"
// ordered markers followed by a space.
func parseListMarker(line string) (listMarker, string, bool) {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	rest := line[indent:]
	if rest == "" {
		return listMarker{}, "", false
	}

	switch rest[0] {
	case '-', '*', '+':
		if len(rest) < 2 || rest[1] != ' ' {
			return listMarker{}, "", false
		}
		return listMarker{offset: indent + 2}, strings.TrimLeft(rest[2:], " "), true
	}

	digits := 0
	for digits < len(rest) && digits < 9 && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(rest) {
		return listMarker{}, "", false
	}
	if rest[digits] != '.' && rest[digits] != ')' {
		return listMarker{}, "", false
	}
	if digits+1 >= len(rest) || rest[digits+1] != ' ' {
		return listMarker{}, "", false
	}
	start, _ := strconv.Atoi(rest[:digits])
	return listMarker{ordered: true, start: start, offset: indent + digits + 2}, strings.TrimLeft(rest[digits+2:], " "), true
}

// matchList consumes a run of list items at one indent level. Lines
// indented past an item's content column belong to that item and are
// re-parsed as blocks, which is how deeper markers become nested list
// tokens instead of siblings.
func matchList(p *Parser, lines []string, pos int) (Token, int, bool) {
	first, _, ok := parseListMarker(lines[pos])
	if !ok {
		return Token{}, 0, false
	}
	leave := p.enterState(stateList)
	defer leave()

	baseIndent := indentWidth(lines[pos])
	list := Token{
		Kind:  KindList,
		Attrs: Attrs{Ordered: first.ordered, Start: first.start},
	}
	if !first.ordered {
		list.Attrs.Start = 0
	}

	i := pos
	for i < len(lines) {
		line := lines[i]
		if isBlank(line) {
			// a blank line ends the list unless another item or a
			// continuation follows directly
			if i+1 < len(lines) && !isBlank(lines[i+1]) && indentWidth(lines[i+1]) >= baseIndent {
				if _, _, isItem := parseListMarker(lines[i+1]); isItem || indentWidth(lines[i+1]) > baseIndent {
					i++
					continue
				}
			}
			break
		}

		ind := indentWidth(line)
		m, content, isItem := parseListMarker(line)
		if !isItem || ind > baseIndent {
			break
		}
		if m.ordered != first.ordered {
			break
		}

		// gather this item's continuation lines
		itemLines := []string{content}
		j := i + 1
		for j < len(lines) {
			next := lines[j]
			if isBlank(next) {
				// keep the blank if deeper content continues the item
				if j+1 < len(lines) && !isBlank(lines[j+1]) && indentWidth(lines[j+1]) >= m.offset {
					itemLines = append(itemLines, "")
					j++
					continue
				}
				break
			}
			if indentWidth(next) < m.offset {
				break
			}
			itemLines = append(itemLines, dedent(next, m.offset))
			j++
		}

		children := p.ParseBlocks(itemLines)
		// tight rendering: unwrap a leading paragraph so simple items
		// emit <li>text</li>
		if len(children) > 0 && children[0].Kind == KindParagraph {
			children = append(children[0].Children, children[1:]...)
		}
		list.Children = append(list.Children, Token{
			Kind:     KindListItem,
			Raw:      line,
			Children: children,
		})
		i = j
	}

	if len(list.Children) == 0 {
		return Token{}, 0, false
	}
	list.Raw = strings.Join(lines[pos:i], "\n")
	return list, i - pos, true
}

// dedent removes up to n columns of leading spaces.
func dedent(line string, n int) string {
	for i := 0; i < n && line != ""; i++ {
		if line[0] != ' ' {
			break
		}
		line = line[1:]
	}
	return line
}

// ---- emphasis, strong, strikethrough, hard breaks ----

func emphasisExtension() Extension {
	return Extension{
		Name: "emphasis",
		InlineRules: []InlineRule{
			{Name: "strong", Priority: PriorityStrong, Match: delimRule(KindStrong, "**", "__")},
			{Name: "emphasis", Priority: PriorityEmphasis, Match: delimRule(KindEmphasis, "*", "_")},
			{Name: "strike", Priority: PriorityStrike, Match: delimRule(KindStrike, "~~")},
			{Name: "hard-break", Priority: 200, Match: matchHardBreak},
		},
		RenderRules: []RenderRule{
			{Kind: KindStrong, Render: wrapRule("strong")},
			{Kind: KindEmphasis, Render: wrapRule("em")},
			{Kind: KindStrike, Render: wrapRule("del")},
			{Kind: KindHardBreak, Render: func(Token, string) string { return "<br>" }},
			{Kind: KindText, Render: func(t Token, _ string) string {
				return html.EscapeString(t.Raw)
			}},
		},
	}
}

func wrapRule(tag string) RenderFunc {
	return func(_ Token, childHTML string) string {
		return "<" + tag + ">" + childHTML + "</" + tag + ">"
	}
}

// delimRule matches symmetric delimiter pairs. Content must be non-empty
// and must not begin or end with a space, so loose asterisks stay
// literal.
func delimRule(kind string, delims ...string) InlineMatchFunc {
	return func(p *Parser, src string, pos int) (Token, int, bool) {
		for _, d := range delims {
			if !strings.HasPrefix(src[pos:], d) {
				continue
			}
			rest := src[pos+len(d):]
			// single-char delimiter must not actually be a double
			if len(d) == 1 && strings.HasPrefix(rest, d) {
				continue
			}
			idx := strings.Index(rest, d)
			if idx <= 0 {
				continue
			}
			inner := rest[:idx]
			if strings.HasPrefix(inner, " ") || strings.HasSuffix(inner, " ") {
				continue
			}
			return Token{
				Kind:     kind,
				Raw:      src[pos : pos+len(d)*2+idx],
				Children: p.ParseInline(inner),
			}, len(d)*2 + idx, true
		}
		return Token{}, 0, false
	}
}

// matchHardBreak recognizes two or more trailing spaces, or a backslash,
// before a newline.
func matchHardBreak(_ *Parser, src string, pos int) (Token, int, bool) {
	if src[pos] == '\\' && pos+1 < len(src) && src[pos+1] == '\n' {
		return Token{Kind: KindHardBreak, Raw: src[pos : pos+2]}, 2, true
	}
	if src[pos] != ' ' {
		return Token{}, 0, false
	}
	n := 0
	for pos+n < len(src) && src[pos+n] == ' ' {
		n++
	}
	if n < 2 || pos+n >= len(src) || src[pos+n] != '\n' {
		return Token{}, 0, false
	}
	return Token{Kind: KindHardBreak, Raw: src[pos : pos+n+1]}, n + 1, true
}

// ---- links and images ----

func linkExtension() Extension {
	return Extension{
		Name: "link",
		InlineRules: []InlineRule{
			{Name: "image", Priority: PriorityImage, Match: matchImage},
			{Name: "link", Priority: PriorityLink, Match: matchLink},
		},
		RenderRules: []RenderRule{
			{Kind: KindLink, Render: renderLink},
			{Kind: KindImage, Render: func(t Token, _ string) string {
				return fmt.Sprintf(`<img src="%s" alt="%s">`,
					html.EscapeString(t.Attrs.URL), html.EscapeString(t.Attrs.Alt))
			}},
		},
	}
}

func renderLink(t Token, childHTML string) string {
	var b strings.Builder
	b.WriteString(`<a href="` + html.EscapeString(t.Attrs.URL) + `"`)
	if t.Attrs.Title != "" {
		b.WriteString(` title="` + html.EscapeString(t.Attrs.Title) + `"`)
	}
	b.WriteString(">" + childHTML + "</a>")
	return b.String()
}

// spanLink parses the common [text](dest) shape starting at pos and
// returns text, url, title, and total length.
func spanLink(src string, pos int) (text, url, title string, length int, ok bool) {
	if pos >= len(src) || src[pos] != '[' {
		return
	}
	depth := 0
	textEnd := -1
	for i := pos; i < len(src); i++ {
		switch src[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				textEnd = i
			}
		case '\n':
			return
		}
		if textEnd >= 0 {
			break
		}
	}
	if textEnd < 0 || textEnd+1 >= len(src) || src[textEnd+1] != '(' {
		return
	}
	close := strings.IndexByte(src[textEnd+2:], ')')
	if close < 0 {
		return
	}
	dest := src[textEnd+2 : textEnd+2+close]
	if strings.ContainsAny(dest, "\n") {
		return
	}
	url, title = splitLinkDest(dest)
	text = src[pos+1 : textEnd]
	length = textEnd + 2 + close + 1 - pos
	ok = true
	return
}

// splitLinkDest separates `url "title"` destinations.
func splitLinkDest(dest string) (string, string) {
	dest = strings.TrimSpace(dest)
	if i := strings.Index(dest, ` "`); i >= 0 && strings.HasSuffix(dest, `"`) {
		return strings.TrimSpace(dest[:i]), dest[i+2 : len(dest)-1]
	}
	return dest, ""
}

func matchLink(p *Parser, src string, pos int) (Token, int, bool) {
	text, url, title, length, ok := spanLink(src, pos)
	if !ok {
		return Token{}, 0, false
	}
	return Token{
		Kind:     KindLink,
		Raw:      src[pos : pos+length],
		Children: p.ParseInline(text),
		Attrs:    Attrs{URL: url, Title: title},
	}, length, true
}

func matchImage(_ *Parser, src string, pos int) (Token, int, bool) {
	if src[pos] != '!' || pos+1 >= len(src) {
		return Token{}, 0, false
	}
	alt, url, title, length, ok := spanLink(src, pos+1)
	if !ok {
		return Token{}, 0, false
	}
	return Token{
		Kind:  KindImage,
		Raw:   src[pos : pos+1+length],
		Attrs: Attrs{URL: url, Alt: alt, Title: title},
	}, length + 1, true
}

// ---- paragraph fallback ----

func paragraphExtension() Extension {
	return Extension{
		Name: "paragraph",
		BlockRules: []BlockRule{
			{Name: "paragraph", Priority: PriorityParagraph, Match: matchParagraph},
		},
		RenderRules: []RenderRule{
			{Kind: KindParagraph, Render: func(_ Token, childHTML string) string {
				return "<p>" + childHTML + "</p>"
			}},
		},
	}
}

// matchParagraph is the generic fallback block: it consumes lines until
// a blank line or until a higher-priority rule matches.
func matchParagraph(p *Parser, lines []string, pos int) (Token, int, bool) {
	if isBlank(lines[pos]) {
		return Token{}, 0, false
	}
	i := pos + 1
	for i < len(lines) && !isBlank(lines[i]) && !p.interrupts(lines, i) {
		i++
	}
	parts := make([]string, 0, i-pos)
	for k := pos; k < i; k++ {
		parts = append(parts, strings.TrimLeft(lines[k], " \t"))
	}
	text := strings.TrimRight(strings.Join(parts, "\n"), " \t\n")
	return Token{
		Kind:     KindParagraph,
		Raw:      text,
		Children: p.ParseInline(text),
	}, i - pos, true
}
