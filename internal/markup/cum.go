package markup

import (
	"html"
	"strings"
)

// Changerawr Universal Markup: the directive dialect layered on top of
// markdown for interactive elements. Registered as one extension so a
// deployment can switch the whole dialect off; with it disabled the
// directive syntax falls through to the generic rules and renders as
// plain content.

var buttonStyles = map[string]bool{
	"default": true, "primary": true, "secondary": true,
	"success": true, "danger": true, "outline": true, "ghost": true,
}

var buttonSizes = map[string]bool{
	"sm": true, "md": true, "lg": true,
}

var alertVariants = map[string]bool{
	"info": true, "success": true, "warning": true, "error": true,
}

func cumExtension() Extension {
	return Extension{
		Name: "cum",
		BlockRules: []BlockRule{
			{Name: "cum-subtext", Priority: PrioritySubtext, Match: matchSubtext},
			{Name: "cum-alert", Priority: PriorityAlert, Match: matchAlert},
			{Name: "cum-embed", Priority: PriorityEmbed, Match: matchEmbed},
		},
		InlineRules: []InlineRule{
			{Name: "cum-button", Priority: PriorityButton, Match: matchButton},
		},
		RenderRules: []RenderRule{
			{Kind: KindSubtext, Render: func(_ Token, childHTML string) string {
				return `<p class="cum-subtext"><small>` + childHTML + `</small></p>`
			}},
			{Kind: KindButton, Render: renderButton},
			{Kind: KindAlert, Render: renderAlert},
			{Kind: KindEmbed, Render: renderEmbed},
		},
	}
}

// ---- subtext: a line of the form "-# small note" ----

func matchSubtext(p *Parser, lines []string, pos int) (Token, int, bool) {
	trimmed := strings.TrimLeft(lines[pos], " ")
	if !strings.HasPrefix(trimmed, "-#") {
		return Token{}, 0, false
	}
	rest := trimmed[2:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return Token{}, 0, false
	}
	text := strings.TrimSpace(rest)
	return Token{
		Kind:     KindSubtext,
		Raw:      lines[pos],
		Children: p.ParseInline(text),
	}, 1, true
}

// ---- button: [button:Text](url){style,size,disabled,self} ----

// matchButton parses the button directive. The options block is
// optional, comma-separated, and order-independent; unrecognized options
// are ignored. A malformed directive simply fails to match and falls
// through to the generic link and text rules.
func matchButton(p *Parser, src string, pos int) (Token, int, bool) {
	const prefix = "[button:"
	if !strings.HasPrefix(src[pos:], prefix) {
		return Token{}, 0, false
	}
	text, url, _, length, ok := spanLink(src, pos)
	if !ok {
		return Token{}, 0, false
	}
	text = strings.TrimPrefix(text, "button:")
	if strings.TrimSpace(text) == "" || strings.TrimSpace(url) == "" {
		return Token{}, 0, false
	}

	attrs := Attrs{URL: url, Style: "default", Size: "md"}
	end := pos + length
	if end < len(src) && src[end] == '{' {
		if close := strings.IndexByte(src[end:], '}'); close > 0 {
			applyButtonOptions(&attrs, src[end+1:end+close])
			end += close + 1
		}
		// an unclosed options block is not part of the directive and
		// stays literal
	}

	return Token{
		Kind:     KindButton,
		Raw:      src[pos:end],
		Children: p.ParseInline(text),
		Attrs:    attrs,
	}, end - pos, true
}

func applyButtonOptions(attrs *Attrs, opts string) {
	for _, opt := range strings.Split(opts, ",") {
		opt = strings.ToLower(strings.TrimSpace(opt))
		switch {
		case buttonStyles[opt]:
			attrs.Style = opt
		case buttonSizes[opt]:
			attrs.Size = opt
		case opt == "disabled":
			attrs.Disabled = true
		case opt == "self":
			attrs.SameTab = true
		}
	}
}

func renderButton(t Token, childHTML string) string {
	class := "cum-button cum-button-" + t.Attrs.Style + " cum-button-" + t.Attrs.Size

	if t.Attrs.Disabled {
		return `<span class="` + class + `" aria-disabled="true">` + childHTML + `</span>`
	}

	var b strings.Builder
	b.WriteString(`<a href="` + html.EscapeString(t.Attrs.URL) + `" class="` + class + `"`)
	if !t.Attrs.SameTab {
		b.WriteString(` target="_blank" rel="noopener noreferrer"`)
	}
	b.WriteString(">" + childHTML + "</a>")
	return b.String()
}

// ---- alert: ":::alert <variant>" block ----

// matchAlert opens on a :::alert line and consumes until a ::: close
// line, a blank line, or end of input. The body is block-parsed, so
// alerts can contain emphasis, links, and lists.
func matchAlert(p *Parser, lines []string, pos int) (Token, int, bool) {
	trimmed := strings.TrimSpace(lines[pos])
	if trimmed != ":::alert" && !strings.HasPrefix(trimmed, ":::alert ") {
		return Token{}, 0, false
	}
	variant := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, ":::alert")))
	if !alertVariants[variant] {
		variant = "info"
	}

	body, consumed := directiveBody(lines, pos)
	return Token{
		Kind:     KindAlert,
		Raw:      strings.Join(lines[pos:pos+consumed], "\n"),
		Children: p.ParseBlocks(body),
		Attrs:    Attrs{Variant: variant},
	}, consumed, true
}

func renderAlert(t Token, childHTML string) string {
	return `<div class="cum-alert cum-alert-` + t.Attrs.Variant + `" role="alert">` + childHTML + `</div>`
}

// ---- embed: ":::embed <url>" block with optional caption lines ----

func matchEmbed(p *Parser, lines []string, pos int) (Token, int, bool) {
	trimmed := strings.TrimSpace(lines[pos])
	if !strings.HasPrefix(trimmed, ":::embed ") {
		return Token{}, 0, false
	}
	url := strings.TrimSpace(strings.TrimPrefix(trimmed, ":::embed"))
	if url == "" {
		return Token{}, 0, false
	}

	body, consumed := directiveBody(lines, pos)
	caption := strings.TrimSpace(strings.Join(body, " "))
	return Token{
		Kind:     KindEmbed,
		Raw:      strings.Join(lines[pos:pos+consumed], "\n"),
		Children: p.ParseInline(caption),
		Attrs:    Attrs{URL: url},
	}, consumed, true
}

// renderEmbed emits a link card rather than an iframe so the sanitizer
// policy stays closed to frame content.
func renderEmbed(t Token, childHTML string) string {
	label := childHTML
	if label == "" {
		label = html.EscapeString(t.Attrs.URL)
	}
	return `<div class="cum-embed"><a href="` + html.EscapeString(t.Attrs.URL) +
		`" target="_blank" rel="noopener noreferrer">` + label + `</a></div>`
}

// directiveBody collects the lines after a ::: opener up to a :::
// close line, a blank line, or end of input. The returned count includes
// the opener and, when present, the close line.
func directiveBody(lines []string, pos int) (body []string, consumed int) {
	i := pos + 1
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == ":::" {
			return body, i - pos + 1
		}
		if trimmed == "" {
			return body, i - pos
		}
		body = append(body, lines[i])
	}
	return body, i - pos
}
