package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderAll(t *testing.T, source string) string {
	t.Helper()
	e, err := NewEngine(DefaultOptions())
	require.NoError(t, err)
	return e.Render(source)
}

func TestSubtextParsing(t *testing.T) {
	p := testParser(t)

	tokens := p.Parse("-# small note")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindSubtext, tokens[0].Kind)
	require.Len(t, tokens[0].Children, 1)
	assert.Equal(t, "small note", tokens[0].Children[0].Raw)
}

func TestSubtextRendering(t *testing.T) {
	html := renderAll(t, "-# small note")
	assert.Contains(t, html, `class="cum-subtext"`)
	assert.Contains(t, html, "small note")
	assert.Contains(t, html, "<small>")
}

func TestSubtextRequiresSpace(t *testing.T) {
	p := testParser(t)

	tokens := p.Parse("-#nope")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindParagraph, tokens[0].Kind)
}

func TestButtonParsing(t *testing.T) {
	p := testParser(t)

	testCases := []struct {
		name  string
		input string
		check func(t *testing.T, tok Token)
	}{
		{
			"defaults", "[button:Go](https://x.com)",
			func(t *testing.T, tok Token) {
				assert.Equal(t, "https://x.com", tok.Attrs.URL)
				assert.Equal(t, "default", tok.Attrs.Style)
				assert.Equal(t, "md", tok.Attrs.Size)
				assert.False(t, tok.Attrs.Disabled)
				assert.False(t, tok.Attrs.SameTab)
			},
		},
		{
			"style and size", "[button:Go](https://x.com){success,lg}",
			func(t *testing.T, tok Token) {
				assert.Equal(t, "success", tok.Attrs.Style)
				assert.Equal(t, "lg", tok.Attrs.Size)
			},
		},
		{
			"order independent", "[button:Go](https://x.com){sm, danger}",
			func(t *testing.T, tok Token) {
				assert.Equal(t, "danger", tok.Attrs.Style)
				assert.Equal(t, "sm", tok.Attrs.Size)
			},
		},
		{
			"flags", "[button:Go](https://x.com){disabled,self}",
			func(t *testing.T, tok Token) {
				assert.True(t, tok.Attrs.Disabled)
				assert.True(t, tok.Attrs.SameTab)
			},
		},
		{
			"unknown options ignored", "[button:Go](https://x.com){sparkly,primary}",
			func(t *testing.T, tok Token) {
				assert.Equal(t, "primary", tok.Attrs.Style)
				assert.Equal(t, "md", tok.Attrs.Size)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := p.ParseInline(tc.input)
			require.Len(t, tokens, 1)
			require.Equal(t, KindButton, tokens[0].Kind)
			tc.check(t, tokens[0])
		})
	}
}

func TestButtonRendering(t *testing.T) {
	html := renderAll(t, "[button:Click](https://x.com){success,lg}")
	assert.Contains(t, html, `href="https://x.com"`)
	assert.Contains(t, html, "Click")
	assert.Contains(t, html, "cum-button-success")
	assert.Contains(t, html, "cum-button-lg")
	assert.Contains(t, html, `target="_blank"`)
}

func TestButtonSelfOpensSameTab(t *testing.T) {
	html := renderAll(t, "[button:Click](https://x.com){self}")
	assert.NotContains(t, html, "_blank")
	assert.Contains(t, html, `href="https://x.com"`)
}

func TestDisabledButtonIsNonInteractive(t *testing.T) {
	html := renderAll(t, "[button:Click](https://x.com){disabled}")
	assert.Contains(t, html, `aria-disabled="true"`)
	assert.NotContains(t, html, "href=")
}

func TestMalformedButtonFallsThrough(t *testing.T) {
	p := testParser(t)

	// no closing paren: nothing to recognize, rendered literally
	tokens := p.ParseInline("[button:Click](https://x.com")
	for _, tok := range tokens {
		assert.Equal(t, KindText, tok.Kind)
	}

	// empty label: not a button; the generic link rule applies
	tokens = p.ParseInline("[button:](https://x.com)")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindLink, tokens[0].Kind)
}

func TestButtonUnclosedOptionsStayLiteral(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("[button:Go](https://x.com){broken")
	require.GreaterOrEqual(t, len(tokens), 2)
	assert.Equal(t, KindButton, tokens[0].Kind)
	assert.Equal(t, "default", tokens[0].Attrs.Style)
	assert.Equal(t, KindText, tokens[1].Kind)
	assert.Equal(t, "{broken", tokens[1].Raw)
}

func TestAlertParsing(t *testing.T) {
	p := testParser(t)

	testCases := []struct {
		name    string
		input   string
		variant string
	}{
		{"warning", ":::alert warning\ncareful now\n:::", "warning"},
		{"default variant", ":::alert\nheads up\n:::", "info"},
		{"unknown variant", ":::alert shiny\nheads up\n:::", "info"},
		{"closed by blank line", ":::alert error\nboom\n\nnext paragraph", "error"},
		{"closed at EOF", ":::alert success\ndone", "success"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := p.Parse(tc.input)
			require.NotEmpty(t, tokens)
			alert := tokens[0]
			require.Equal(t, KindAlert, alert.Kind)
			assert.Equal(t, tc.variant, alert.Attrs.Variant)
			require.NotEmpty(t, alert.Children)
		})
	}
}

func TestAlertBodyIsBlockParsed(t *testing.T) {
	p := testParser(t)

	tokens := p.Parse(":::alert info\n**bold** body\n- a list\n:::")
	require.Len(t, tokens, 1)
	alert := tokens[0]
	require.Len(t, alert.Children, 2)
	assert.Equal(t, KindParagraph, alert.Children[0].Kind)
	assert.Equal(t, KindList, alert.Children[1].Kind)
}

func TestAlertRendering(t *testing.T) {
	html := renderAll(t, ":::alert warning\ncareful\n:::")
	assert.Contains(t, html, "cum-alert-warning")
	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, "careful")
}

func TestEmbedParsing(t *testing.T) {
	p := testParser(t)

	tokens := p.Parse(":::embed https://example.com/demo\nA live demo\n:::")
	require.Len(t, tokens, 1)
	embed := tokens[0]
	require.Equal(t, KindEmbed, embed.Kind)
	assert.Equal(t, "https://example.com/demo", embed.Attrs.URL)
	require.Len(t, embed.Children, 1)
	assert.Equal(t, "A live demo", embed.Children[0].Raw)
}

func TestEmbedWithoutCaptionUsesURL(t *testing.T) {
	html := renderAll(t, ":::embed https://example.com/demo")
	assert.Contains(t, html, `href="https://example.com/demo"`)
	assert.Equal(t, 2, strings.Count(html, "example.com/demo"), "url doubles as the label")
}

func TestEmbedWithoutURLIsNotADirective(t *testing.T) {
	p := testParser(t)

	tokens := p.Parse(":::embed")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindParagraph, tokens[0].Kind)
}

func TestCUMDisabledFallsThrough(t *testing.T) {
	e, err := NewEngine(Options{EnableCUM: false})
	require.NoError(t, err)

	html := e.Render("[button:Click](https://x.com)")
	assert.NotContains(t, html, "cum-button")
	assert.Contains(t, html, "button:Click")

	html = e.Render("-# small note")
	assert.NotContains(t, html, "cum-subtext")
	assert.Contains(t, html, "-# small note")

	html = e.Render(":::alert warning\ncareful\n:::")
	assert.NotContains(t, html, "cum-alert")
	assert.Contains(t, html, ":::alert warning")
}
