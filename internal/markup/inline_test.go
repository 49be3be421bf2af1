package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kinds flattens the top-level kinds of a token list.
func kinds(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Kind)
	}
	return out
}

func TestInlineEmphasis(t *testing.T) {
	p := testParser(t)

	testCases := []struct {
		name  string
		input string
		kind  string
		inner string
	}{
		{"strong asterisk", "**bold**", KindStrong, "bold"},
		{"strong underscore", "__bold__", KindStrong, "bold"},
		{"em asterisk", "*italic*", KindEmphasis, "italic"},
		{"em underscore", "_italic_", KindEmphasis, "italic"},
		{"strike", "~~gone~~", KindStrike, "gone"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := p.ParseInline(tc.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tc.kind, tokens[0].Kind)
			require.Len(t, tokens[0].Children, 1)
			assert.Equal(t, tc.inner, tokens[0].Children[0].Raw)
		})
	}
}

func TestInlineMixedEmphasis(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("**bold** and *italic*")
	assert.Equal(t, []string{KindStrong, KindText, KindEmphasis}, kinds(tokens))
}

func TestNestedEmphasis(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("**bold _and italic_**")
	require.Len(t, tokens, 1)
	require.Equal(t, KindStrong, tokens[0].Kind)
	inner := tokens[0].Children
	require.Len(t, inner, 2)
	assert.Equal(t, KindText, inner[0].Kind)
	assert.Equal(t, KindEmphasis, inner[1].Kind)
}

func TestLooseAsterisksStayLiteral(t *testing.T) {
	p := testParser(t)

	for _, input := range []string{"2 * 3 * 4", "a ** b", "*", "**"} {
		t.Run(input, func(t *testing.T) {
			tokens := p.ParseInline(input)
			require.Len(t, tokens, 1)
			assert.Equal(t, KindText, tokens[0].Kind)
			assert.Equal(t, input, tokens[0].Raw)
		})
	}
}

func TestInlineCodeSpan(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("use `go build` here")
	require.Len(t, tokens, 3)
	assert.Equal(t, KindCodeSpan, tokens[1].Kind)
	assert.Equal(t, "go build", tokens[1].Raw)
}

func TestCodeSpanDoubleBacktick(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("`` code with ` inside ``")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindCodeSpan, tokens[0].Kind)
	assert.Equal(t, "code with ` inside", tokens[0].Raw)
}

func TestCodeSpanProtectsMarkup(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("`**not bold**`")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindCodeSpan, tokens[0].Kind)
	assert.Equal(t, "**not bold**", tokens[0].Raw)
}

func TestUnclosedBacktickIsLiteral(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("a ` b")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindText, tokens[0].Kind)
}

func TestInlineLink(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("[docs](https://example.com)")
	require.Len(t, tokens, 1)
	tok := tokens[0]
	assert.Equal(t, KindLink, tok.Kind)
	assert.Equal(t, "https://example.com", tok.Attrs.URL)
	require.Len(t, tok.Children, 1)
	assert.Equal(t, "docs", tok.Children[0].Raw)
}

func TestInlineLinkWithTitle(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline(`[docs](https://example.com "the title")`)
	require.Len(t, tokens, 1)
	assert.Equal(t, "https://example.com", tokens[0].Attrs.URL)
	assert.Equal(t, "the title", tokens[0].Attrs.Title)
}

func TestInlineImage(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("![logo](https://example.com/x.png)")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindImage, tokens[0].Kind)
	assert.Equal(t, "https://example.com/x.png", tokens[0].Attrs.URL)
	assert.Equal(t, "logo", tokens[0].Attrs.Alt)
}

func TestMalformedLinkStaysLiteral(t *testing.T) {
	p := testParser(t)

	for _, input := range []string{"[text](unclosed", "[text]no-paren", "[unclosed"} {
		t.Run(input, func(t *testing.T) {
			tokens := p.ParseInline(input)
			require.NotEmpty(t, tokens)
			for _, tok := range tokens {
				assert.Equal(t, KindText, tok.Kind)
			}
		})
	}
}

func TestBackslashEscapes(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline(`\*not emphasis\*`)
	require.Len(t, tokens, 1)
	assert.Equal(t, KindText, tokens[0].Kind)
	assert.Equal(t, "*not emphasis*", tokens[0].Raw)
}

func TestHardBreak(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("line one  \nline two")
	assert.Equal(t, []string{KindText, KindHardBreak, KindText}, kinds(tokens))

	tokens = p.ParseInline("line one\\\nline two")
	assert.Equal(t, []string{KindText, KindHardBreak, KindText}, kinds(tokens))
}

func TestUnicodeLiteralText(t *testing.T) {
	p := testParser(t)

	tokens := p.ParseInline("héllo wörld ✨")
	require.Len(t, tokens, 1)
	assert.Equal(t, "héllo wörld ✨", tokens[0].Raw)
}
