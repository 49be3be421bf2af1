package markup

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	classPattern        = regexp.MustCompile(`^[a-zA-Z0-9\- ]+$`)
	anchorIDPattern     = regexp.MustCompile(`^[a-z0-9\-]+$`)
	ariaDisabledPattern = regexp.MustCompile(`^(true|false)$`)
	startPattern        = regexp.MustCompile(`^[0-9]+$`)
	targetPattern       = regexp.MustCompile(`^_blank$`)
	relPattern          = regexp.MustCompile(`^noopener noreferrer$`)
)

// newSanitizerPolicy builds the fixed allow-list applied to every
// rendered document before it leaves the engine. Anything outside the
// structural and formatting markup the renderer itself produces is
// stripped, including script tags, event-handler attributes, and
// non-http(s) URL schemes.
func newSanitizerPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr", "small",
		"strong", "em", "del",
		"code", "pre", "blockquote",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
		"a", "img", "span", "div",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("title").OnElements("a")
	p.AllowAttrs("target").Matching(targetPattern).OnElements("a")
	p.AllowAttrs("rel").Matching(relPattern).OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("id").Matching(anchorIDPattern).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(classPattern).OnElements("p", "a", "span", "div", "code")
	p.AllowAttrs("aria-disabled").Matching(ariaDisabledPattern).OnElements("a", "span")
	p.AllowAttrs("role").Matching(regexp.MustCompile(`^alert$`)).OnElements("div")
	p.AllowAttrs("start").Matching(startPattern).OnElements("ol")
	p.AllowStyles("text-align").MatchingEnum("left", "center", "right").OnElements("th", "td")

	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	// relative and fragment URLs stay usable for heading deep links;
	// javascript: and data: are schemes and remain blocked
	p.AllowRelativeURLs(true)

	return p
}
