package chat

import (
	"html"
	"regexp"
	"strings"
)

// The bot speaks a small fixed markdown subset. Escaping must run
// before any substitution so message content can never inject markup.
var (
	boldDouble = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldSingle = regexp.MustCompile(`\*(.*?)\*`)
	italic     = regexp.MustCompile(`_(.*?)_`)
	bulletLead = regexp.MustCompile(`(?m)^([•●○▪▫])`)
)

// RenderContent escapes raw message content and applies the markdown
// subset: **x** and *x* both bold (a long-standing storefront quirk),
// _x_ italic, newlines, leading bullet glyphs.
func RenderContent(content string) string {
	h := html.EscapeString(content)

	h = boldDouble.ReplaceAllString(h, "<strong>$1</strong>")
	h = boldSingle.ReplaceAllString(h, "<strong>$1</strong>")
	h = italic.ReplaceAllString(h, "<em>$1</em>")
	h = strings.ReplaceAll(h, "\n", "<br>")
	h = bulletLead.ReplaceAllString(h, `<span style="color: #667eea;">$1</span>`)

	return h
}
