package format

import (
	"regexp"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	codePattern   = regexp.MustCompile("`([^`]+)`")
)

// Inline resolves the three inline emphasis markers a report uses: **bold**,
// *italic* and `code`. Each field wraps the marker's inner text; the passes run
// in that fixed order, each on the previous pass's output, so the italic pass
// never sees a "**" that the bold pass has already consumed.
type Inline struct {
	Bold   func(string) string
	Italic func(string) string
	Code   func(string) string
}

// HTMLInline produces the <strong>, <em> and <code> markup the toolkit pages
// render. It does not escape: resolve html.EscapeString(text), which leaves
// the markers intact, as render.HTML does.
var HTMLInline = Inline{
	Bold:   func(s string) string { return "<strong>" + s + "</strong>" },
	Italic: func(s string) string { return "<em>" + s + "</em>" },
	Code:   func(s string) string { return "<code>" + s + "</code>" },
}

// RawInline resolves nothing, so blocks keep their markers for renderers that
// resolve emphasis at display time.
var RawInline = Inline{}

// PlainInline strips the markers and keeps the text.
var PlainInline = Inline{
	Bold:   func(s string) string { return s },
	Italic: func(s string) string { return s },
	Code:   func(s string) string { return s },
}

// Resolve applies the emphasis passes to text. When no marker matched, text is
// returned unchanged.
func (in Inline) Resolve(text string) string {
	out, matched := text, false
	passes := []struct {
		pattern *regexp.Regexp
		wrap    func(string) string
	}{
		{boldPattern, in.Bold},
		{italicPattern, in.Italic},
		{codePattern, in.Code},
	}
	for _, p := range passes {
		if p.wrap == nil {
			continue
		}
		out = p.pattern.ReplaceAllStringFunc(out, func(m string) string {
			matched = true
			return p.wrap(p.pattern.FindStringSubmatch(m)[1])
		})
	}
	if !matched {
		return text
	}
	return out
}
