package format

import (
	"strings"

	"github.com/revkit/revkit"
)

// headingPrefix marks a section heading. "### " does not match because its
// third byte is '#', not ' '.
const headingPrefix = "## "

// Sections splits a streamed Markdown buffer into sections at "## " headings.
//
// It is a pure function of buf: call it with the whole buffer after every
// appended chunk. Sections that are already closed by a later heading are
// reproduced identically no matter how the stream was chunked.
//
// Example input:
//
//	# Prospect Research: Stripe
//	## 🏢 Company Snapshot
//	- **HQ:** San Francisco
//	## 📚 Sources
//	[1] ...
//
// yields two sections; the "# Prospect Research" line comes before the first
// heading and is discarded.
func Sections(buf string) []revkit.Section {
	var (
		sections []revkit.Section
		current  *revkit.Section
		body     strings.Builder
	)

	closeCurrent := func() {
		if current == nil {
			return
		}
		current.Body = body.String()
		sections = append(sections, *current)
		body.Reset()
	}

	rest := buf
	for rest != "" {
		line, terminated := rest, false
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest, terminated = rest[:i], rest[i+1:], true
		} else {
			rest = ""
		}
		line = strings.TrimSuffix(line, "\r")

		if title, ok := headingTitle(line); ok {
			closeCurrent()
			current = &revkit.Section{Title: title}
			continue
		}
		if current == nil {
			continue
		}
		body.WriteString(line)
		if terminated {
			body.WriteByte('\n')
		}
	}
	closeCurrent()

	return sections
}

// headingTitle reports whether line is a "## Title" heading and returns the
// trimmed title.
func headingTitle(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, headingPrefix) {
		return "", false
	}
	title := strings.TrimSpace(trimmed[len(headingPrefix):])
	if title == "" {
		return "", false
	}
	return title, true
}
