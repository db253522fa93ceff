package format

import (
	"regexp"
	"strings"

	"github.com/revkit/revkit"
)

var (
	// |---|:--:|  (every cell is dashes with optional alignment colons)
	separatorPattern = regexp.MustCompile(`^(\|\s*:?-+:?\s*)+\|$`)

	// **Label**: Value, **Label** - Value, **Label** – Value
	pairOutsidePattern = regexp.MustCompile(`^\*\*(.+?)\*\*\s*[:\-–]\s*(.*)$`)

	// **Label:** Value (separator inside the bold span)
	pairInsidePattern = regexp.MustCompile(`^\*\*([^*]+?)\s*[:\-–]\s*\*\*\s*(.*)$`)

	bulletMarkerPattern  = regexp.MustCompile(`^-+\s*`)
	subheadMarkerPattern = regexp.MustCompile(`^###\s*`)
)

// BodyRenderer classifies a section body into blocks.
// The zero value is not usable; create one with NewBodyRenderer.
type BodyRenderer struct {
	inline Inline
}

// NewBodyRenderer creates a renderer that resolves inline emphasis to HTML.
func NewBodyRenderer() *BodyRenderer {
	return &BodyRenderer{inline: HTMLInline}
}

// WithInline sets the inline emphasis target for paragraphs and bullet items.
// Returns self for chaining.
func (r *BodyRenderer) WithInline(inline Inline) *BodyRenderer {
	r.inline = inline
	return r
}

// Inline returns the inline emphasis target, for renderers that resolve table
// cells at display time.
func (r *BodyRenderer) Inline() Inline {
	return r.inline
}

// Render is NewBodyRenderer().Render(body).
func Render(body string) []revkit.Block {
	return NewBodyRenderer().Render(body)
}

// Render classifies body line by line. Consecutive "- " lines and consecutive
// "|...|" lines are grouped; a blank line or a change of line type closes the
// group. It never fails: input that cannot be classified degrades to fewer
// blocks (a table without a separator row disappears).
func (r *BodyRenderer) Render(body string) []revkit.Block {
	b := &bodyBuilder{inline: r.inline}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			b.flushList()
			b.flushTable()

		case strings.HasPrefix(trimmed, "### "):
			b.flushList()
			b.flushTable()
			text := strings.TrimSpace(subheadMarkerPattern.ReplaceAllString(trimmed, ""))
			b.blocks = append(b.blocks, revkit.Subheading{Text: text})

		case strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|"):
			b.flushList()
			b.table = append(b.table, trimmed)

		case strings.HasPrefix(trimmed, "- "):
			b.flushTable()
			b.list = append(b.list, bulletMarkerPattern.ReplaceAllString(trimmed, ""))

		default:
			b.flushTable()
			b.flushList()
			b.blocks = append(b.blocks, revkit.Paragraph{Text: r.inline.Resolve(trimmed)})
		}
	}
	b.flushList()
	b.flushTable()

	return b.blocks
}

// bodyBuilder holds the pending list and table lines of one Render call.
type bodyBuilder struct {
	inline Inline
	blocks []revkit.Block
	list   []string
	table  []string
}

func (b *bodyBuilder) flushList() {
	if len(b.list) == 0 {
		return
	}
	items := b.list
	b.list = nil

	if pairs, ok := keyValuePairs(items); ok {
		b.blocks = append(b.blocks, revkit.KeyValueList{Pairs: pairs})
		return
	}

	resolved := make([]string, len(items))
	for i, item := range items {
		resolved[i] = b.inline.Resolve(item)
	}
	b.blocks = append(b.blocks, revkit.BulletList{Items: resolved})
}

func (b *bodyBuilder) flushTable() {
	if len(b.table) == 0 {
		return
	}
	lines := b.table
	b.table = nil

	if table, ok := parseTable(lines); ok {
		b.blocks = append(b.blocks, table)
	}
}

// keyValuePairs returns the pairs when every item is a bold label followed by
// a separator and a value.
func keyValuePairs(items []string) ([]revkit.Pair, bool) {
	pairs := make([]revkit.Pair, 0, len(items))
	for _, item := range items {
		pair, ok := parsePair(item)
		if !ok {
			return nil, false
		}
		pairs = append(pairs, pair)
	}
	return pairs, true
}

func parsePair(item string) (revkit.Pair, bool) {
	for _, p := range []*regexp.Regexp{pairInsidePattern, pairOutsidePattern} {
		if m := p.FindStringSubmatch(item); m != nil {
			return revkit.Pair{
				Label: strings.TrimSpace(m[1]),
				Value: strings.TrimSpace(m[2]),
			}, true
		}
	}
	return revkit.Pair{}, false
}

// parseTable builds a table from buffered pipe lines. It needs a header line, a
// separator line and at least one row with a non-empty cell.
func parseTable(lines []string) (revkit.Table, bool) {
	if len(lines) < 2 || !separatorPattern.MatchString(strings.TrimSpace(lines[1])) {
		return revkit.Table{}, false
	}

	headers := splitRow(lines[0])

	var rows [][]string
	for _, line := range lines[2:] {
		cells := splitRow(line)
		if hasContent(cells) {
			rows = append(rows, cells)
		}
	}

	if len(headers) == 0 || len(rows) == 0 {
		return revkit.Table{}, false
	}
	return revkit.Table{Headers: headers, Rows: rows}, true
}

// splitRow splits "| a | b |" into ["a", "b"], dropping the empty pieces
// outside the outer pipes.
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return nil
	}
	parts = parts[1 : len(parts)-1]
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func hasContent(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
