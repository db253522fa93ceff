package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/revkit/revkit"
	"github.com/revkit/revkit/format"
)

// Palette
var (
	ColorAccent = lipgloss.Color("#2563EB")
	ColorText   = lipgloss.Color("#374151")
	ColorMuted  = lipgloss.Color("#6B7280")
	ColorBorder = lipgloss.Color("#D1D5DB")
	ColorCode   = lipgloss.Color("#DB2777")
)

// Styles are the lipgloss styles Terminal draws with.
type Styles struct {
	Title      lipgloss.Style
	Subheading lipgloss.Style
	Paragraph  lipgloss.Style
	Bullet     lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
	Border     lipgloss.Style
	Muted      lipgloss.Style

	Bold   lipgloss.Style
	Italic lipgloss.Style
	Code   lipgloss.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).MarginTop(1),
		Subheading: lipgloss.NewStyle().Bold(true).Underline(true),
		Paragraph:  lipgloss.NewStyle().Foreground(ColorText),
		Bullet:     lipgloss.NewStyle().Foreground(ColorAccent),
		Label:      lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		Value:      lipgloss.NewStyle().Foreground(ColorText),
		Header:     lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:       lipgloss.NewStyle().Padding(0, 1),
		Border:     lipgloss.NewStyle().Foreground(ColorBorder),
		Muted:      lipgloss.NewStyle().Foreground(ColorMuted),
		Bold:       lipgloss.NewStyle().Bold(true),
		Italic:     lipgloss.NewStyle().Italic(true),
		Code:       lipgloss.NewStyle().Foreground(ColorCode),
	}
}

// Terminal renders sections and blocks as styled terminal text.
type Terminal struct {
	styles Styles
	width  int
	body   *format.BodyRenderer
}

// NewTerminal creates a Terminal with DefaultStyles and no width limit.
func NewTerminal() *Terminal {
	return (&Terminal{}).WithStyles(DefaultStyles())
}

// WithStyles replaces the styles. Returns self for chaining.
func (t *Terminal) WithStyles(s Styles) *Terminal {
	t.styles = s
	t.body = format.NewBodyRenderer().WithInline(t.Inline())
	return t
}

// WithWidth wraps paragraphs and tables to width columns. Zero disables
// wrapping.
func (t *Terminal) WithWidth(width int) *Terminal {
	t.width = width
	return t
}

// Styles returns the styles in use.
func (t *Terminal) Styles() Styles {
	return t.styles
}

// Inline returns the emphasis resolver that draws with the Bold, Italic and
// Code styles.
func (t *Terminal) Inline() format.Inline {
	return format.Inline{
		Bold:   styled(t.styles.Bold),
		Italic: styled(t.styles.Italic),
		Code:   styled(t.styles.Code),
	}
}

func styled(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

// Sections renders every section with its heading.
func (t *Terminal) Sections(sections []revkit.Section) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = t.Section(s)
	}
	return strings.Join(parts, "\n")
}

// Section renders a heading followed by the section's blocks.
func (t *Terminal) Section(s revkit.Section) string {
	title := t.styles.Title.Render(s.Title)
	body := t.Blocks(t.body.Render(s.Body))
	if body == "" {
		return title + "\n"
	}
	return title + "\n" + body
}

// Title renders a section heading on its own.
func (t *Terminal) Title(title string) string {
	return t.styles.Title.Render(title)
}

// Body classifies and renders a section body.
func (t *Terminal) Body(body string) string {
	return t.Blocks(t.body.Render(body))
}

// Blocks renders blocks separated by blank lines.
func (t *Terminal) Blocks(blocks []revkit.Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		var out string
		switch b := b.(type) {
		case revkit.Paragraph:
			out = t.paragraph(b)
		case revkit.BulletList:
			out = t.bullets(b)
		case revkit.KeyValueList:
			out = t.pairs(b)
		case revkit.Table:
			out = t.table(b)
		case revkit.Subheading:
			out = t.styles.Subheading.Render(b.Text)
		}
		if out == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(out)
	}
	if sb.Len() == 0 {
		return ""
	}
	sb.WriteString("\n")
	return sb.String()
}

func (t *Terminal) paragraph(p revkit.Paragraph) string {
	style := t.styles.Paragraph
	if t.width > 0 {
		style = style.Width(t.width)
	}
	return style.Render(p.Text)
}

func (t *Terminal) bullets(l revkit.BulletList) string {
	lines := make([]string, len(l.Items))
	for i, item := range l.Items {
		lines[i] = t.styles.Bullet.Render("•") + " " + t.styles.Paragraph.Render(item)
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) pairs(kv revkit.KeyValueList) string {
	labelWidth := 0
	for _, p := range kv.Pairs {
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
	}

	inline := t.Inline()
	label := t.styles.Label.Width(labelWidth + 2)
	lines := make([]string, len(kv.Pairs))
	for i, p := range kv.Pairs {
		lines[i] = label.Render(p.Label+":") + t.styles.Value.Render(inline.Resolve(p.DisplayValue()))
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) table(tbl revkit.Table) string {
	inline := t.Inline()

	headers := make([]string, len(tbl.Headers))
	for i, h := range tbl.Headers {
		headers[i] = inline.Resolve(h)
	}
	grid := tbl.Grid()
	for _, row := range grid {
		for j, cell := range row {
			row[j] = inline.Resolve(cell)
		}
	}

	tw := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.styles.Border).
		Headers(headers...).
		Rows(grid...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.Header
			}
			return t.styles.Cell
		})
	if t.width > 0 {
		tw = tw.Width(t.width)
	}
	return tw.String()
}
