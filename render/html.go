package render

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/revkit/revkit"
	"github.com/revkit/revkit/format"
)

// HTML renders blocks to HTML fragments. Model text is escaped before inline
// emphasis is resolved, and every fragment is passed through a bluemonday
// policy before it is returned.
type HTML struct {
	policy *bluemonday.Policy
	body   *format.BodyRenderer
}

// NewHTML creates an HTML renderer with a user-generated-content policy that
// also keeps class attributes.
func NewHTML() *HTML {
	policy := bluemonday.UGCPolicy()
	policy.AllowStyling()
	return &HTML{
		policy: policy,
		body:   format.NewBodyRenderer().WithInline(format.RawInline),
	}
}

// WithPolicy replaces the sanitizing policy. Returns self for chaining.
func (h *HTML) WithPolicy(p *bluemonday.Policy) *HTML {
	h.policy = p
	return h
}

// Blocks renders blocks to a sanitized fragment. Block text is escaped, so the
// blocks should hold raw Markdown, as produced with format.RawInline.
func (h *HTML) Blocks(blocks []revkit.Block) string {
	var sb strings.Builder
	h.writeBlocks(&sb, blocks)
	return h.policy.Sanitize(sb.String())
}

// Body classifies a section body and renders it.
func (h *HTML) Body(body string) string {
	return h.Blocks(h.body.Render(body))
}

// Sections renders each section as a <section> with an <h2> heading.
func (h *HTML) Sections(sections []revkit.Section) string {
	var sb strings.Builder
	for _, s := range sections {
		sb.WriteString(`<section class="report-section">`)
		sb.WriteString("<h2>" + html.EscapeString(s.Title) + "</h2>")
		sb.WriteString(`<div class="section-body">`)
		h.writeBlocks(&sb, h.body.Render(s.Body))
		sb.WriteString("</div></section>\n")
	}
	return h.policy.Sanitize(sb.String())
}

// text escapes s and resolves its emphasis markers.
func (h *HTML) text(s string) string {
	return format.HTMLInline.Resolve(html.EscapeString(s))
}

func (h *HTML) writeBlocks(sb *strings.Builder, blocks []revkit.Block) {
	for _, b := range blocks {
		switch b := b.(type) {
		case revkit.Paragraph:
			sb.WriteString(`<p class="paragraph">` + h.text(b.Text) + "</p>")

		case revkit.BulletList:
			sb.WriteString(`<ul class="bullets">`)
			for _, item := range b.Items {
				sb.WriteString("<li>" + h.text(item) + "</li>")
			}
			sb.WriteString("</ul>")

		case revkit.KeyValueList:
			sb.WriteString(`<dl class="facts">`)
			for _, p := range b.Pairs {
				sb.WriteString("<div><dt>" + html.EscapeString(p.Label) + "</dt>")
				sb.WriteString("<dd>" + h.text(p.DisplayValue()) + "</dd></div>")
			}
			sb.WriteString("</dl>")

		case revkit.Table:
			sb.WriteString(`<div class="table-wrap"><table><thead><tr>`)
			for _, header := range b.Headers {
				sb.WriteString("<th>" + html.EscapeString(header) + "</th>")
			}
			sb.WriteString("</tr></thead><tbody>")
			for _, row := range b.Grid() {
				sb.WriteString("<tr>")
				for _, cell := range row {
					sb.WriteString("<td>" + h.text(cell) + "</td>")
				}
				sb.WriteString("</tr>")
			}
			sb.WriteString("</tbody></table></div>")

		case revkit.Subheading:
			sb.WriteString("<h3>" + html.EscapeString(b.Text) + "</h3>")
		}
		sb.WriteString("\n")
	}
}

var documentTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #374151; line-height: 1.6; }
h1 { color: #111827; }
h2 { border-bottom: 1px solid #e5e7eb; padding-bottom: .25rem; }
.paragraph { background: #f9fafb; border: 1px solid #e5e7eb; border-radius: 6px; padding: .75rem 1rem; }
.facts { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 1rem; }
.facts div { border: 1px solid #e5e7eb; border-radius: 8px; padding: .75rem 1rem; }
.facts dt { font-size: .75rem; text-transform: uppercase; letter-spacing: .05em; color: #2563eb; font-weight: 600; }
.facts dd { margin: 0; }
.table-wrap { overflow-x: auto; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #e5e7eb; padding: .5rem .75rem; text-align: left; vertical-align: top; }
th { background: #f9fafb; font-size: .75rem; text-transform: uppercase; }
code { background: #f3f4f6; padding: 0 .25rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

// Document wraps rendered sections in a standalone HTML page.
func (h *HTML) Document(title string, sections []revkit.Section) (string, error) {
	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		// Sections output has already been sanitized.
		Body: template.HTML(h.Sections(sections)),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
