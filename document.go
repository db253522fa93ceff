package revkit

// Placeholder is displayed for empty key-value values and missing table cells.
const Placeholder = "—"

// Section is a titled chunk of a streamed report, delimited by "## " headings.
//
// Body is the text between the heading and the next heading (or the end of the
// buffer) exactly as streamed, with line endings normalized to "\n".
type Section struct {
	Title string
	Body  string
}

// BlockKind identifies the concrete type of a Block.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindBulletList
	KindKeyValueList
	KindTable
	KindSubheading
)

func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindBulletList:
		return "bullet_list"
	case KindKeyValueList:
		return "key_value_list"
	case KindTable:
		return "table"
	case KindSubheading:
		return "subheading"
	default:
		return "unknown"
	}
}

// Block is one classified unit of a section body. The concrete types are
// [Paragraph], [BulletList], [KeyValueList], [Table] and [Subheading]; use a
// type switch to render them.
type Block interface {
	Kind() BlockKind
	block()
}

// Paragraph is a single non-blank line of prose with inline emphasis resolved.
type Paragraph struct {
	Text string
}

// BulletList is a run of "- " items with inline emphasis resolved.
type BulletList struct {
	Items []string
}

// KeyValueList is a bullet list where every item was "**Label:** Value".
type KeyValueList struct {
	Pairs []Pair
}

// Pair is one label/value entry of a KeyValueList.
type Pair struct {
	Label string
	Value string
}

// DisplayValue returns Value, or [Placeholder] when it is empty.
func (p Pair) DisplayValue() string {
	if p.Value == "" {
		return Placeholder
	}
	return p.Value
}

// Table is a pipe table. Headers and cells are stored raw; inline emphasis is
// applied when the table is displayed.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Grid returns the data rows shaped to the header count. Missing trailing
// cells become [Placeholder]; cells beyond the last header are dropped.
func (t Table) Grid() [][]string {
	grid := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for j := range t.Headers {
			if j < len(row) {
				cells[j] = row[j]
			} else {
				cells[j] = Placeholder
			}
		}
		grid[i] = cells
	}
	return grid
}

// Subheading is a "### " line inside a section.
type Subheading struct {
	Text string
}

func (Paragraph) Kind() BlockKind    { return KindParagraph }
func (BulletList) Kind() BlockKind   { return KindBulletList }
func (KeyValueList) Kind() BlockKind { return KindKeyValueList }
func (Table) Kind() BlockKind        { return KindTable }
func (Subheading) Kind() BlockKind   { return KindSubheading }

func (Paragraph) block()    {}
func (BulletList) block()   {}
func (KeyValueList) block() {}
func (Table) block()        {}
func (Subheading) block()   {}
