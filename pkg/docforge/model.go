package docforge

import (
	"fmt"
	"strings"
)

// Alignment is the horizontal alignment of a paragraph. The zero value inherits.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// VerticalAlign is the vertical alignment of cell content. The zero value is top.
type VerticalAlign string

const (
	VAlignTop    VerticalAlign = "top"
	VAlignCenter VerticalAlign = "center"
	VAlignBottom VerticalAlign = "bottom"
)

type runKind int

const (
	runText runKind = iota
	runPageNumber
	runLineBreak
)

// TextRun is the atomic styled text unit of a paragraph
type TextRun struct {
	kind  runKind
	text  string
	style TextStyle
}

// NewTextRun creates a run of text in the given style
func NewTextRun(text string, style TextStyle) (TextRun, error) {
	if err := style.validate(); err != nil {
		return TextRun{}, err
	}
	return TextRun{kind: runText, text: text, style: style}, nil
}

// NewPageNumberRun creates a run showing the current page number
func NewPageNumberRun(style TextStyle) (TextRun, error) {
	if err := style.validate(); err != nil {
		return TextRun{}, err
	}
	return TextRun{kind: runPageNumber, style: style}, nil
}

// NewLineBreakRun creates a line break inside a paragraph
func NewLineBreakRun() TextRun {
	return TextRun{kind: runLineBreak}
}

func (r TextRun) Text() string { return r.text }

func (r TextRun) Style() TextStyle { return r.style }

func (r TextRun) IsPageNumber() bool { return r.kind == runPageNumber }

func (r TextRun) IsLineBreak() bool { return r.kind == runLineBreak }

// NumberingRef attaches a paragraph to a declared list at a level (0-based)
type NumberingRef struct {
	ListID string
	Level  int
}

// ParagraphProps are the paragraph-level formatting options
type ParagraphProps struct {
	Alignment     Alignment
	SpacingBefore Twips
	SpacingAfter  Twips
	// Heading is 0 for body text, 1 or 2 for headings
	Heading   int
	Numbering *NumberingRef
	KeepNext  bool
}

// Block is a body-level node: Paragraph, Table or PageBreak
type Block interface {
	isBlock()
}

// Paragraph is an ordered sequence of runs with paragraph formatting
type Paragraph struct {
	props ParagraphProps
	runs  []TextRun
}

func (Paragraph) isBlock() {}

// NewParagraph validates props and copies the runs
func NewParagraph(props ParagraphProps, runs ...TextRun) (Paragraph, error) {
	p := newParagraph(props, runs...)
	if err := p.validate(); err != nil {
		return Paragraph{}, err
	}
	return p, nil
}

func newParagraph(props ParagraphProps, runs ...TextRun) Paragraph {
	if props.Numbering != nil {
		ref := *props.Numbering
		props.Numbering = &ref
	}
	return Paragraph{props: props, runs: append([]TextRun(nil), runs...)}
}

func (p Paragraph) validate() error {
	if p.props.Heading < 0 || p.props.Heading > 2 {
		return NewInvalidValueError("heading level", p.props.Heading, "expected 0, 1 or 2")
	}
	if p.props.SpacingBefore < 0 || p.props.SpacingAfter < 0 {
		return NewInvalidValueError("paragraph spacing", [2]Twips{p.props.SpacingBefore, p.props.SpacingAfter}, "must not be negative")
	}
	switch p.props.Alignment {
	case "", AlignLeft, AlignCenter, AlignRight, AlignJustify:
	default:
		return NewInvalidValueError("alignment", p.props.Alignment, "unsupported alignment")
	}
	if ref := p.props.Numbering; ref != nil {
		if ref.ListID == "" {
			return NewInvalidValueError("numbering id", ref.ListID, "must not be empty")
		}
		if ref.Level < 0 || ref.Level >= MaxListLevels {
			return NewInvalidValueError("list level", ref.Level, fmt.Sprintf("expected 0 to %d", MaxListLevels-1))
		}
	}
	for i, r := range p.runs {
		if r.kind == runLineBreak {
			continue
		}
		if err := r.style.validate(); err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
	}
	return nil
}

// Props returns the paragraph properties
func (p Paragraph) Props() ParagraphProps {
	props := p.props
	if props.Numbering != nil {
		ref := *props.Numbering
		props.Numbering = &ref
	}
	return props
}

// Runs returns a copy of the paragraph's runs
func (p Paragraph) Runs() []TextRun {
	return append([]TextRun(nil), p.runs...)
}

// Text returns the concatenated run text; page number fields are omitted
func (p Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.runs {
		switch r.kind {
		case runText:
			sb.WriteString(r.text)
		case runLineBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// PageBreak starts the next block on a new page
type PageBreak struct{}

func (PageBreak) isBlock() {}

// CellProps are the formatting options of a table cell
type CellProps struct {
	Width   Twips
	Borders Borders
	// Shading is the background fill; empty means none
	Shading       Color
	Margins       *CellMargins
	VerticalAlign VerticalAlign
}

// TableCell holds paragraphs inside a table
type TableCell struct {
	props      CellProps
	paragraphs []Paragraph
}

// NewTableCell creates a cell. A cell without content gets one empty paragraph.
func NewTableCell(props CellProps, paragraphs ...Paragraph) (TableCell, error) {
	if props.Margins != nil {
		m := *props.Margins
		props.Margins = &m
	}
	c := TableCell{props: props, paragraphs: append([]Paragraph(nil), paragraphs...)}
	if len(c.paragraphs) == 0 {
		c.paragraphs = []Paragraph{{}}
	}
	if err := c.validate(); err != nil {
		return TableCell{}, err
	}
	return c, nil
}

func (c TableCell) validate() error {
	if c.props.Width <= 0 {
		return NewInvalidValueError("cell width", c.props.Width, "must be positive")
	}
	if c.props.Shading != "" && !c.props.Shading.Valid() {
		return NewInvalidValueError("cell shading", c.props.Shading, "expected six hex digits")
	}
	for _, b := range []Border{c.props.Borders.Top, c.props.Borders.Bottom, c.props.Borders.Left, c.props.Borders.Right} {
		if b.Style != "" && b.Color != "" && !b.Color.Valid() {
			return NewInvalidValueError("border color", b.Color, "expected six hex digits")
		}
		if b.Size < 0 {
			return NewInvalidValueError("border size", b.Size, "must not be negative")
		}
	}
	if m := c.props.Margins; m != nil && (m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0) {
		return NewInvalidValueError("cell margins", *m, "must not be negative")
	}
	switch c.props.VerticalAlign {
	case "", VAlignTop, VAlignCenter, VAlignBottom:
	default:
		return NewInvalidValueError("vertical alignment", c.props.VerticalAlign, "unsupported alignment")
	}
	for i, p := range c.paragraphs {
		if err := p.validate(); err != nil {
			return fmt.Errorf("paragraph %d: %w", i, err)
		}
	}
	return nil
}

func (c TableCell) Props() CellProps {
	props := c.props
	if props.Margins != nil {
		m := *props.Margins
		props.Margins = &m
	}
	return props
}

func (c TableCell) Paragraphs() []Paragraph {
	return append([]Paragraph(nil), c.paragraphs...)
}

// Text returns the cell's paragraph texts joined by newlines
func (c TableCell) Text() string {
	texts := make([]string, len(c.paragraphs))
	for i, p := range c.paragraphs {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// TableRow is an ordered sequence of cells
type TableRow struct {
	cells []TableCell
}

// NewTableRow creates a row; it needs at least one cell
func NewTableRow(cells ...TableCell) (TableRow, error) {
	if len(cells) == 0 {
		return TableRow{}, NewInvalidValueError("table row", 0, "a row needs at least one cell")
	}
	return TableRow{cells: append([]TableCell(nil), cells...)}, nil
}

func (r TableRow) Cells() []TableCell {
	return append([]TableCell(nil), r.cells...)
}

// TableProps are optional table-level settings
type TableProps struct {
	// HeaderRow repeats the first row at the top of every page the table spans
	HeaderRow bool
}

// Table is a grid of rows whose cells line up with the declared columns
type Table struct {
	width   Twips
	columns []Twips
	rows    []TableRow
	props   TableProps
}

func (Table) isBlock() {}

// widthTolerance absorbs rounding when column widths are derived from a total
const widthTolerance Twips = 1

// NewTable creates a table. Column widths must sum to width and every row
// must have one cell per column whose width matches the column.
func NewTable(width Twips, columnWidths []Twips, rows ...TableRow) (Table, error) {
	t := Table{
		width:   width,
		columns: append([]Twips(nil), columnWidths...),
		rows:    append([]TableRow(nil), rows...),
	}
	if err := t.validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// WithProps returns a copy of the table using props
func (t Table) WithProps(props TableProps) Table {
	t.props = props
	return t
}

func (t Table) validate() error {
	if len(t.columns) == 0 {
		return NewShapeMismatchError(-1, -1, "table has no columns")
	}
	if t.width <= 0 {
		return NewInvalidValueError("table width", t.width, "must be positive")
	}
	var sum Twips
	for i, w := range t.columns {
		if w <= 0 {
			return NewShapeMismatchError(-1, i, "column width %d must be positive", w)
		}
		sum += w
	}
	if abs(sum-t.width) > widthTolerance {
		return NewShapeMismatchError(-1, -1, "column widths sum to %d, table width is %d", sum, t.width)
	}
	for ri, row := range t.rows {
		if len(row.cells) != len(t.columns) {
			return NewShapeMismatchError(ri, -1, "row has %d cells, table has %d columns", len(row.cells), len(t.columns))
		}
		for ci, cell := range row.cells {
			if abs(cell.props.Width-t.columns[ci]) > widthTolerance {
				return NewShapeMismatchError(ri, ci, "cell width %d does not match column width %d", cell.props.Width, t.columns[ci])
			}
			if err := cell.validate(); err != nil {
				return fmt.Errorf("row %d, cell %d: %w", ri, ci, err)
			}
		}
	}
	return nil
}

func (t Table) Width() Twips { return t.width }

func (t Table) ColumnWidths() []Twips {
	return append([]Twips(nil), t.columns...)
}

func (t Table) Rows() []TableRow {
	return append([]TableRow(nil), t.rows...)
}

func (t Table) Props() TableProps { return t.props }

// Header is repeated at the top of every page of its section
type Header struct {
	paragraphs []Paragraph
}

// NewHeader creates a header from paragraphs
func NewHeader(paragraphs ...Paragraph) *Header {
	return &Header{paragraphs: append([]Paragraph(nil), paragraphs...)}
}

// Paragraphs returns a copy of the header content; nil for a nil header
func (h *Header) Paragraphs() []Paragraph {
	if h == nil {
		return nil
	}
	return append([]Paragraph(nil), h.paragraphs...)
}

// Footer is repeated at the bottom of every page of its section
type Footer struct {
	paragraphs []Paragraph
}

// NewFooter creates a footer from paragraphs
func NewFooter(paragraphs ...Paragraph) *Footer {
	return &Footer{paragraphs: append([]Paragraph(nil), paragraphs...)}
}

// Paragraphs returns a copy of the footer content; nil for a nil footer
func (f *Footer) Paragraphs() []Paragraph {
	if f == nil {
		return nil
	}
	return append([]Paragraph(nil), f.paragraphs...)
}

// SectionParts are the optional running parts of a section
type SectionParts struct {
	Header *Header
	Footer *Footer
}

// Section is a run of blocks sharing page geometry and running parts
type Section struct {
	geometry PageGeometry
	parts    SectionParts
	blocks   []Block
}

// NewSection validates the geometry and copies the blocks
func NewSection(geometry PageGeometry, parts SectionParts, blocks ...Block) (Section, error) {
	if err := geometry.validate(); err != nil {
		return Section{}, err
	}
	for i, b := range blocks {
		if b == nil {
			return Section{}, NewInvalidValueError("block", i, "nil block")
		}
	}
	return Section{geometry: geometry, parts: parts, blocks: append([]Block(nil), blocks...)}, nil
}

func (s Section) Geometry() PageGeometry { return s.geometry }

func (s Section) Header() *Header { return s.parts.Header }

func (s Section) Footer() *Footer { return s.parts.Footer }

func (s Section) Blocks() []Block {
	return append([]Block(nil), s.blocks...)
}

// DocumentInfo is written to the package's core properties
type DocumentInfo struct {
	Title       string
	Subject     string
	Creator     string
	Description string
}

// Document is the root of the tree: styles, numbering and sections
type Document struct {
	styles    Styles
	numbering []NumberingDefinition
	sections  []Section
	info      DocumentInfo
}

// NewDocument assembles a document and checks it as a whole. The numbering
// definitions are copied, so the registry may be discarded afterwards.
func NewDocument(styles Styles, numbering *NumberingRegistry, sections ...Section) (*Document, error) {
	if len(sections) == 0 {
		return nil, NewInvalidValueError("document", 0, "a document needs at least one section")
	}
	doc := &Document{
		styles:   styles,
		sections: append([]Section(nil), sections...),
	}
	if numbering != nil {
		doc.numbering = numbering.Definitions()
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// WithInfo returns a copy of the document carrying info
func (d *Document) WithInfo(info DocumentInfo) *Document {
	c := *d
	c.info = info
	return &c
}

func (d *Document) Styles() Styles { return d.styles }

func (d *Document) Info() DocumentInfo { return d.info }

func (d *Document) Numbering() []NumberingDefinition {
	return append([]NumberingDefinition(nil), d.numbering...)
}

func (d *Document) Sections() []Section {
	return append([]Section(nil), d.sections...)
}

// walkParagraphs visits every paragraph in document order with its location:
// section blocks (descending into table cells), then the section's header and footer.
func (d *Document) walkParagraphs(fn func(p Paragraph, location string)) {
	for si, s := range d.sections {
		for bi, b := range s.blocks {
			switch blk := b.(type) {
			case Paragraph:
				fn(blk, fmt.Sprintf("section %d, block %d", si, bi))
			case Table:
				for ri, row := range blk.rows {
					for ci, cell := range row.cells {
						for pi, p := range cell.paragraphs {
							fn(p, fmt.Sprintf("section %d, block %d, row %d, cell %d, paragraph %d", si, bi, ri, ci, pi))
						}
					}
				}
			}
		}
		if s.parts.Header != nil {
			for pi, p := range s.parts.Header.paragraphs {
				fn(p, fmt.Sprintf("section %d, header, paragraph %d", si, pi))
			}
		}
		if s.parts.Footer != nil {
			for pi, p := range s.parts.Footer.paragraphs {
				fn(p, fmt.Sprintf("section %d, footer, paragraph %d", si, pi))
			}
		}
	}
}

func abs(v Twips) Twips {
	if v < 0 {
		return -v
	}
	return v
}
