package docforge

import (
	"fmt"
	"strings"
)

// Builder turns semantic intent ("a status cell", "a section heading") into
// model nodes styled from one Styles value. Paragraph builders cannot fail
// because the presets are checked once in NewBuilder.
type Builder struct {
	styles    Styles
	numbering *NumberingRegistry
}

// NewBuilder validates styles and binds the registry lists are declared in
func NewBuilder(styles Styles, numbering *NumberingRegistry) (*Builder, error) {
	if err := styles.validate(); err != nil {
		return nil, err
	}
	if numbering == nil {
		numbering = NewNumberingRegistry()
	}
	return &Builder{styles: styles, numbering: numbering}, nil
}

// Styles returns the builder's style registry
func (b *Builder) Styles() Styles { return b.styles }

// Numbering returns the registry the builder declares lists in
func (b *Builder) Numbering() *NumberingRegistry { return b.numbering }

// TextOptions tweak a body paragraph
type TextOptions struct {
	Bold   bool
	Italic bool
	// NoSpace drops the spacing after the paragraph
	NoSpace bool
}

// RunOptions are applied on top of a preset
type RunOptions struct {
	Bold   bool
	Italic bool
	Color  Color
}

// Run creates a run in preset with opts applied
func (b *Builder) Run(text string, preset TextStyle, opts RunOptions) TextRun {
	style := preset
	if opts.Bold {
		style.Bold = true
	}
	if opts.Italic {
		style.Italic = true
	}
	if opts.Color != "" {
		style.Color = opts.Color
	}
	return TextRun{kind: runText, text: text, style: style}
}

func (b *Builder) run(text string, style TextStyle) TextRun {
	return TextRun{kind: runText, text: text, style: style}
}

// Title is the large centered line at the top of a report
func (b *Builder) Title(text string) Paragraph {
	return newParagraph(ParagraphProps{
		Alignment:     AlignCenter,
		SpacingBefore: b.styles.TitleSpacing.Before,
		SpacingAfter:  b.styles.TitleSpacing.After,
	}, b.run(text, b.styles.Text.Title))
}

// Subtitle is the centered line under the title
func (b *Builder) Subtitle(text string) Paragraph {
	return newParagraph(ParagraphProps{
		Alignment:     AlignCenter,
		SpacingBefore: b.styles.TitleSpacing.Before,
		SpacingAfter:  b.styles.TitleSpacing.After,
	}, b.run(text, b.styles.Text.Subtitle))
}

// Note is the small centered line closing the title block
func (b *Builder) Note(text string) Paragraph {
	return newParagraph(ParagraphProps{
		Alignment:     AlignCenter,
		SpacingBefore: b.styles.NoteSpacing.Before,
		SpacingAfter:  b.styles.NoteSpacing.After,
	}, b.run(text, b.styles.Text.Note))
}

// Caption is a centered muted italic line, e.g. an end note
func (b *Builder) Caption(text string) Paragraph {
	return newParagraph(ParagraphProps{
		Alignment:    AlignCenter,
		SpacingAfter: b.styles.BodyAfter,
	}, b.run(text, b.styles.Text.Caption))
}

// SectionHeading is a level 1 heading
func (b *Builder) SectionHeading(text string) Paragraph {
	return newParagraph(ParagraphProps{
		Heading:       1,
		SpacingBefore: b.styles.Heading1Spacing.Before,
		SpacingAfter:  b.styles.Heading1Spacing.After,
		KeepNext:      true,
	}, b.run(text, b.styles.Text.Heading1))
}

// SubHeading is a level 2 heading
func (b *Builder) SubHeading(text string) Paragraph {
	return newParagraph(ParagraphProps{
		Heading:       2,
		SpacingBefore: b.styles.Heading2Spacing.Before,
		SpacingAfter:  b.styles.Heading2Spacing.After,
		KeepNext:      true,
	}, b.run(text, b.styles.Text.Heading2))
}

// BodyText is a paragraph of body text
func (b *Builder) BodyText(text string, opts TextOptions) Paragraph {
	after := b.styles.BodyAfter
	if opts.NoSpace {
		after = 0
	}
	style := b.styles.Text.Body.WithBold(opts.Bold).WithItalic(opts.Italic)
	return newParagraph(ParagraphProps{SpacingAfter: after}, b.run(text, style))
}

// RichText is a body paragraph made of caller-built runs
func (b *Builder) RichText(runs ...TextRun) Paragraph {
	return newParagraph(ParagraphProps{SpacingAfter: b.styles.BodyAfter}, runs...)
}

// Spacer is an empty paragraph; after <= 0 uses the registry's spacer gap
func (b *Builder) Spacer(after Twips) Paragraph {
	if after <= 0 {
		after = b.styles.SpacerAfter
	}
	return newParagraph(ParagraphProps{SpacingAfter: after})
}

// NewBulletList declares a fresh bullet list and returns its id
func (b *Builder) NewBulletList() (string, error) {
	return b.numbering.NewList(ListBullet)
}

// NewNumberedList declares a fresh decimal list and returns its id
func (b *Builder) NewNumberedList() (string, error) {
	return b.numbering.NewList(ListDecimal)
}

// BulletItem is a body-text list item in listID at the top level
func (b *Builder) BulletItem(text, listID string) Paragraph {
	return b.ListItem(text, listID, 0)
}

// ListItem is a body-text list item in listID at level
func (b *Builder) ListItem(text, listID string, level int) Paragraph {
	return b.RichBulletAt(listID, level, b.run(text, b.styles.Text.Body))
}

// RichBullet is a top-level list item made of caller-built runs
func (b *Builder) RichBullet(listID string, runs ...TextRun) Paragraph {
	return b.RichBulletAt(listID, 0, runs...)
}

// RichBulletAt is a list item made of caller-built runs at level
func (b *Builder) RichBulletAt(listID string, level int, runs ...TextRun) Paragraph {
	return newParagraph(ParagraphProps{
		SpacingAfter: b.styles.BulletAfter,
		Numbering:    &NumberingRef{ListID: listID, Level: level},
	}, runs...)
}

// LabeledBullet is a list item with a bold label followed by detail text
func (b *Builder) LabeledBullet(label, detail, listID string) Paragraph {
	body := b.styles.Text.Body
	return b.RichBullet(listID, b.run(label, body.WithBold(true)), b.run(detail, body))
}

// CellOptions tweak a body cell
type CellOptions struct {
	Bold  bool
	Color Color
	Fill  Color
	Align Alignment
}

func (b *Builder) cell(width Twips, fill Color, align Alignment, runs ...TextRun) (TableCell, error) {
	margins := b.styles.CellMargins
	p := newParagraph(ParagraphProps{Alignment: align}, runs...)
	return NewTableCell(CellProps{
		Width:         width,
		Borders:       AllBorders(b.styles.CellBorder),
		Shading:       fill,
		Margins:       &margins,
		VerticalAlign: VAlignCenter,
	}, p)
}

// HeaderCell is a bold white-on-primary table header cell
func (b *Builder) HeaderCell(text string, width Twips) (TableCell, error) {
	return b.cell(width, b.styles.Palette.Primary, "", b.run(text, b.styles.Text.TableHeader))
}

// Cell is a body table cell
func (b *Builder) Cell(text string, width Twips, opts CellOptions) (TableCell, error) {
	style := b.styles.Text.TableCell.WithBold(opts.Bold)
	if opts.Color != "" {
		style.Color = opts.Color
	}
	return b.cell(width, opts.Fill, opts.Align, b.run(text, style))
}

// StatusCell is a centered bold cell colored by StatusColors
func (b *Builder) StatusCell(text string, width Twips) (TableCell, error) {
	bg, fg := b.StatusColors(text)
	style := b.styles.Text.TableCell.WithBold(true).WithColor(fg)
	return b.cell(width, bg, AlignCenter, b.run(text, style))
}

// StatusColors maps a status to its (background, foreground) pair.
// It is total: any text other than DONE, PENDING or BLOCKED is neutral.
func (b *Builder) StatusColors(text string) (bg, fg Color) {
	return b.styles.Palette.StatusColors(ParseStatus(text))
}

// DataTable assembles a header row and body rows. statusColumn selects the
// column rendered with StatusCell, or -1 for none. The table width is the
// sum of columnWidths. With no columnWidths the registry's TableWidth is
// split evenly across the header (or first row) cells.
func (b *Builder) DataTable(columnWidths []Twips, header []string, rows [][]string, statusColumn int) (Table, error) {
	if len(columnWidths) == 0 {
		n := len(header)
		if n == 0 && len(rows) > 0 {
			n = len(rows[0])
		}
		columnWidths = EvenColumns(b.styles.TableWidth, n)
	}

	var width Twips
	for _, w := range columnWidths {
		width += w
	}

	var tableRows []TableRow
	hasHeader := len(header) > 0
	if hasHeader {
		if len(header) != len(columnWidths) {
			return Table{}, NewShapeMismatchError(0, -1, "header has %d cells, table has %d columns", len(header), len(columnWidths))
		}
		cells := make([]TableCell, len(header))
		for i, text := range header {
			c, err := b.HeaderCell(text, columnWidths[i])
			if err != nil {
				return Table{}, fmt.Errorf("header cell %d: %w", i, err)
			}
			cells[i] = c
		}
		row, err := NewTableRow(cells...)
		if err != nil {
			return Table{}, err
		}
		tableRows = append(tableRows, row)
	}

	for ri, values := range rows {
		index := len(tableRows)
		if len(values) != len(columnWidths) {
			return Table{}, NewShapeMismatchError(index, -1, "row has %d cells, table has %d columns", len(values), len(columnWidths))
		}
		cells := make([]TableCell, len(values))
		for ci, text := range values {
			var c TableCell
			var err error
			if ci == statusColumn {
				c, err = b.StatusCell(text, columnWidths[ci])
			} else {
				c, err = b.Cell(text, columnWidths[ci], CellOptions{})
			}
			if err != nil {
				return Table{}, fmt.Errorf("row %d, cell %d: %w", ri, ci, err)
			}
			cells[ci] = c
		}
		row, err := NewTableRow(cells...)
		if err != nil {
			return Table{}, err
		}
		tableRows = append(tableRows, row)
	}

	t, err := NewTable(width, columnWidths, tableRows...)
	if err != nil {
		return Table{}, err
	}
	return t.WithProps(TableProps{HeaderRow: hasHeader}), nil
}

// EvenColumns splits total into n column widths; the last column takes the
// remainder so the widths sum to total exactly.
func EvenColumns(total Twips, n int) []Twips {
	if n <= 0 || total <= 0 {
		return nil
	}
	widths := make([]Twips, n)
	each := total / Twips(n)
	for i := range widths {
		widths[i] = each
	}
	widths[n-1] += total - each*Twips(n)
	return widths
}

// RunningHeader is a right-aligned italic line on every page
func (b *Builder) RunningHeader(text string) *Header {
	return NewHeader(newParagraph(ParagraphProps{Alignment: AlignRight},
		b.run(text, b.styles.Text.HeaderText)))
}

// PageFooter is a centered line of prefix followed by the page number
func (b *Builder) PageFooter(prefix string) *Footer {
	style := b.styles.Text.FooterText
	runs := []TextRun{{kind: runPageNumber, style: style}}
	if prefix != "" {
		runs = append([]TextRun{b.run(prefix, style)}, runs...)
	}
	return NewFooter(newParagraph(ParagraphProps{Alignment: AlignCenter}, runs...))
}

// PageBreak starts the next block on a new page
func (b *Builder) PageBreak() Block {
	return PageBreak{}
}

// Status is the closed set of states a status cell distinguishes
type Status int

const (
	StatusOther Status = iota
	StatusDone
	StatusPending
	StatusBlocked
)

// ParseStatus recognizes exactly DONE, PENDING and BLOCKED; everything else is StatusOther
func ParseStatus(text string) Status {
	switch text {
	case "DONE":
		return StatusDone
	case "PENDING":
		return StatusPending
	case "BLOCKED":
		return StatusBlocked
	}
	return StatusOther
}

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "DONE"
	case StatusPending:
		return "PENDING"
	case StatusBlocked:
		return "BLOCKED"
	}
	return "OTHER"
}

// StatusColors returns the (background, foreground) pair for a status
func (p Palette) StatusColors(s Status) (bg, fg Color) {
	switch s {
	case StatusDone:
		return p.SuccessBg, p.SuccessFg
	case StatusPending:
		return p.WarningBg, p.WarningFg
	case StatusBlocked:
		return p.ErrorBg, p.ErrorFg
	}
	return p.NeutralBg, p.NeutralFg
}

// joinNonEmpty joins the non-blank parts with sep
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
