package docforge

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Report is a JSON description of a business report. It is the content
// source the command line tool feeds into the builder.
type Report struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle,omitempty"`
	Note     string          `json:"note,omitempty"`
	Header   string          `json:"header,omitempty"`
	Footer   string          `json:"footer,omitempty"`
	Page     string          `json:"page,omitempty"`
	Info     DocumentInfo    `json:"info"`
	Sections []ReportSection `json:"sections"`
}

// ReportSection is one section of blocks
type ReportSection struct {
	Blocks []ReportBlock `json:"blocks"`
}

// ReportBlock is a tagged block; Kind selects which fields apply
type ReportBlock struct {
	Kind string `json:"kind"`

	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
	Bold    bool   `json:"bold,omitempty"`
	Italic  bool   `json:"italic,omitempty"`
	NoSpace bool   `json:"noSpace,omitempty"`

	Items []ReportItem `json:"items,omitempty"`

	Columns      []Twips    `json:"columns,omitempty"`
	HeaderRow    []string   `json:"header,omitempty"`
	Rows         [][]string `json:"rows,omitempty"`
	StatusColumn *int       `json:"statusColumn,omitempty"`

	After Twips `json:"after,omitempty"`
}

// ReportItem is one list entry; a label is rendered bold before the text
type ReportItem struct {
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
}

// LoadReport decodes a report description
func LoadReport(r io.Reader) (*Report, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var report Report
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	if len(report.Sections) == 0 {
		return nil, NewInvalidValueError("report sections", 0, "a report needs at least one section")
	}
	return &report, nil
}

// Build turns the report into a document. Every list block gets its own
// numbering definition.
func (r *Report) Build(styles Styles) (*Document, error) {
	registry := NewNumberingRegistry()
	b, err := NewBuilder(styles, registry)
	if err != nil {
		return nil, err
	}

	geometry, err := pageGeometry(r.Page)
	if err != nil {
		return nil, err
	}
	var parts SectionParts
	if r.Header != "" {
		parts.Header = b.RunningHeader(r.Header)
	}
	if r.Footer != "" {
		parts.Footer = b.PageFooter(r.Footer)
	}

	sections := make([]Section, 0, len(r.Sections))
	for si, rs := range r.Sections {
		var blocks []Block
		if si == 0 {
			if r.Title != "" {
				blocks = append(blocks, b.Title(r.Title))
			}
			if r.Subtitle != "" {
				blocks = append(blocks, b.Subtitle(r.Subtitle))
			}
			if r.Note != "" {
				blocks = append(blocks, b.Note(r.Note))
			}
		}
		for bi, rb := range rs.Blocks {
			built, err := rb.build(b)
			if err != nil {
				return nil, fmt.Errorf("section %d, block %d (%s): %w", si, bi, rb.Kind, err)
			}
			blocks = append(blocks, built...)
		}
		section, err := NewSection(geometry, parts, blocks...)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", si, err)
		}
		sections = append(sections, section)
	}

	doc, err := NewDocument(styles, registry, sections...)
	if err != nil {
		return nil, err
	}
	info := r.Info
	if info.Title == "" {
		info.Title = joinNonEmpty(": ", r.Title, r.Subtitle)
	}
	return doc.WithInfo(info), nil
}

func (rb ReportBlock) build(b *Builder) ([]Block, error) {
	switch strings.ToLower(rb.Kind) {
	case "heading":
		return []Block{b.SectionHeading(rb.Text)}, nil
	case "subheading":
		return []Block{b.SubHeading(rb.Text)}, nil
	case "text":
		return []Block{b.BodyText(rb.Text, TextOptions{Bold: rb.Bold, Italic: rb.Italic, NoSpace: rb.NoSpace})}, nil
	case "caption":
		return []Block{b.Caption(rb.Text)}, nil
	case "markup":
		p, err := b.Markup(rb.HTML)
		if err != nil {
			return nil, err
		}
		return []Block{p}, nil
	case "bullets", "numbered":
		var listID string
		var err error
		if strings.EqualFold(rb.Kind, "bullets") {
			listID, err = b.NewBulletList()
		} else {
			listID, err = b.NewNumberedList()
		}
		if err != nil {
			return nil, err
		}
		blocks := make([]Block, 0, len(rb.Items))
		body := b.Styles().Text.Body
		for _, item := range rb.Items {
			if item.Label != "" {
				blocks = append(blocks, b.RichBulletAt(listID, item.Level,
					b.Run(item.Label, body, RunOptions{Bold: true}),
					b.Run(item.Text, body, RunOptions{})))
				continue
			}
			blocks = append(blocks, b.ListItem(item.Text, listID, item.Level))
		}
		return blocks, nil
	case "table":
		status := -1
		if rb.StatusColumn != nil {
			status = *rb.StatusColumn
		}
		t, err := b.DataTable(rb.Columns, rb.HeaderRow, rb.Rows, status)
		if err != nil {
			return nil, err
		}
		return []Block{t}, nil
	case "pagebreak":
		return []Block{b.PageBreak()}, nil
	case "spacer":
		return []Block{b.Spacer(rb.After)}, nil
	}
	return nil, NewInvalidValueError("block kind", rb.Kind, "expected heading, subheading, text, caption, markup, bullets, numbered, table, pagebreak or spacer")
}

func pageGeometry(name string) (PageGeometry, error) {
	switch strings.ToLower(name) {
	case "", "letter":
		return LetterPortrait(), nil
	case "a4":
		return A4Portrait(), nil
	}
	return PageGeometry{}, NewInvalidValueError("page", name, "expected letter or a4")
}
