package docforge

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	wml "github.com/benjaminschreck/go-docforge/pkg/docforge/xml"
)

// zipEpoch is the modification time of every entry; the zip format cannot
// represent earlier dates.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// EncodeOption customizes a single Encode call
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	created     time.Time
	compression Compression
}

// WithCreated records t as the creation time in the core properties.
// Without it the package carries no timestamp and output is reproducible.
func WithCreated(t time.Time) EncodeOption {
	return func(o *encodeOptions) {
		o.created = t
	}
}

// WithCompression overrides the configured compression
func WithCompression(c Compression) EncodeOption {
	return func(o *encodeOptions) {
		o.compression = c
	}
}

// Encoder writes documents as DOCX containers
type Encoder struct {
	w   io.Writer
	cfg *Config
}

// NewEncoder returns an encoder writing to w. A nil cfg uses the global configuration.
func NewEncoder(w io.Writer, cfg *Config) *Encoder {
	return &Encoder{w: w, cfg: cfg}
}

// Encode validates doc and writes the complete container. Nothing is
// written to the underlying writer unless the whole container was built.
func (e *Encoder) Encode(doc *Document, opts ...EncodeOption) error {
	data, err := encode(doc, resolveConfig(e.cfg), opts...)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(data); err != nil {
		return NewIOError("write", "", err)
	}
	return nil
}

// Encode returns the container bytes of doc using the global configuration
func Encode(doc *Document, opts ...EncodeOption) ([]byte, error) {
	return encode(doc, GetGlobalConfig(), opts...)
}

func encode(doc *Document, cfg *Config, opts ...EncodeOption) ([]byte, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	o := encodeOptions{compression: cfg.Compression}
	for _, opt := range opts {
		opt(&o)
	}

	parts, err := newPackageBuilder(doc).build(o)
	if err != nil {
		return nil, err
	}

	method := zip.Deflate
	switch o.compression {
	case CompressionDeflate, "":
	case CompressionStore:
		method = zip.Store
	default:
		return nil, NewInvalidValueError("compression", o.compression, "expected deflate or store")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   method,
			Modified: zipEpoch,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zip writer: %w", err)
	}

	WithFields(Fields{"parts": len(parts), "bytes": buf.Len()}).Debug("encoded document package")
	return buf.Bytes(), nil
}

type packagePart struct {
	name        string
	contentType string
	data        []byte
}

// runningPart is a header or footer part with its relationship id
type runningPart struct {
	name   string
	relID  string
	footer bool
	paras  []Paragraph
}

// packageBuilder flattens one document into package parts
type packageBuilder struct {
	doc     *Document
	numIDs  map[string]int
	running []*runningPart
	headers map[*Header]*runningPart
	footers map[*Footer]*runningPart

	// per section; nil means no reference is written
	sectionHeaders []*runningPart
	sectionFooters []*runningPart
}

func newPackageBuilder(doc *Document) *packageBuilder {
	pb := &packageBuilder{
		doc:     doc,
		numIDs:  make(map[string]int, len(doc.numbering)),
		headers: make(map[*Header]*runningPart),
		footers: make(map[*Footer]*runningPart),
	}
	for i, def := range doc.numbering {
		pb.numIDs[def.id] = i + 1
	}

	// Relationship ids 1-3 are styles, numbering and settings
	var nHeaders, nFooters int
	var blankHeader, blankFooter *runningPart
	add := func(footer bool, paras []Paragraph) *runningPart {
		rp := &runningPart{relID: "rId" + strconv.Itoa(len(pb.running)+4), footer: footer, paras: paras}
		if footer {
			nFooters++
			rp.name = fmt.Sprintf("word/footer%d.xml", nFooters)
		} else {
			nHeaders++
			rp.name = fmt.Sprintf("word/header%d.xml", nHeaders)
		}
		pb.running = append(pb.running, rp)
		return rp
	}

	// A sectPr without a reference inherits the previous section's part, so
	// once any header or footer exists, sections without one point at a
	// shared blank part.
	for _, s := range doc.sections {
		var hp, fp *runningPart
		switch h := s.parts.Header; {
		case h != nil:
			if hp = pb.headers[h]; hp == nil {
				hp = add(false, h.paragraphs)
				pb.headers[h] = hp
			}
		case nHeaders > 0:
			if blankHeader == nil {
				blankHeader = add(false, nil)
			}
			hp = blankHeader
		}
		switch f := s.parts.Footer; {
		case f != nil:
			if fp = pb.footers[f]; fp == nil {
				fp = add(true, f.paragraphs)
				pb.footers[f] = fp
			}
		case nFooters > 0:
			if blankFooter == nil {
				blankFooter = add(true, nil)
			}
			fp = blankFooter
		}
		pb.sectionHeaders = append(pb.sectionHeaders, hp)
		pb.sectionFooters = append(pb.sectionFooters, fp)
	}
	return pb
}

func (pb *packageBuilder) build(o encodeOptions) ([]packagePart, error) {
	body, err := pb.body()
	if err != nil {
		return nil, err
	}
	document, err := marshalPart(PartDocument, wml.Document{Body: body})
	if err != nil {
		return nil, err
	}
	styles, err := marshalPart(PartStyles, stylesPart(pb.doc.styles))
	if err != nil {
		return nil, err
	}
	numbering, err := marshalPart(PartNumbering, numberingPart(pb.doc.numbering))
	if err != nil {
		return nil, err
	}
	settings, err := marshalPart(PartSettings, wml.Settings{DefaultTabStop: 720, CompatibilityMode: 15})
	if err != nil {
		return nil, err
	}

	running := make([]packagePart, 0, len(pb.running))
	for i, rp := range pb.running {
		root := wml.NewHeader()
		ctype := TypeHeader
		if rp.footer {
			root = wml.NewFooter()
			ctype = TypeFooter
		}
		for pi, p := range rp.paras {
			wp, err := pb.paragraph(p, fmt.Sprintf("%s, paragraph %d", rp.name, pi))
			if err != nil {
				return nil, err
			}
			root.Elements = append(root.Elements, wp)
		}
		if len(root.Elements) == 0 {
			root.Elements = append(root.Elements, &wml.Paragraph{})
		}
		data, err := marshalPart(rp.name, root)
		if err != nil {
			return nil, err
		}
		running = append(running, packagePart{name: rp.name, contentType: ctype, data: data})
		Debug("running part %d: %s", i+1, rp.name)
	}

	props, err := pb.coreProperties()
	if err != nil {
		return nil, err
	}
	props.Created = o.created
	core, err := marshalPart(PartCoreProps, props)
	if err != nil {
		return nil, err
	}
	app, err := marshalPart(PartAppProps, appProperties{
		Namespace:   "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties",
		Application: "docforge",
		AppVersion:  "1.0000",
	})
	if err != nil {
		return nil, err
	}

	content := []packagePart{
		{name: PartDocument, contentType: TypeDocument, data: document},
		{name: PartStyles, contentType: TypeStyles, data: styles},
		{name: PartNumbering, contentType: TypeNumbering, data: numbering},
		{name: PartSettings, contentType: TypeSettings, data: settings},
	}
	content = append(content, running...)

	types := ContentTypes{
		Namespace: typesNamespace,
		Defaults: []ContentTypeDefault{
			{Extension: "rels", ContentType: TypeRelationships},
			{Extension: "xml", ContentType: TypeXML},
		},
		Overrides: []ContentTypeOverride{
			{PartName: "/" + PartAppProps, ContentType: TypeAppProps},
			{PartName: "/" + PartCoreProps, ContentType: TypeCoreProps},
		},
	}
	for _, p := range content {
		types.Overrides = append(types.Overrides, ContentTypeOverride{PartName: "/" + p.name, ContentType: p.contentType})
	}
	typesData, err := marshalPart(PartContentTypes, types)
	if err != nil {
		return nil, err
	}

	pkgRels, err := marshalPart(PartPackageRels, Relationships{
		Namespace: relsNamespace,
		Relationship: []Relationship{
			{ID: "rId1", Type: RelOfficeDocument, Target: PartDocument},
			{ID: "rId2", Type: RelCoreProps, Target: PartCoreProps},
			{ID: "rId3", Type: RelExtendedProps, Target: PartAppProps},
		},
	})
	if err != nil {
		return nil, err
	}

	docRels := Relationships{
		Namespace: relsNamespace,
		Relationship: []Relationship{
			{ID: "rId1", Type: RelStyles, Target: "styles.xml"},
			{ID: "rId2", Type: RelNumbering, Target: "numbering.xml"},
			{ID: "rId3", Type: RelSettings, Target: "settings.xml"},
		},
	}
	for _, rp := range pb.running {
		relType := RelHeader
		if rp.footer {
			relType = RelFooter
		}
		docRels.Relationship = append(docRels.Relationship, Relationship{
			ID:     rp.relID,
			Type:   relType,
			Target: strings.TrimPrefix(rp.name, "word/"),
		})
	}
	docRelsData, err := marshalPart(PartDocumentRels, docRels)
	if err != nil {
		return nil, err
	}

	parts := []packagePart{
		{name: PartContentTypes, data: typesData},
		{name: PartPackageRels, data: pkgRels},
		{name: PartAppProps, data: app},
		{name: PartCoreProps, data: core},
		{name: PartDocument, data: document},
		{name: PartDocumentRels, data: docRelsData},
		{name: PartStyles, data: styles},
		{name: PartNumbering, data: numbering},
		{name: PartSettings, data: settings},
	}
	return append(parts, running...), nil
}

// coreProperties checks document info the same way run text is checked
func (pb *packageBuilder) coreProperties() (coreProperties, error) {
	info := pb.doc.info
	var props coreProperties
	fields := []struct {
		name string
		src  string
		dst  *string
	}{
		{"title", info.Title, &props.Title},
		{"subject", info.Subject, &props.Subject},
		{"creator", info.Creator, &props.Creator},
		{"description", info.Description, &props.Description},
	}
	for _, f := range fields {
		v, err := canonicalText(f.src, "core properties, "+f.name)
		if err != nil {
			return coreProperties{}, err
		}
		*f.dst = v
	}
	return props, nil
}

// body converts every section. All but the last section close with a
// paragraph carrying their section properties; the last one's properties
// are the body's trailing sectPr.
func (pb *packageBuilder) body() (*wml.Body, error) {
	body := &wml.Body{}
	for si, s := range pb.doc.sections {
		start := len(body.Elements)
		for bi, b := range s.blocks {
			loc := fmt.Sprintf("section %d, block %d", si, bi)
			switch blk := b.(type) {
			case Paragraph:
				p, err := pb.paragraph(blk, loc)
				if err != nil {
					return nil, err
				}
				body.Elements = append(body.Elements, p)
			case Table:
				t, err := pb.table(blk, loc)
				if err != nil {
					return nil, err
				}
				body.Elements = append(body.Elements, t)
			case PageBreak:
				body.Elements = append(body.Elements, &wml.Paragraph{
					Content: []wml.ParagraphContent{&wml.Run{Break: &wml.Break{Type: "page"}}},
				})
			}
		}

		sectPr := pb.sectionProperties(si, s)
		if si == len(pb.doc.sections)-1 {
			body.SectionProperties = sectPr
			continue
		}
		// A section ends at the paragraph holding its sectPr
		var last *wml.Paragraph
		if n := len(body.Elements); n > start {
			last, _ = body.Elements[n-1].(*wml.Paragraph)
		}
		if last == nil || isPageBreak(last) {
			last = &wml.Paragraph{}
			body.Elements = append(body.Elements, last)
		}
		if last.Properties == nil {
			last.Properties = &wml.ParagraphProperties{}
		}
		last.Properties.SectionProperties = sectPr
	}
	return body, nil
}

func isPageBreak(p *wml.Paragraph) bool {
	if len(p.Content) != 1 {
		return false
	}
	r, ok := p.Content[0].(*wml.Run)
	return ok && r.Break != nil && r.Break.Type == "page"
}

func (pb *packageBuilder) sectionProperties(si int, s Section) *wml.SectionProperties {
	g := s.geometry
	sp := &wml.SectionProperties{
		PageSize: &wml.PageSize{Width: int(g.Width), Height: int(g.Height)},
		PageMargins: &wml.PageMargins{
			Top:    int(g.Margins.Top),
			Right:  int(g.Margins.Right),
			Bottom: int(g.Margins.Bottom),
			Left:   int(g.Margins.Left),
			Header: int(g.HeaderDistance),
			Footer: int(g.FooterDistance),
		},
	}
	if hp := pb.sectionHeaders[si]; hp != nil {
		sp.HeaderReferences = []wml.HeaderFooterReference{{Type: "default", ID: hp.relID}}
	}
	if fp := pb.sectionFooters[si]; fp != nil {
		sp.FooterReferences = []wml.HeaderFooterReference{{Type: "default", ID: fp.relID}}
	}
	return sp
}

func (pb *packageBuilder) paragraph(p Paragraph, loc string) (*wml.Paragraph, error) {
	props := &wml.ParagraphProperties{
		Spacing: &wml.Spacing{Before: int(p.props.SpacingBefore), After: int(p.props.SpacingAfter)},
	}
	switch p.props.Heading {
	case 1:
		props.Style = &wml.Style{Val: "Heading1"}
	case 2:
		props.Style = &wml.Style{Val: "Heading2"}
	}
	if p.props.KeepNext {
		props.KeepNext = &wml.Empty{}
	}
	if ref := p.props.Numbering; ref != nil {
		numID, ok := pb.numIDs[ref.ListID]
		if !ok {
			return nil, NewDanglingReferenceError(ref.ListID, loc)
		}
		props.Numbering = &wml.NumberingProperties{Level: wml.IntVal{Val: ref.Level}, NumID: wml.IntVal{Val: numID}}
	}
	if p.props.Alignment != "" {
		props.Alignment = &wml.Alignment{Val: string(p.props.Alignment)}
	}

	wp := &wml.Paragraph{Properties: props}
	for ri, r := range p.runs {
		runLoc := fmt.Sprintf("%s, run %d", loc, ri)
		switch r.kind {
		case runLineBreak:
			wp.Content = append(wp.Content, &wml.Run{Break: &wml.Break{}})
		case runPageNumber:
			wp.Content = append(wp.Content, &wml.SimpleField{
				Instr: " PAGE ",
				Run:   &wml.Run{Properties: runProperties(r.style), Text: wml.NewText("1")},
			})
		default:
			text, err := canonicalText(r.text, runLoc)
			if err != nil {
				return nil, err
			}
			// Newlines become line breaks inside the same run style
			for li, line := range strings.Split(text, "\n") {
				wr := &wml.Run{Properties: runProperties(r.style)}
				if li > 0 {
					wr.Break = &wml.Break{}
				}
				if line != "" {
					wr.Text = wml.NewText(line)
				}
				if wr.Break == nil && wr.Text == nil {
					continue
				}
				wp.Content = append(wp.Content, wr)
			}
		}
	}
	return wp, nil
}

func runProperties(s TextStyle) *wml.RunProperties {
	rp := &wml.RunProperties{
		Font:   wml.NewFont(s.Font),
		Color:  &wml.Color{Val: s.Color.hex()},
		Size:   &wml.Size{Val: int(s.Size)},
		SizeCs: &wml.Size{Val: int(s.Size)},
	}
	if s.Bold {
		rp.Bold = &wml.Empty{}
	}
	if s.Italic {
		rp.Italic = &wml.Empty{}
	}
	return rp
}

func (pb *packageBuilder) table(t Table, loc string) (*wml.Table, error) {
	wt := &wml.Table{
		Properties: &wml.TableProperties{
			Style:  &wml.Style{Val: "TableGrid"},
			Width:  wml.DXA(int(t.width)),
			Layout: &wml.TableLayout{Type: "fixed"},
		},
		Grid: &wml.TableGrid{},
	}
	for _, w := range t.columns {
		wt.Grid.Columns = append(wt.Grid.Columns, wml.GridColumn{Width: int(w)})
	}

	for ri, row := range t.rows {
		wr := wml.TableRow{}
		if ri == 0 && t.props.HeaderRow {
			wr.Properties = &wml.TableRowProperties{Header: &wml.Empty{}}
		}
		for ci, cell := range row.cells {
			wc := wml.TableCell{Properties: cellProperties(cell.props)}
			for pi, p := range cell.paragraphs {
				wp, err := pb.paragraph(p, fmt.Sprintf("%s, row %d, cell %d, paragraph %d", loc, ri, ci, pi))
				if err != nil {
					return nil, err
				}
				wc.Paragraphs = append(wc.Paragraphs, *wp)
			}
			if len(wc.Paragraphs) == 0 {
				wc.Paragraphs = []wml.Paragraph{{}}
			}
			wr.Cells = append(wr.Cells, wc)
		}
		wt.Rows = append(wt.Rows, wr)
	}
	return wt, nil
}

func cellProperties(c CellProps) *wml.TableCellProperties {
	props := &wml.TableCellProperties{Width: wml.DXA(int(c.Width))}

	edge := func(b Border) *wml.BorderProperties {
		if b.Style == "" {
			return nil
		}
		bp := &wml.BorderProperties{Val: string(b.Style), Sz: b.Size}
		if b.Color != "" {
			bp.Color = b.Color.hex()
		}
		return bp
	}
	borders := &wml.TableCellBorders{
		Top:    edge(c.Borders.Top),
		Left:   edge(c.Borders.Left),
		Bottom: edge(c.Borders.Bottom),
		Right:  edge(c.Borders.Right),
	}
	if borders.Top != nil || borders.Left != nil || borders.Bottom != nil || borders.Right != nil {
		props.Borders = borders
	}

	if c.Shading != "" {
		props.Shading = &wml.Shading{Val: "clear", Color: "auto", Fill: c.Shading.hex()}
	}
	if m := c.Margins; m != nil {
		props.Margins = &wml.TableCellMargins{
			Top:    wml.DXA(int(m.Top)),
			Left:   wml.DXA(int(m.Left)),
			Bottom: wml.DXA(int(m.Bottom)),
			Right:  wml.DXA(int(m.Right)),
		}
	}
	if c.VerticalAlign != "" {
		props.VAlign = &wml.VerticalAlign{Val: string(c.VerticalAlign)}
	}
	return props
}

// canonicalText NFC-normalizes s and rejects characters XML 1.0 cannot carry
func canonicalText(s, location string) (string, error) {
	if !utf8.ValidString(s) {
		for i := 0; i < len(s); {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size <= 1 {
				return "", &EncodingError{Location: location, Offset: i, Cause: fmt.Errorf("invalid UTF-8 byte 0x%02X", s[i])}
			}
			i += size
		}
	}

	s = norm.NFC.String(s)
	for i, r := range s {
		if !isXMLChar(r) {
			return "", &EncodingError{Location: location, Offset: i, Cause: fmt.Errorf("character %U is not allowed in XML", r)}
		}
	}
	return s, nil
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09, r == 0x0A, r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
