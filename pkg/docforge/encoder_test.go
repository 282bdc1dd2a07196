package docforge

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	wml "github.com/benjaminschreck/go-docforge/pkg/docforge/xml"
)

func encodeForTest(t *testing.T, doc *Document, opts ...EncodeOption) *Package {
	t.Helper()
	data, err := encode(doc, DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	pkg, err := OpenPackageBytes(data)
	if err != nil {
		t.Fatalf("OpenPackageBytes failed: %v", err)
	}
	return pkg
}

func partString(t *testing.T, pkg *Package, name string) string {
	t.Helper()
	data, err := pkg.Part(name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func parsedBody(t *testing.T, pkg *Package) *wml.Body {
	t.Helper()
	doc, err := pkg.Document()
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}
	if doc.Body == nil {
		t.Fatal("document has no body")
	}
	return doc.Body
}

func TestEncodeRoundTrip(t *testing.T) {
	b := newTestBuilder(t)
	tbl, err := b.DataTable([]Twips{4680, 4680}, []string{"A", "B"}, [][]string{{"C", "D"}}, -1)
	if err != nil {
		t.Fatal(err)
	}
	doc := mustDocument(t, b, b.SectionHeading("Title"), tbl)

	pkg := encodeForTest(t, doc)

	count := 0
	for _, name := range pkg.PartNames() {
		if name == PartDocument {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("container has %d %s entries, want 1", count, PartDocument)
	}

	body := parsedBody(t, pkg)
	paras := body.Paragraphs()
	if len(paras) != 1 {
		t.Fatalf("paragraphs = %d, want 1", len(paras))
	}
	if paras[0].GetText() != "Title" {
		t.Errorf("heading text = %q, want Title", paras[0].GetText())
	}
	if style := paras[0].Properties.Style; style == nil || style.Val != "Heading1" {
		t.Errorf("heading style = %+v, want Heading1", style)
	}

	tables := body.Tables()
	if len(tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(tables))
	}
	var got [][]string
	for _, row := range tables[0].Rows {
		var cells []string
		for i := range row.Cells {
			cells = append(cells, row.Cells[i].GetText())
		}
		got = append(got, cells)
	}
	want := [][]string{{"A", "B"}, {"C", "D"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("table cells = %v, want %v", got, want)
	}
	if tables[0].Rows[0].Properties == nil || tables[0].Rows[0].Properties.Header == nil {
		t.Error("first row should repeat as a header row")
	}
	if len(tables[0].Grid.Columns) != 2 || tables[0].Grid.Columns[0].Width != 4680 {
		t.Errorf("grid = %+v", tables[0].Grid.Columns)
	}
}

func TestEncodeRoundTripRawTable(t *testing.T) {
	b := newTestBuilder(t)
	tbl, err := NewTable(1000, []Twips{500, 500}, plainRow(t, 500, "A", "B"), plainRow(t, 500, "C", "D"))
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	heading := b.SectionHeading("Title")
	pkg := encodeForTest(t, mustDocument(t, b, heading, tbl))

	body := parsedBody(t, pkg)
	paras := body.Paragraphs()
	if len(paras) != 1 || paras[0].GetText() != "Title" {
		t.Fatalf("paragraphs = %d, want the heading only", len(paras))
	}
	tables := body.Tables()
	if len(tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(tables))
	}
	var got [][]string
	for _, row := range tables[0].Rows {
		var cells []string
		for i := range row.Cells {
			cells = append(cells, row.Cells[i].GetText())
		}
		got = append(got, cells)
	}
	if want := [][]string{{"A", "B"}, {"C", "D"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("table cells = %v, want %v", got, want)
	}
	grid := tables[0].Grid.Columns
	if len(grid) != 2 || grid[0].Width != 500 || grid[1].Width != 500 {
		t.Errorf("grid = %+v, want two 500 twip columns", grid)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	build := func() []byte {
		b := newTestBuilder(t)
		list, err := b.NewBulletList()
		if err != nil {
			t.Fatal(err)
		}
		section, err := NewSection(LetterPortrait(), SectionParts{
			Header: b.RunningHeader("Recap"),
			Footer: b.PageFooter("Page "),
		}, b.Title("Recap"), b.BulletItem("one", list), b.BulletItem("two", list))
		if err != nil {
			t.Fatal(err)
		}
		doc, err := NewDocument(b.Styles(), b.Numbering(), section)
		if err != nil {
			t.Fatal(err)
		}
		data, err := encode(doc.WithInfo(DocumentInfo{Title: "Recap"}), DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	first := build()
	time.Sleep(1100 * time.Millisecond)
	second := build()
	if !bytes.Equal(first, second) {
		t.Error("encoding the same document twice produced different bytes")
	}
}

func TestEncodePartsAndRelationships(t *testing.T) {
	b := newTestBuilder(t)
	header := b.RunningHeader("Running")
	footer := b.PageFooter("Page ")
	s1, err := NewSection(LetterPortrait(), SectionParts{Header: header, Footer: footer}, b.BodyText("one", TextOptions{}))
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSection(A4Portrait(), SectionParts{Header: header, Footer: footer}, b.BodyText("two", TextOptions{}))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := NewDocument(b.Styles(), b.Numbering(), s1, s2)
	if err != nil {
		t.Fatal(err)
	}

	pkg := encodeForTest(t, doc)

	wantParts := []string{
		PartContentTypes,
		PartPackageRels,
		PartAppProps,
		PartCoreProps,
		PartDocument,
		PartDocumentRels,
		PartStyles,
		PartNumbering,
		PartSettings,
		"word/header1.xml",
		"word/footer1.xml",
	}
	if got := pkg.PartNames(); !reflect.DeepEqual(got, wantParts) {
		t.Errorf("parts = %v\nwant %v", got, wantParts)
	}

	types, err := pkg.ContentTypes()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range wantParts {
		if _, ok := types.Lookup(name); !ok {
			t.Errorf("no content type for %s", name)
		}
	}
	if ct, _ := types.Lookup("word/footer1.xml"); ct != TypeFooter {
		t.Errorf("footer content type = %s", ct)
	}

	rels, err := pkg.Relationships(PartDocument)
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]Relationship{}
	for _, r := range rels {
		if _, dup := byID[r.ID]; dup {
			t.Errorf("duplicate relationship id %s", r.ID)
		}
		byID[r.ID] = r
	}
	if r := byID["rId4"]; r.Type != RelHeader || r.Target != "header1.xml" {
		t.Errorf("rId4 = %+v", r)
	}
	if r := byID["rId5"]; r.Type != RelFooter || r.Target != "footer1.xml" {
		t.Errorf("rId5 = %+v", r)
	}

	pkgRels, err := pkg.Relationships("")
	if err != nil {
		t.Fatal(err)
	}
	if len(pkgRels) != 3 || pkgRels[0].Target != PartDocument {
		t.Errorf("package relationships = %+v", pkgRels)
	}

	// Every referenced rId must exist
	body := parsedBody(t, pkg)
	first := body.Paragraphs()[0].Properties.SectionProperties
	last := body.SectionProperties
	for _, sp := range []*wml.SectionProperties{first, last} {
		if sp == nil {
			t.Fatal("missing section properties")
		}
		for _, ref := range append(sp.HeaderReferences, sp.FooterReferences...) {
			if _, ok := byID[ref.ID]; !ok {
				t.Errorf("section references unknown relationship %s", ref.ID)
			}
		}
	}
	if first.PageSize.Width != 12240 || last.PageSize.Width != 11906 {
		t.Errorf("page widths = %d, %d", first.PageSize.Width, last.PageSize.Width)
	}

	footerXML := partString(t, pkg, "word/footer1.xml")
	if !strings.Contains(footerXML, `w:instr=" PAGE "`) {
		t.Errorf("footer has no page field: %s", footerXML)
	}
}

func TestEncodeDistinctRunningParts(t *testing.T) {
	b := newTestBuilder(t)
	s1, err := NewSection(LetterPortrait(), SectionParts{Header: b.RunningHeader("first")}, b.BodyText("one", TextOptions{}))
	if err != nil {
		t.Fatal(err)
	}
	s2, err := NewSection(LetterPortrait(), SectionParts{Header: b.RunningHeader("second")}, b.BodyText("two", TextOptions{}))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := NewDocument(b.Styles(), b.Numbering(), s1, s2)
	if err != nil {
		t.Fatal(err)
	}

	pkg := encodeForTest(t, doc)
	for i, name := range []string{"word/header1.xml", "word/header2.xml"} {
		content := partString(t, pkg, name)
		want := []string{"first", "second"}[i]
		if !strings.Contains(content, want) {
			t.Errorf("%s does not contain %q", name, want)
		}
	}
}

func TestEncodeSectionWithoutRunningParts(t *testing.T) {
	b := newTestBuilder(t)
	sections := make([]Section, 0, 4)
	for i, parts := range []SectionParts{
		{},
		{Header: b.RunningHeader("Cover only"), Footer: b.PageFooter("Page ")},
		{},
		{},
	} {
		s, err := NewSection(LetterPortrait(), parts, b.BodyText(fmt.Sprintf("section %d", i), TextOptions{}))
		if err != nil {
			t.Fatal(err)
		}
		sections = append(sections, s)
	}
	doc, err := NewDocument(b.Styles(), b.Numbering(), sections...)
	if err != nil {
		t.Fatal(err)
	}
	pkg := encodeForTest(t, doc)

	body := parsedBody(t, pkg)
	var sectPrs []*wml.SectionProperties
	for _, p := range body.Paragraphs() {
		if p.Properties != nil && p.Properties.SectionProperties != nil {
			sectPrs = append(sectPrs, p.Properties.SectionProperties)
		}
	}
	sectPrs = append(sectPrs, body.SectionProperties)
	if len(sectPrs) != 4 {
		t.Fatalf("section properties = %d, want 4", len(sectPrs))
	}

	refs := func(r []wml.HeaderFooterReference) string {
		var ids []string
		for _, ref := range r {
			ids = append(ids, ref.ID)
		}
		return strings.Join(ids, ",")
	}
	tests := []struct {
		section    int
		wantHeader string
		wantFooter string
	}{
		{section: 0, wantHeader: "", wantFooter: ""},
		{section: 1, wantHeader: "rId4", wantFooter: "rId5"},
		{section: 2, wantHeader: "rId6", wantFooter: "rId7"},
		{section: 3, wantHeader: "rId6", wantFooter: "rId7"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("section %d", tt.section), func(t *testing.T) {
			sp := sectPrs[tt.section]
			if got := refs(sp.HeaderReferences); got != tt.wantHeader {
				t.Errorf("header refs = %q, want %q", got, tt.wantHeader)
			}
			if got := refs(sp.FooterReferences); got != tt.wantFooter {
				t.Errorf("footer refs = %q, want %q", got, tt.wantFooter)
			}
		})
	}

	rels, err := pkg.Relationships(PartDocument)
	if err != nil {
		t.Fatal(err)
	}
	targets := make(map[string]string)
	for _, r := range rels {
		targets[r.ID] = r.Target
	}
	if targets["rId6"] != "header2.xml" || targets["rId7"] != "footer2.xml" {
		t.Errorf("blank part targets = %q, %q", targets["rId6"], targets["rId7"])
	}
	blank := partString(t, pkg, "word/header2.xml")
	if strings.Contains(blank, "Cover only") || !strings.Contains(blank, "<w:p>") {
		t.Errorf("blank header = %s", blank)
	}
	if strings.Contains(partString(t, pkg, "word/footer2.xml"), "PAGE") {
		t.Error("blank footer carries a page field")
	}
}

func TestEncodeSectionBreaks(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name      string
		first     []Block
		wantParas int
	}{
		{
			name:      "sectPr on last paragraph",
			first:     []Block{b.BodyText("a", TextOptions{}), b.BodyText("b", TextOptions{})},
			wantParas: 3,
		},
		{
			name:      "empty section gets a carrier paragraph",
			first:     nil,
			wantParas: 2,
		},
		{
			name:      "page break is not reused as carrier",
			first:     []Block{b.BodyText("a", TextOptions{}), PageBreak{}},
			wantParas: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s1, err := NewSection(LetterPortrait(), SectionParts{}, tt.first...)
			if err != nil {
				t.Fatal(err)
			}
			s2, err := NewSection(LetterPortrait(), SectionParts{}, b.BodyText("last", TextOptions{}))
			if err != nil {
				t.Fatal(err)
			}
			doc, err := NewDocument(b.Styles(), b.Numbering(), s1, s2)
			if err != nil {
				t.Fatal(err)
			}

			body := parsedBody(t, encodeForTest(t, doc))
			paras := body.Paragraphs()
			if len(paras) != tt.wantParas {
				t.Fatalf("paragraphs = %d, want %d", len(paras), tt.wantParas)
			}
			carriers := 0
			for i, p := range paras {
				if p.Properties != nil && p.Properties.SectionProperties != nil {
					carriers++
					if i != tt.wantParas-2 {
						t.Errorf("section properties on paragraph %d, want %d", i, tt.wantParas-2)
					}
				}
			}
			if carriers != 1 {
				t.Errorf("section carriers = %d, want 1", carriers)
			}
			if body.SectionProperties == nil {
				t.Error("final section properties missing from body")
			}
		})
	}
}

func TestEncodeNumbering(t *testing.T) {
	b := newTestBuilder(t)
	bullets, err := b.NewBulletList()
	if err != nil {
		t.Fatal(err)
	}
	steps, err := b.NewNumberedList()
	if err != nil {
		t.Fatal(err)
	}
	doc := mustDocument(t, b,
		b.BulletItem("dot", bullets),
		b.ListItem("first", steps, 0),
		b.ListItem("nested", steps, 1),
	)

	pkg := encodeForTest(t, doc)
	numbering, err := pkg.Numbering()
	if err != nil {
		t.Fatal(err)
	}
	if len(numbering.AbstractNums) != 2 || len(numbering.Nums) != 2 {
		t.Fatalf("abstractNums = %d, nums = %d, want 2 and 2", len(numbering.AbstractNums), len(numbering.Nums))
	}
	for i, n := range numbering.Nums {
		if n.ID != i+1 || n.AbstractNumID.Val != i {
			t.Errorf("num %d = id %d -> abstract %d", i, n.ID, n.AbstractNumID.Val)
		}
	}
	if format := numbering.AbstractNums[1].Levels[1].NumFmt.Val; format != "lowerLetter" {
		t.Errorf("second level format = %s, want lowerLetter", format)
	}

	paras := parsedBody(t, pkg).Paragraphs()
	got := make([][2]int, len(paras))
	for i, p := range paras {
		np := p.Properties.Numbering
		if np == nil {
			t.Fatalf("paragraph %d lost its numbering", i)
		}
		got[i] = [2]int{np.NumID.Val, np.Level.Val}
	}
	want := [][2]int{{1, 0}, {2, 0}, {2, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("numbering (numId, ilvl) = %v, want %v", got, want)
	}
}

func TestEncodeText(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name     string
		text     string
		wantText string
		wantXML  string
	}{
		{name: "markup characters", text: "a < b & c > d", wantText: "a < b & c > d", wantXML: "a &lt; b &amp; c &gt; d"},
		{name: "decomposed accent", text: "Cafe\u0301", wantText: "Caf\u00e9"},
		{name: "leading space", text: " indented", wantText: " indented", wantXML: `xml:space="preserve"`},
		{name: "emoji", text: "ok \U0001F44D", wantText: "ok \U0001F44D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := encodeForTest(t, mustDocument(t, b, b.BodyText(tt.text, TextOptions{})))
			if got := parsedBody(t, pkg).Paragraphs()[0].GetText(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if tt.wantXML != "" && !strings.Contains(partString(t, pkg, PartDocument), tt.wantXML) {
				t.Errorf("document.xml does not contain %q", tt.wantXML)
			}
		})
	}
}

func TestEncodeLineBreaks(t *testing.T) {
	b := newTestBuilder(t)
	doc := mustDocument(t, b, b.BodyText("one\ntwo", TextOptions{}))

	paras := parsedBody(t, encodeForTest(t, doc)).Paragraphs()
	runs := paras[0].Runs()
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].Break != nil || runs[0].GetText() != "one" {
		t.Errorf("first run = %+v", runs[0])
	}
	if runs[1].Break == nil || runs[1].GetText() != "two" {
		t.Errorf("second run should start with a break: %+v", runs[1])
	}
}

func TestEncodeRejectsInvalidText(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name       string
		text       string
		wantOffset int
	}{
		{name: "control character", text: "bad\x01", wantOffset: 3},
		{name: "invalid utf-8", text: "ab\xffcd", wantOffset: 2},
		{name: "noncharacter", text: "x\uFFFE", wantOffset: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDocument(t, b, b.BodyText("fine", TextOptions{}), b.BodyText(tt.text, TextOptions{}))
			_, err := encode(doc, DefaultConfig())
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("expected *EncodingError, got %v", err)
			}
			if encErr.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", encErr.Offset, tt.wantOffset)
			}
			if encErr.Location != "section 0, block 1, run 0" {
				t.Errorf("Location = %q", encErr.Location)
			}
		})
	}
}

func TestEncodeRejectsInvalidInfo(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name         string
		info         DocumentInfo
		wantLocation string
		wantOffset   int
	}{
		{name: "title control character", info: DocumentInfo{Title: "bell\x07title"}, wantLocation: "core properties, title", wantOffset: 4},
		{name: "creator invalid utf-8", info: DocumentInfo{Title: "ok", Creator: "ab\xff"}, wantLocation: "core properties, creator", wantOffset: 2},
		{name: "description noncharacter", info: DocumentInfo{Description: "x\uFFFF"}, wantLocation: "core properties, description", wantOffset: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDocument(t, b, b.BodyText("fine", TextOptions{})).WithInfo(tt.info)
			_, err := encode(doc, DefaultConfig())
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("expected *EncodingError, got %v", err)
			}
			if encErr.Location != tt.wantLocation || encErr.Offset != tt.wantOffset {
				t.Errorf("error at %q offset %d, want %q offset %d", encErr.Location, encErr.Offset, tt.wantLocation, tt.wantOffset)
			}
		})
	}

	doc := mustDocument(t, b, b.BodyText("x", TextOptions{})).WithInfo(DocumentInfo{Subject: "Cafe\u0301"})
	if core := partString(t, encodeForTest(t, doc), PartCoreProps); !strings.Contains(core, "<dc:subject>Caf\u00e9</dc:subject>") {
		t.Errorf("subject not normalized: %s", core)
	}
}

func TestEncodeCoreProperties(t *testing.T) {
	b := newTestBuilder(t)
	doc := mustDocument(t, b, b.BodyText("x", TextOptions{})).WithInfo(DocumentInfo{Title: "Recap & Review", Creator: "ops"})

	core := partString(t, encodeForTest(t, doc), PartCoreProps)
	if strings.Contains(core, "dcterms:created") {
		t.Error("core properties carry a timestamp without WithCreated")
	}
	if !strings.Contains(core, "<dc:title>Recap &amp; Review</dc:title>") {
		t.Errorf("title missing: %s", core)
	}

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	core = partString(t, encodeForTest(t, doc, WithCreated(created)), PartCoreProps)
	if !strings.Contains(core, ">2025-01-02T02:04:05Z</dcterms:created>") {
		t.Errorf("created timestamp missing: %s", core)
	}
}

func TestEncodeCompression(t *testing.T) {
	b := newTestBuilder(t)
	doc := mustDocument(t, b, b.BodyText("x", TextOptions{}))

	tests := []struct {
		opts   []EncodeOption
		method uint16
	}{
		{opts: nil, method: zip.Deflate},
		{opts: []EncodeOption{WithCompression(CompressionStore)}, method: zip.Store},
	}
	for _, tt := range tests {
		data, err := encode(doc, DefaultConfig(), tt.opts...)
		if err != nil {
			t.Fatal(err)
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range zr.File {
			if f.Method != tt.method {
				t.Errorf("%s method = %d, want %d", f.Name, f.Method, tt.method)
			}
			if !f.Modified.Equal(zipEpoch) {
				t.Errorf("%s modified = %v, want %v", f.Name, f.Modified, zipEpoch)
			}
		}
	}

	if _, err := encode(doc, DefaultConfig(), WithCompression("zstd")); err == nil {
		t.Error("unknown compression should fail")
	}
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestEncoder(t *testing.T) {
	b := newTestBuilder(t)
	doc := mustDocument(t, b, b.BodyText("x", TextOptions{}))

	var buf bytes.Buffer
	if err := NewEncoder(&buf, DefaultConfig()).Encode(doc); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := OpenPackageBytes(buf.Bytes()); err != nil {
		t.Errorf("encoded bytes are not a package: %v", err)
	}

	w := &failingWriter{}
	if err := NewEncoder(w, nil).Encode(doc); !IsIOError(err) {
		t.Errorf("expected an IOError, got %v", err)
	}

	broken := mustDocument(t, b, b.BodyText("x", TextOptions{}))
	broken.sections[0].blocks = append(broken.sections[0].blocks, b.BulletItem("orphan", "nowhere"))
	w = &failingWriter{}
	if err := NewEncoder(w, nil).Encode(broken); !IsDanglingReference(err) {
		t.Errorf("expected a dangling reference, got %v", err)
	}
	if w.writes != 0 {
		t.Errorf("invalid document reached the writer %d times", w.writes)
	}
}
