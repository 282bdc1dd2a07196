package xml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Table represents a table in the document
type Table struct {
	Properties *TableProperties `xml:"tblPr"`
	Grid       *TableGrid       `xml:"tblGrid"`
	Rows       []TableRow       `xml:"tr"`
}

// isBodyElement implements the BodyElement interface
func (t Table) isBodyElement() {}

// MarshalXML implements custom XML marshaling for Table to ensure proper namespacing
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, t.Properties != nil, t.Properties, "w:tblPr"); err != nil {
		return err
	}
	if err := encodeIf(e, t.Grid != nil, t.Grid, "w:tblGrid"); err != nil {
		return err
	}

	for i := range t.Rows {
		if err := e.EncodeElement(&t.Rows[i], xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableProperties represents table formatting properties
type TableProperties struct {
	Style       *Style            `xml:"tblStyle"`
	Width       *Width            `xml:"tblW"`
	Borders     *TableBorders     `xml:"tblBorders"`
	Layout      *TableLayout      `xml:"tblLayout"`
	CellMargins *TableCellMargins `xml:"tblCellMar"`
}

// MarshalXML implements custom XML marshaling for TableProperties
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, p.Style != nil, p.Style, "w:tblStyle"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Width != nil, p.Width, "w:tblW"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Borders != nil, p.Borders, "w:tblBorders"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Layout != nil, p.Layout, "w:tblLayout"); err != nil {
		return err
	}
	if err := encodeIf(e, p.CellMargins != nil, p.CellMargins, "w:tblCellMar"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableLayout represents table layout mode
type TableLayout struct {
	Type string `xml:"type,attr"`
}

// MarshalXML implements custom XML marshaling for TableLayout
func (t TableLayout) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblLayout"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:type"}, Value: t.Type},
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableCellMargins represents cell margins (w:tblCellMar or w:tcMar)
type TableCellMargins struct {
	Top    *Width `xml:"top"`
	Left   *Width `xml:"left"`
	Bottom *Width `xml:"bottom"`
	Right  *Width `xml:"right"`
}

// MarshalXML implements custom XML marshaling for TableCellMargins.
// The element name is kept from the caller so the type serves both contexts.
func (m TableCellMargins) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, m.Top != nil, m.Top, "w:top"); err != nil {
		return err
	}
	if err := encodeIf(e, m.Left != nil, m.Left, "w:left"); err != nil {
		return err
	}
	if err := encodeIf(e, m.Bottom != nil, m.Bottom, "w:bottom"); err != nil {
		return err
	}
	if err := encodeIf(e, m.Right != nil, m.Right, "w:right"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableGrid represents table column definitions
type TableGrid struct {
	Columns []GridColumn `xml:"gridCol"`
}

// MarshalXML implements custom XML marshaling for TableGrid
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblGrid"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, col := range g.Columns {
		if err := e.EncodeElement(col, xml.StartElement{Name: xml.Name{Local: "w:gridCol"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GridColumn represents a table column
type GridColumn struct {
	Width int `xml:"w,attr"`
}

// MarshalXML implements custom XML marshaling for GridColumn
func (g GridColumn) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:gridCol"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(g.Width)},
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableRow represents a row in a table
type TableRow struct {
	Properties *TableRowProperties `xml:"trPr"`
	Cells      []TableCell         `xml:"tc"`
}

// MarshalXML implements custom XML marshaling for TableRow to ensure proper namespacing
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, r.Properties != nil, r.Properties, "w:trPr"); err != nil {
		return err
	}

	for i := range r.Cells {
		if err := e.EncodeElement(&r.Cells[i], xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableRowProperties represents row properties
type TableRowProperties struct {
	CantSplit *Empty `xml:"cantSplit"`
	Header    *Empty `xml:"tblHeader"`
}

// MarshalXML implements custom XML marshaling for TableRowProperties
func (p TableRowProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:trPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.CantSplit != nil {
		if err := encodeEmpty(e, "w:cantSplit"); err != nil {
			return err
		}
	}
	if p.Header != nil {
		if err := encodeEmpty(e, "w:tblHeader"); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableCell represents a cell in a table
type TableCell struct {
	Properties *TableCellProperties `xml:"tcPr"`
	Paragraphs []Paragraph          `xml:"p"`
}

// MarshalXML implements custom XML marshaling for TableCell to ensure proper namespacing
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, c.Properties != nil, c.Properties, "w:tcPr"); err != nil {
		return err
	}

	for i := range c.Paragraphs {
		if err := e.EncodeElement(&c.Paragraphs[i], xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the concatenated text of all paragraphs in a cell
func (c *TableCell) GetText() string {
	texts := make([]string, 0, len(c.Paragraphs))
	for i := range c.Paragraphs {
		if text := c.Paragraphs[i].GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// TableCellProperties represents cell properties in CT_TcPr order
type TableCellProperties struct {
	Width   *Width            `xml:"tcW"`
	Borders *TableCellBorders `xml:"tcBorders"`
	Shading *Shading          `xml:"shd"`
	Margins *TableCellMargins `xml:"tcMar"`
	VAlign  *VerticalAlign    `xml:"vAlign"`
}

// MarshalXML implements custom XML marshaling for TableCellProperties
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, p.Width != nil, p.Width, "w:tcW"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Borders != nil, p.Borders, "w:tcBorders"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Shading != nil, p.Shading, "w:shd"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Margins != nil, p.Margins, "w:tcMar"); err != nil {
		return err
	}
	if err := encodeIf(e, p.VAlign != nil, p.VAlign, "w:vAlign"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Width represents width settings (w:tblW, w:tcW, margins)
type Width struct {
	Type string `xml:"type,attr"`
	Val  int    `xml:"w,attr"`
}

// MarshalXML implements custom XML marshaling for Width
func (w Width) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(w.Val)},
		{Name: xml.Name{Local: "w:type"}, Value: w.Type},
	}
	return e.EncodeElement(struct{}{}, start)
}

// DXA returns a width expressed in twentieths of a point
func DXA(val int) *Width {
	return &Width{Type: "dxa", Val: val}
}

// VerticalAlign represents vertical alignment of cell content
type VerticalAlign struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for VerticalAlign
func (v VerticalAlign) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:vAlign"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: v.Val},
	}
	return e.EncodeElement(struct{}{}, start)
}

// Shading represents cell or paragraph shading
type Shading struct {
	Val   string `xml:"val,attr,omitempty"`
	Color string `xml:"color,attr,omitempty"`
	Fill  string `xml:"fill,attr,omitempty"`
}

// MarshalXML implements custom XML marshaling for Shading
func (s Shading) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:shd"}
	start.Attr = []xml.Attr{}

	if s.Val != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:val"}, Value: s.Val})
	}
	if s.Color != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:color"}, Value: s.Color})
	}
	if s.Fill != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:fill"}, Value: s.Fill})
	}

	return e.EncodeElement(struct{}{}, start)
}

// TableBorders represents borders for a table (w:tblBorders)
type TableBorders struct {
	Top     *BorderProperties `xml:"top"`
	Left    *BorderProperties `xml:"left"`
	Bottom  *BorderProperties `xml:"bottom"`
	Right   *BorderProperties `xml:"right"`
	InsideH *BorderProperties `xml:"insideH"`
	InsideV *BorderProperties `xml:"insideV"`
}

// MarshalXML implements custom XML marshaling for TableBorders
func (b TableBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblBorders"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	// Order matters in Word XML
	edges := []struct {
		border *BorderProperties
		name   string
	}{
		{b.Top, "w:top"},
		{b.Left, "w:left"},
		{b.Bottom, "w:bottom"},
		{b.Right, "w:right"},
		{b.InsideH, "w:insideH"},
		{b.InsideV, "w:insideV"},
	}
	for _, edge := range edges {
		if err := encodeIf(e, edge.border != nil, edge.border, edge.name); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableCellBorders represents borders for a table cell
type TableCellBorders struct {
	Top    *BorderProperties `xml:"top"`
	Left   *BorderProperties `xml:"left"`
	Bottom *BorderProperties `xml:"bottom"`
	Right  *BorderProperties `xml:"right"`
}

// MarshalXML implements custom XML marshaling for TableCellBorders
func (b TableCellBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcBorders"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, b.Top != nil, b.Top, "w:top"); err != nil {
		return err
	}
	if err := encodeIf(e, b.Left != nil, b.Left, "w:left"); err != nil {
		return err
	}
	if err := encodeIf(e, b.Bottom != nil, b.Bottom, "w:bottom"); err != nil {
		return err
	}
	if err := encodeIf(e, b.Right != nil, b.Right, "w:right"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// BorderProperties represents border styling
type BorderProperties struct {
	Val   string `xml:"val,attr,omitempty"`
	Sz    int    `xml:"sz,attr,omitempty"`
	Space int    `xml:"space,attr,omitempty"`
	Color string `xml:"color,attr,omitempty"`
}

// MarshalXML implements custom XML marshaling for BorderProperties
func (b BorderProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: b.Val},
		{Name: xml.Name{Local: "w:sz"}, Value: strconv.Itoa(b.Sz)},
		{Name: xml.Name{Local: "w:space"}, Value: strconv.Itoa(b.Space)},
	}
	if b.Color != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:color"}, Value: b.Color})
	}
	return e.EncodeElement(struct{}{}, start)
}
