package xml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Run represents a run of text with common properties
type Run struct {
	Properties *RunProperties `xml:"rPr"`
	Text       *Text          `xml:"t"`
	Break      *Break         `xml:"br"`
}

// isParagraphContent implements the ParagraphContent interface
func (r Run) isParagraphContent() {}

// MarshalXML implements custom XML marshaling for Run to ensure proper namespacing
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}

	// A page break run carries no text, a line break run may carry both
	if r.Break != nil {
		if err := e.EncodeElement(r.Break, xml.StartElement{Name: xml.Name{Local: "w:br"}}); err != nil {
			return err
		}
	}

	if r.Text != nil {
		if err := e.EncodeElement(r.Text, xml.StartElement{Name: xml.Name{Local: "w:t"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the text content of a run
func (r *Run) GetText() string {
	if r.Text == nil {
		return ""
	}
	return r.Text.Content
}

// RunProperties represents run formatting properties.
// Fields are written in the order CT_RPr requires.
type RunProperties struct {
	Font   *Font  `xml:"rFonts"`
	Bold   *Empty `xml:"b"`
	Italic *Empty `xml:"i"`
	Color  *Color `xml:"color"`
	Size   *Size  `xml:"sz"`
	SizeCs *Size  `xml:"szCs"`
}

// MarshalXML implements custom XML marshaling for RunProperties
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, p.Font != nil, p.Font, "w:rFonts"); err != nil {
		return err
	}
	if p.Bold != nil {
		if err := encodeEmpty(e, "w:b"); err != nil {
			return err
		}
	}
	if p.Italic != nil {
		if err := encodeEmpty(e, "w:i"); err != nil {
			return err
		}
	}
	if err := encodeIf(e, p.Color != nil, p.Color, "w:color"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Size != nil, p.Size, "w:sz"); err != nil {
		return err
	}
	if err := encodeIf(e, p.SizeCs != nil, p.SizeCs, "w:szCs"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Text represents text content
type Text struct {
	XMLName xml.Name `xml:"t"`
	Space   string   `xml:"space,attr"`
	Content string   `xml:",chardata"`
}

// MarshalXML implements custom XML marshaling for Text to ensure proper namespacing
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:t"}
	start.Attr = nil
	if t.Space == "preserve" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Space: NamespaceXML, Local: "space"},
			Value: "preserve",
		})
	}
	return e.EncodeElement(t.Content, start)
}

// NewText builds a Text, preserving whitespace when the content needs it
func NewText(content string) *Text {
	t := &Text{Content: content}
	if content != strings.TrimSpace(content) || strings.Contains(content, "  ") {
		t.Space = "preserve"
	}
	return t
}

// Break represents a line or page break
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

// MarshalXML implements xml.Marshaler to ensure Break is self-closing
func (b Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:br"}
	start.Attr = nil
	if b.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "w:type"},
			Value: b.Type,
		})
	}
	return e.EncodeElement(struct{}{}, start)
}

// Color represents text color
type Color struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Color
func (c Color) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:color"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: c.Val},
	}
	return e.EncodeElement(struct{}{}, start)
}

// Size represents font size in half-points
type Size struct {
	Val int `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Size
func (s Size) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// Used for both w:sz and w:szCs
	if !strings.HasPrefix(start.Name.Local, "w:") {
		start.Name.Local = "w:" + start.Name.Local
	}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: strconv.Itoa(s.Val)},
	}
	return e.EncodeElement(struct{}{}, start)
}

// Font represents font information
type Font struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
	CS    string `xml:"cs,attr"`
}

// NewFont applies one family to the ASCII, high-ANSI and complex-script slots
func NewFont(family string) *Font {
	return &Font{ASCII: family, HAnsi: family, CS: family}
}

// MarshalXML implements custom XML marshaling for Font
func (f Font) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rFonts"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:ascii"}, Value: f.ASCII},
	}
	if f.HAnsi != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:hAnsi"}, Value: f.HAnsi})
	}
	if f.CS != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:cs"}, Value: f.CS})
	}
	return e.EncodeElement(struct{}{}, start)
}
