package xml

import (
	"encoding/xml"
	"strconv"
)

// Namespace URIs used by the generated parts.
const (
	NamespaceW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceXML = "http://www.w3.org/XML/1998/namespace"
)

// BodyElement represents any element that can appear in a document body
type BodyElement interface {
	isBodyElement()
}

// ParagraphContent represents any content that can appear in a paragraph
type ParagraphContent interface {
	isParagraphContent()
}

// Empty represents an empty element (used for boolean properties)
type Empty struct{}

// Style represents a style reference
type Style struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Style
func (s Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// The element name depends on the context (pStyle, tblStyle, basedOn, ...)
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: s.Val},
	}
	return e.EncodeElement(struct{}{}, start)
}

// IntVal represents an element carrying a single numeric w:val attribute
type IntVal struct {
	Val int `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for IntVal
func (v IntVal) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: strconv.Itoa(v.Val)},
	}
	return e.EncodeElement(struct{}{}, start)
}

// rootAttrs returns the namespace declarations every generated root element carries.
func rootAttrs() []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Local: "xmlns:w"}, Value: NamespaceW},
		{Name: xml.Name{Local: "xmlns:r"}, Value: NamespaceR},
	}
}

// encodeEmpty writes a self-closing w:<name/> element.
func encodeEmpty(e *xml.Encoder, name string) error {
	return e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: name}})
}

// encodeIf encodes v under name when present is true.
func encodeIf(e *xml.Encoder, present bool, v interface{}, name string) error {
	if !present {
		return nil
	}
	return e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: name}})
}
