package xml

import (
	"encoding/xml"
	"strconv"
)

// SectionProperties represents w:sectPr: page geometry and header/footer references
type SectionProperties struct {
	HeaderReferences []HeaderFooterReference `xml:"headerReference"`
	FooterReferences []HeaderFooterReference `xml:"footerReference"`
	PageSize         *PageSize               `xml:"pgSz"`
	PageMargins      *PageMargins            `xml:"pgMar"`
}

// MarshalXML implements custom XML marshaling for SectionProperties
func (s SectionProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:sectPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, ref := range s.HeaderReferences {
		if err := e.EncodeElement(ref, xml.StartElement{Name: xml.Name{Local: "w:headerReference"}}); err != nil {
			return err
		}
	}
	for _, ref := range s.FooterReferences {
		if err := e.EncodeElement(ref, xml.StartElement{Name: xml.Name{Local: "w:footerReference"}}); err != nil {
			return err
		}
	}
	if err := encodeIf(e, s.PageSize != nil, s.PageSize, "w:pgSz"); err != nil {
		return err
	}
	if err := encodeIf(e, s.PageMargins != nil, s.PageMargins, "w:pgMar"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// HeaderFooterReference points a section at a header or footer part by relationship id
type HeaderFooterReference struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

// MarshalXML implements custom XML marshaling for HeaderFooterReference.
// The element name (headerReference or footerReference) comes from the caller.
func (r HeaderFooterReference) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:type"}, Value: r.Type},
		{Name: xml.Name{Local: "r:id"}, Value: r.ID},
	}
	return e.EncodeElement(struct{}{}, start)
}

// PageSize represents w:pgSz in twips
type PageSize struct {
	Width  int `xml:"w,attr"`
	Height int `xml:"h,attr"`
}

// MarshalXML implements custom XML marshaling for PageSize
func (p PageSize) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pgSz"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:w"}, Value: strconv.Itoa(p.Width)},
		{Name: xml.Name{Local: "w:h"}, Value: strconv.Itoa(p.Height)},
	}
	return e.EncodeElement(struct{}{}, start)
}

// PageMargins represents w:pgMar in twips
type PageMargins struct {
	Top    int `xml:"top,attr"`
	Right  int `xml:"right,attr"`
	Bottom int `xml:"bottom,attr"`
	Left   int `xml:"left,attr"`
	Header int `xml:"header,attr"`
	Footer int `xml:"footer,attr"`
	Gutter int `xml:"gutter,attr"`
}

// MarshalXML implements custom XML marshaling for PageMargins
func (p PageMargins) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pgMar"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:top"}, Value: strconv.Itoa(p.Top)},
		{Name: xml.Name{Local: "w:right"}, Value: strconv.Itoa(p.Right)},
		{Name: xml.Name{Local: "w:bottom"}, Value: strconv.Itoa(p.Bottom)},
		{Name: xml.Name{Local: "w:left"}, Value: strconv.Itoa(p.Left)},
		{Name: xml.Name{Local: "w:header"}, Value: strconv.Itoa(p.Header)},
		{Name: xml.Name{Local: "w:footer"}, Value: strconv.Itoa(p.Footer)},
		{Name: xml.Name{Local: "w:gutter"}, Value: strconv.Itoa(p.Gutter)},
	}
	return e.EncodeElement(struct{}{}, start)
}

// HeaderFooter is the root of a header (w:hdr) or footer (w:ftr) part
type HeaderFooter struct {
	XMLName  xml.Name
	Elements []BodyElement `xml:"-"`
}

// NewHeader creates a w:hdr part root
func NewHeader(elements ...BodyElement) *HeaderFooter {
	return &HeaderFooter{XMLName: xml.Name{Local: "hdr"}, Elements: elements}
}

// NewFooter creates a w:ftr part root
func NewFooter(elements ...BodyElement) *HeaderFooter {
	return &HeaderFooter{XMLName: xml.Name{Local: "ftr"}, Elements: elements}
}

// MarshalXML implements custom XML marshaling for HeaderFooter
func (h HeaderFooter) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:" + h.XMLName.Local}, Attr: rootAttrs()}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeBlocks(e, h.Elements); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
