package xml

import (
	"encoding/xml"
	"strconv"
)

// Styles is the root of word/styles.xml
type Styles struct {
	XMLName     xml.Name          `xml:"styles"`
	DocDefaults *DocDefaults      `xml:"docDefaults"`
	Styles      []StyleDefinition `xml:"style"`
}

// MarshalXML implements custom XML marshaling for Styles
func (s Styles) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:styles"}, Attr: rootAttrs()}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, s.DocDefaults != nil, s.DocDefaults, "w:docDefaults"); err != nil {
		return err
	}
	for _, def := range s.Styles {
		if err := e.EncodeElement(def, xml.StartElement{Name: xml.Name{Local: "w:style"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// DocDefaults holds the document-wide run and paragraph defaults
type DocDefaults struct {
	RunProperties       *RunProperties       `xml:"rPrDefault>rPr"`
	ParagraphProperties *ParagraphProperties `xml:"pPrDefault>pPr"`
}

// MarshalXML implements custom XML marshaling for DocDefaults
func (d DocDefaults) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:docDefaults"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if d.RunProperties != nil {
		wrap := xml.StartElement{Name: xml.Name{Local: "w:rPrDefault"}}
		if err := e.EncodeToken(wrap); err != nil {
			return err
		}
		if err := e.EncodeElement(d.RunProperties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
		if err := e.EncodeToken(wrap.End()); err != nil {
			return err
		}
	}
	if d.ParagraphProperties != nil {
		wrap := xml.StartElement{Name: xml.Name{Local: "w:pPrDefault"}}
		if err := e.EncodeToken(wrap); err != nil {
			return err
		}
		if err := e.EncodeElement(d.ParagraphProperties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
		if err := e.EncodeToken(wrap.End()); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// StyleDefinition represents a single w:style element
type StyleDefinition struct {
	Type                string               `xml:"type,attr"`
	StyleID             string               `xml:"styleId,attr"`
	Default             bool                 `xml:"default,attr"`
	Name                *Style               `xml:"name"`
	BasedOn             *Style               `xml:"basedOn"`
	Next                *Style               `xml:"next"`
	QuickFormat         *Empty               `xml:"qFormat"`
	ParagraphProperties *ParagraphProperties `xml:"pPr"`
	RunProperties       *RunProperties       `xml:"rPr"`
	TableProperties     *TableProperties     `xml:"tblPr"`
}

// MarshalXML implements custom XML marshaling for StyleDefinition
func (s StyleDefinition) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:style"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:type"}, Value: s.Type},
	}
	if s.Default {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:default"}, Value: "1"})
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:styleId"}, Value: s.StyleID})
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, s.Name != nil, s.Name, "w:name"); err != nil {
		return err
	}
	if err := encodeIf(e, s.BasedOn != nil, s.BasedOn, "w:basedOn"); err != nil {
		return err
	}
	if err := encodeIf(e, s.Next != nil, s.Next, "w:next"); err != nil {
		return err
	}
	if s.QuickFormat != nil {
		if err := encodeEmpty(e, "w:qFormat"); err != nil {
			return err
		}
	}
	if err := encodeIf(e, s.ParagraphProperties != nil, s.ParagraphProperties, "w:pPr"); err != nil {
		return err
	}
	if err := encodeIf(e, s.RunProperties != nil, s.RunProperties, "w:rPr"); err != nil {
		return err
	}
	if err := encodeIf(e, s.TableProperties != nil, s.TableProperties, "w:tblPr"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Settings is the root of word/settings.xml
type Settings struct {
	DefaultTabStop    int
	CompatibilityMode int
}

// MarshalXML implements custom XML marshaling for Settings
func (s Settings) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:settings"}, Attr: rootAttrs()}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := e.EncodeElement(IntVal{Val: s.DefaultTabStop}, xml.StartElement{Name: xml.Name{Local: "w:defaultTabStop"}}); err != nil {
		return err
	}

	compat := xml.StartElement{Name: xml.Name{Local: "w:compat"}}
	if err := e.EncodeToken(compat); err != nil {
		return err
	}
	setting := xml.StartElement{
		Name: xml.Name{Local: "w:compatSetting"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "w:name"}, Value: "compatibilityMode"},
			{Name: xml.Name{Local: "w:uri"}, Value: "http://schemas.microsoft.com/office/word"},
			{Name: xml.Name{Local: "w:val"}, Value: strconv.Itoa(s.CompatibilityMode)},
		},
	}
	if err := e.EncodeElement(struct{}{}, setting); err != nil {
		return err
	}
	if err := e.EncodeToken(compat.End()); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
