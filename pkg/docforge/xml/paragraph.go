package xml

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// Paragraph represents a paragraph in the document
type Paragraph struct {
	Properties *ParagraphProperties `xml:"pPr"`
	// Content maintains the order of runs and fields
	Content []ParagraphContent `xml:"-"`
}

// isBodyElement implements the BodyElement interface
func (p Paragraph) isBodyElement() {}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, &run)
			case "fldSimple":
				var field SimpleField
				if err := d.DecodeElement(&field, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, &field)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}

	return nil
}

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}

	for _, content := range p.Content {
		switch c := content.(type) {
		case *Run:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
				return err
			}
		case *SimpleField:
			if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:fldSimple"}}); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the concatenated text of all runs in a paragraph
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for _, content := range p.Content {
		switch c := content.(type) {
		case *Run:
			sb.WriteString(c.GetText())
		case *SimpleField:
			if c.Run != nil {
				sb.WriteString(c.Run.GetText())
			}
		}
	}
	return sb.String()
}

// Runs returns the direct runs of the paragraph
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, content := range p.Content {
		if r, ok := content.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// ParagraphProperties represents paragraph formatting properties.
// Fields are written in the order CT_PPr requires.
type ParagraphProperties struct {
	Style             *Style               `xml:"pStyle"`
	KeepNext          *Empty               `xml:"keepNext"`
	Numbering         *NumberingProperties `xml:"numPr"`
	Spacing           *Spacing             `xml:"spacing"`
	Indentation       *Indentation         `xml:"ind"`
	Alignment         *Alignment           `xml:"jc"`
	OutlineLevel      *IntVal              `xml:"outlineLvl"`
	RunProperties     *RunProperties       `xml:"rPr"`
	SectionProperties *SectionProperties   `xml:"sectPr"`
}

// MarshalXML implements custom XML marshaling for ParagraphProperties
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, p.Style != nil, p.Style, "w:pStyle"); err != nil {
		return err
	}
	if p.KeepNext != nil {
		if err := encodeEmpty(e, "w:keepNext"); err != nil {
			return err
		}
	}
	if err := encodeIf(e, p.Numbering != nil, p.Numbering, "w:numPr"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Spacing != nil, p.Spacing, "w:spacing"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Indentation != nil, p.Indentation, "w:ind"); err != nil {
		return err
	}
	if err := encodeIf(e, p.Alignment != nil, p.Alignment, "w:jc"); err != nil {
		return err
	}
	if err := encodeIf(e, p.OutlineLevel != nil, p.OutlineLevel, "w:outlineLvl"); err != nil {
		return err
	}
	if err := encodeIf(e, p.RunProperties != nil, p.RunProperties, "w:rPr"); err != nil {
		return err
	}
	if err := encodeIf(e, p.SectionProperties != nil, p.SectionProperties, "w:sectPr"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// NumberingProperties attaches a paragraph to a numbering instance (w:numPr)
type NumberingProperties struct {
	Level IntVal `xml:"ilvl"`
	NumID IntVal `xml:"numId"`
}

// MarshalXML implements custom XML marshaling for NumberingProperties
func (n NumberingProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:numPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeElement(n.Level, xml.StartElement{Name: xml.Name{Local: "w:ilvl"}}); err != nil {
		return err
	}
	if err := e.EncodeElement(n.NumID, xml.StartElement{Name: xml.Name{Local: "w:numId"}}); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Alignment represents text alignment
type Alignment struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Alignment
func (a Alignment) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:jc"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:val"}, Value: a.Val},
	}
	return e.EncodeElement(struct{}{}, start)
}

// Indentation represents paragraph indentation in twips
type Indentation struct {
	Left    int `xml:"left,attr"`
	Right   int `xml:"right,attr"`
	Hanging int `xml:"hanging,attr"`
}

// MarshalXML implements custom XML marshaling for Indentation
func (i Indentation) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:ind"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:left"}, Value: strconv.Itoa(i.Left)},
	}
	if i.Right != 0 {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:right"}, Value: strconv.Itoa(i.Right)})
	}
	if i.Hanging != 0 {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:hanging"}, Value: strconv.Itoa(i.Hanging)})
	}
	return e.EncodeElement(struct{}{}, start)
}

// Spacing represents paragraph spacing in twips.
// Before and After are always written so an explicit zero overrides the style.
type Spacing struct {
	Before int `xml:"before,attr"`
	After  int `xml:"after,attr"`
}

// MarshalXML implements custom XML marshaling for Spacing
func (s Spacing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:spacing"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:before"}, Value: strconv.Itoa(s.Before)},
		{Name: xml.Name{Local: "w:after"}, Value: strconv.Itoa(s.After)},
	}
	return e.EncodeElement(struct{}{}, start)
}

// SimpleField represents a w:fldSimple element such as a PAGE number
type SimpleField struct {
	Instr string `xml:"instr,attr"`
	Run   *Run   `xml:"r"`
}

// isParagraphContent implements the ParagraphContent interface
func (f SimpleField) isParagraphContent() {}

// MarshalXML implements custom XML marshaling for SimpleField
func (f SimpleField) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:fldSimple"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:instr"}, Value: f.Instr},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if f.Run != nil {
		if err := e.EncodeElement(f.Run, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
