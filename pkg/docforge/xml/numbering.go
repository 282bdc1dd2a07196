package xml

import (
	"encoding/xml"
	"strconv"
)

// Numbering is the root of word/numbering.xml.
// All abstract definitions precede all instances, as the schema requires.
type Numbering struct {
	XMLName      xml.Name      `xml:"numbering"`
	AbstractNums []AbstractNum `xml:"abstractNum"`
	Nums         []Num         `xml:"num"`
}

// MarshalXML implements custom XML marshaling for Numbering
func (n Numbering) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{Name: xml.Name{Local: "w:numbering"}, Attr: rootAttrs()}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	for _, an := range n.AbstractNums {
		if err := e.EncodeElement(an, xml.StartElement{Name: xml.Name{Local: "w:abstractNum"}}); err != nil {
			return err
		}
	}
	for _, num := range n.Nums {
		if err := e.EncodeElement(num, xml.StartElement{Name: xml.Name{Local: "w:num"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// AbstractNum is a list formatting definition (w:abstractNum)
type AbstractNum struct {
	ID             int     `xml:"abstractNumId,attr"`
	MultiLevelType *Style  `xml:"multiLevelType"`
	Levels         []Level `xml:"lvl"`
}

// MarshalXML implements custom XML marshaling for AbstractNum
func (a AbstractNum) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:abstractNum"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:abstractNumId"}, Value: strconv.Itoa(a.ID)},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := encodeIf(e, a.MultiLevelType != nil, a.MultiLevelType, "w:multiLevelType"); err != nil {
		return err
	}
	for _, lvl := range a.Levels {
		if err := e.EncodeElement(lvl, xml.StartElement{Name: xml.Name{Local: "w:lvl"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Level is one indentation level of an abstract numbering definition (w:lvl)
type Level struct {
	ILvl                int                  `xml:"ilvl,attr"`
	Start               IntVal               `xml:"start"`
	NumFmt              Style                `xml:"numFmt"`
	LevelText           Style                `xml:"lvlText"`
	Justification       Style                `xml:"lvlJc"`
	ParagraphProperties *ParagraphProperties `xml:"pPr"`
	RunProperties       *RunProperties       `xml:"rPr"`
}

// MarshalXML implements custom XML marshaling for Level
func (l Level) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:lvl"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:ilvl"}, Value: strconv.Itoa(l.ILvl)},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if err := e.EncodeElement(l.Start, xml.StartElement{Name: xml.Name{Local: "w:start"}}); err != nil {
		return err
	}
	if err := e.EncodeElement(l.NumFmt, xml.StartElement{Name: xml.Name{Local: "w:numFmt"}}); err != nil {
		return err
	}
	if err := e.EncodeElement(l.LevelText, xml.StartElement{Name: xml.Name{Local: "w:lvlText"}}); err != nil {
		return err
	}
	if err := e.EncodeElement(l.Justification, xml.StartElement{Name: xml.Name{Local: "w:lvlJc"}}); err != nil {
		return err
	}
	if err := encodeIf(e, l.ParagraphProperties != nil, l.ParagraphProperties, "w:pPr"); err != nil {
		return err
	}
	if err := encodeIf(e, l.RunProperties != nil, l.RunProperties, "w:rPr"); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Num is a numbering instance referenced by paragraphs through w:numId
type Num struct {
	ID            int    `xml:"numId,attr"`
	AbstractNumID IntVal `xml:"abstractNumId"`
}

// MarshalXML implements custom XML marshaling for Num
func (n Num) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:num"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "w:numId"}, Value: strconv.Itoa(n.ID)},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeElement(n.AbstractNumID, xml.StartElement{Name: xml.Name{Local: "w:abstractNumId"}}); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// ParseNumbering parses a numbering part
func ParseNumbering(data []byte) (*Numbering, error) {
	var n Numbering
	if err := xml.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
