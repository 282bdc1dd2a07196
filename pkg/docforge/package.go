package docforge

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Part names of the generated package
const (
	PartContentTypes  = "[Content_Types].xml"
	PartPackageRels   = "_rels/.rels"
	PartAppProps      = "docProps/app.xml"
	PartCoreProps     = "docProps/core.xml"
	PartDocument      = "word/document.xml"
	PartDocumentRels  = "word/_rels/document.xml.rels"
	PartStyles        = "word/styles.xml"
	PartNumbering     = "word/numbering.xml"
	PartSettings      = "word/settings.xml"
	xmlDeclaration    = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	relsNamespace     = "http://schemas.openxmlformats.org/package/2006/relationships"
	typesNamespace    = "http://schemas.openxmlformats.org/package/2006/content-types"
	officeRelBase     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	wordMLContentBase = "application/vnd.openxmlformats-officedocument.wordprocessingml."
)

// Relationship types
const (
	RelOfficeDocument = officeRelBase + "officeDocument"
	RelStyles         = officeRelBase + "styles"
	RelNumbering      = officeRelBase + "numbering"
	RelSettings       = officeRelBase + "settings"
	RelHeader         = officeRelBase + "header"
	RelFooter         = officeRelBase + "footer"
	RelExtendedProps  = officeRelBase + "extended-properties"
	RelCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

// Content types
const (
	TypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	TypeXML           = "application/xml"
	TypeDocument      = wordMLContentBase + "document.main+xml"
	TypeStyles        = wordMLContentBase + "styles+xml"
	TypeNumbering     = wordMLContentBase + "numbering+xml"
	TypeSettings      = wordMLContentBase + "settings+xml"
	TypeHeader        = wordMLContentBase + "header+xml"
	TypeFooter        = wordMLContentBase + "footer+xml"
	TypeCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	TypeAppProps      = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Relationship represents a relationship in the package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships of one part
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// ContentTypes is the package manifest ([Content_Types].xml)
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps a file extension to a content type
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps one part to a content type
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Lookup returns the content type declared for a part name (without leading slash)
func (c *ContentTypes) Lookup(partName string) (string, bool) {
	for _, o := range c.Overrides {
		if o.PartName == "/"+partName {
			return o.ContentType, true
		}
	}
	ext := partName
	for i := len(partName) - 1; i >= 0 && partName[i] != '/'; i-- {
		if partName[i] == '.' {
			ext = partName[i+1:]
			break
		}
	}
	for _, d := range c.Defaults {
		if d.Extension == ext {
			return d.ContentType, true
		}
	}
	return "", false
}

// coreProperties is docProps/core.xml. Created is omitted unless set.
type coreProperties struct {
	Title       string
	Subject     string
	Creator     string
	Description string
	Created     time.Time
}

func (c coreProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: "cp:coreProperties"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:cp"}, Value: "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"},
			{Name: xml.Name{Local: "xmlns:dc"}, Value: "http://purl.org/dc/elements/1.1/"},
			{Name: xml.Name{Local: "xmlns:dcterms"}, Value: "http://purl.org/dc/terms/"},
			{Name: xml.Name{Local: "xmlns:xsi"}, Value: "http://www.w3.org/2001/XMLSchema-instance"},
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	fields := []struct{ name, value string }{
		{"dc:title", c.Title},
		{"dc:subject", c.Subject},
		{"dc:creator", c.Creator},
		{"dc:description", c.Description},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := e.EncodeElement(f.value, xml.StartElement{Name: xml.Name{Local: f.name}}); err != nil {
			return err
		}
	}
	if !c.Created.IsZero() {
		created := xml.StartElement{
			Name: xml.Name{Local: "dcterms:created"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "xsi:type"}, Value: "dcterms:W3CDTF"}},
		}
		if err := e.EncodeElement(c.Created.UTC().Format(time.RFC3339), created); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// appProperties is docProps/app.xml
type appProperties struct {
	XMLName     xml.Name `xml:"Properties"`
	Namespace   string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
	AppVersion  string   `xml:"AppVersion"`
}

// marshalPart encodes v with the XML declaration Word expects
func marshalPart(name string, v interface{}) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return append([]byte(xmlDeclaration), out...), nil
}
