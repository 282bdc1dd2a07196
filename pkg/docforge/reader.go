package docforge

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	wml "github.com/benjaminschreck/go-docforge/pkg/docforge/xml"
)

// Package gives read access to the parts of a DOCX container
type Package struct {
	reader *zip.Reader
	parts  map[string]*zip.File
	order  []string
}

// OpenPackage indexes the parts of the container in r
func OpenPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	pkg := &Package{
		reader: zr,
		parts:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, file := range zr.File {
		pkg.parts[file.Name] = file
		pkg.order = append(pkg.order, file.Name)
	}

	if _, ok := pkg.parts[PartDocument]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", PartDocument)
	}
	return pkg, nil
}

// OpenPackageBytes indexes an in-memory container
func OpenPackageBytes(data []byte) (*Package, error) {
	return OpenPackage(bytes.NewReader(data), int64(len(data)))
}

// OpenPackageFile reads a container from disk
func OpenPackageFile(path string) (*Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError("read", path, err)
	}
	return OpenPackageBytes(content)
}

// PartNames returns the part names in container order
func (p *Package) PartNames() []string {
	return append([]string(nil), p.order...)
}

// Part returns the raw content of a part
func (p *Package) Part(name string) ([]byte, error) {
	file, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", name, err)
	}
	return content, nil
}

// Relationships returns the relationships of a part, e.g. "word/document.xml"
// reads "word/_rels/document.xml.rels". A part without relationships yields none.
func (p *Package) Relationships(partName string) ([]Relationship, error) {
	dir, base := "", partName
	if idx := strings.LastIndex(partName, "/"); idx != -1 {
		dir = partName[:idx]
		base = partName[idx+1:]
	}

	relPath := fmt.Sprintf("%s/_rels/%s.rels", dir, base)
	if dir == "" {
		relPath = fmt.Sprintf("_rels/%s.rels", base)
	}
	if _, ok := p.parts[relPath]; !ok {
		return nil, nil
	}

	content, err := p.Part(relPath)
	if err != nil {
		return nil, err
	}
	var rels Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return rels.Relationship, nil
}

// ContentTypes parses the package manifest
func (p *Package) ContentTypes() (*ContentTypes, error) {
	content, err := p.Part(PartContentTypes)
	if err != nil {
		return nil, err
	}
	var types ContentTypes
	if err := xml.Unmarshal(content, &types); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	return &types, nil
}

// Document parses the body part
func (p *Package) Document() (*wml.Document, error) {
	content, err := p.Part(PartDocument)
	if err != nil {
		return nil, err
	}
	return wml.ParseDocument(bytes.NewReader(content))
}

// Numbering parses the numbering part
func (p *Package) Numbering() (*wml.Numbering, error) {
	content, err := p.Part(PartNumbering)
	if err != nil {
		return nil, err
	}
	return wml.ParseNumbering(content)
}
