// Package xml provides the WordprocessingML structures written into a DOCX package.
//
// Every type marshals itself with explicit "w:" prefixed element and attribute
// names so the output needs no namespace rewriting after encoding. Child
// elements are written in the order the OOXML schema prescribes; Word rejects
// parts whose property elements are out of order.
//
// # Structure Organization
//
//   - types.go: core interfaces (BodyElement, ParagraphContent) and shared value types
//   - document.go: Document and Body (the word/document.xml root)
//   - paragraph.go: paragraphs, paragraph properties, numbering references, fields
//   - run.go: runs, run properties, text and breaks
//   - table.go: tables, rows, cells, borders and shading
//   - section.go: section properties and header/footer part roots
//   - numbering.go: word/numbering.xml (abstract definitions and instances)
//   - styles.go: word/styles.xml and word/settings.xml
//
// # Reading
//
// Body, Paragraph and the struct tags on the remaining types also support
// decoding, so a generated body fragment can be parsed back with ParseDocument
// for inspection and tests:
//
//	doc, err := xml.ParseDocument(bytes.NewReader(part))
//	if err != nil {
//	    return err
//	}
//	for _, tbl := range doc.Body.Tables() {
//	    fmt.Println(len(tbl.Rows))
//	}
package xml
