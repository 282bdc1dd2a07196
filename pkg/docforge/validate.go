package docforge

import "fmt"

// Validate checks a whole document and reports every problem found:
// styles, geometry, table shapes, paragraph settings and numbering
// references. The serializer calls it before producing any output.
func Validate(doc *Document) error {
	if doc == nil {
		return NewInvalidValueError("document", nil, "document is nil")
	}
	errs := NewMultiError()
	if len(doc.sections) == 0 {
		errs.Add(NewInvalidValueError("document", 0, "a document needs at least one section"))
	}
	if err := doc.styles.validate(); err != nil {
		errs.Add(fmt.Errorf("styles: %w", err))
	}

	defs := make(map[string]NumberingDefinition, len(doc.numbering))
	for _, d := range doc.numbering {
		if _, dup := defs[d.id]; dup {
			errs.Add(&DuplicateIDError{ID: d.id})
			continue
		}
		defs[d.id] = d
	}

	for si, s := range doc.sections {
		if err := s.geometry.validate(); err != nil {
			errs.Add(fmt.Errorf("section %d: %w", si, err))
		}
		for bi, b := range s.blocks {
			switch blk := b.(type) {
			case Paragraph, PageBreak:
			case Table:
				if err := blk.validate(); err != nil {
					errs.Add(fmt.Errorf("section %d, block %d: %w", si, bi, err))
				}
			default:
				errs.Add(NewInvalidValueError("block", fmt.Sprintf("%T", b), fmt.Sprintf("unsupported block at section %d, block %d", si, bi)))
			}
		}
	}

	doc.walkParagraphs(func(p Paragraph, location string) {
		if err := p.validate(); err != nil {
			errs.Add(fmt.Errorf("%s: %w", location, err))
			return
		}
		ref := p.props.Numbering
		if ref == nil {
			return
		}
		def, ok := defs[ref.ListID]
		if !ok {
			errs.Add(NewDanglingReferenceError(ref.ListID, location))
			return
		}
		if ref.Level >= len(def.levels) {
			errs.Add(NewInvalidValueError("list level", ref.Level,
				fmt.Sprintf("list %q defines %d levels at %s", ref.ListID, len(def.levels), location)))
		}
	})

	return errs.Err()
}
