// Package docforge builds formatted business reports and writes them as DOCX
// packages.
//
// A report is assembled bottom-up from validated nodes (runs, paragraphs,
// tables, sections), styled from a Styles value and numbered through a
// NumberingRegistry, then encoded into a deterministic zip container and
// written to disk atomically.
//
// # Quick Start
//
//	styles := docforge.DefaultStyles()
//	b, err := docforge.NewBuilder(styles, docforge.NewNumberingRegistry())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	list, _ := b.NewBulletList()
//	status, err := b.DataTable(
//	    []docforge.Twips{6360, 3000},
//	    []string{"Task", "Status"},
//	    [][]string{{"Migrate ledger", "DONE"}, {"Reconcile bank feed", "PENDING"}},
//	    1,
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	section, err := docforge.NewSection(docforge.LetterPortrait(),
//	    docforge.SectionParts{Header: b.RunningHeader("Session recap"), Footer: b.PageFooter("Page ")},
//	    b.Title("Session Recap"),
//	    b.SectionHeading("Work completed"),
//	    b.BulletItem("Imported 2024 invoices", list),
//	    status,
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := docforge.NewDocument(styles, b.Numbering(), section)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := docforge.BuildFile("recap.docx", doc, nil); err != nil {
//	    log.Fatal(err)
//	}
//
// # Units
//
// Widths, margins, spacing and indentation are Twips (1/20 pt); font sizes
// are HalfPoints. Points and Inches convert at the API boundary.
//
// # Lists
//
// Every logical list needs its own numbering id, otherwise the second list
// continues the first one's counter. Builder.NewBulletList and
// Builder.NewNumberedList declare a fresh definition for each call.
//
// # Errors
//
// Construction and serialization report typed errors: ShapeMismatchError,
// DanglingReferenceError, EncodingError, IOError, DuplicateIDError and
// InvalidValueError. Validate collects every problem of a document into a
// MultiError. Use the Is* helpers or errors.As to inspect them.
//
// # Configuration
//
// Config is read from DOCFORGE_LOG_LEVEL, DOCFORGE_COMPRESSION,
// DOCFORGE_ATOMIC_WRITES and DOCFORGE_FILE_MODE at startup and can be
// replaced with SetGlobalConfig.
package docforge
