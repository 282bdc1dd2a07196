package main

import (
	"fmt"
	"io"
	"os"

	"github.com/benjaminschreck/go-docforge/pkg/docforge"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	cfg := docforge.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "docforge version %s\n", version)
		return 0
	case "build":
		if len(args) != 3 {
			fmt.Fprintln(stderr, "usage: docforge build <report.json> <out.docx>")
			return 1
		}
		if err := build(args[1], args[2], cfg); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "document written to %s\n", args[2])
		return 0
	case "inspect":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "usage: docforge inspect <file.docx>")
			return 1
		}
		if err := inspect(args[1], stdout); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		usage(stderr)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docforge <command> [arguments]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  build <report.json> <out.docx>   Build a report document")
	fmt.Fprintln(w, "  inspect <file.docx>              List parts and body blocks")
	fmt.Fprintln(w, "  version                          Show version information")
}

func build(input, output string, cfg *docforge.Config) error {
	f, err := os.Open(input)
	if err != nil {
		return docforge.NewIOError("open", input, err)
	}
	defer f.Close()

	report, err := docforge.LoadReport(f)
	if err != nil {
		return err
	}
	doc, err := report.Build(docforge.DefaultStyles())
	if err != nil {
		return err
	}
	return docforge.BuildFile(output, doc, cfg)
}

func inspect(path string, w io.Writer) error {
	pkg, err := docforge.OpenPackageFile(path)
	if err != nil {
		return err
	}

	types, err := pkg.ContentTypes()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Parts:")
	for _, name := range pkg.PartNames() {
		ctype, _ := types.Lookup(name)
		fmt.Fprintf(w, "  %-32s %s\n", name, ctype)
	}

	doc, err := pkg.Document()
	if err != nil {
		return err
	}
	if doc.Body == nil {
		return fmt.Errorf("document has no body")
	}
	fmt.Fprintf(w, "Body: %d paragraphs, %d tables\n", len(doc.Body.Paragraphs()), len(doc.Body.Tables()))
	for i, t := range doc.Body.Tables() {
		cols := 0
		if len(t.Rows) > 0 {
			cols = len(t.Rows[0].Cells)
		}
		fmt.Fprintf(w, "  table %d: %d rows x %d cells\n", i, len(t.Rows), cols)
	}

	numbering, err := pkg.Numbering()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Numbering: %d definitions\n", len(numbering.Nums))
	return nil
}
