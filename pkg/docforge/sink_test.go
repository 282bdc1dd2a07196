package docforge

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name   string
		atomic bool
	}{
		{name: "atomic", atomic: true},
		{name: "truncate", atomic: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.docx")
			cfg := DefaultConfig()
			cfg.AtomicWrites = tt.atomic
			cfg.FileMode = 0o600

			if err := os.WriteFile(path, []byte("stale content that is longer"), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := WriteFile(path, []byte("fresh"), cfg); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "fresh" {
				t.Errorf("content = %q, want fresh", got)
			}
			if tt.atomic {
				info, err := os.Stat(path)
				if err != nil {
					t.Fatal(err)
				}
				if perm := info.Mode().Perm(); perm != 0o600 {
					t.Errorf("mode = %o, want 600", perm)
				}
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				var names []string
				for _, e := range entries {
					names = append(names, e.Name())
				}
				t.Errorf("directory holds %v, want only out.docx", names)
			}
		})
	}
}

func TestWriteFileFailures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "out.docx")

	tests := []struct {
		name   string
		path   string
		atomic bool
		wantOp string
	}{
		{name: "empty path", path: "", atomic: true, wantOp: "open"},
		{name: "missing directory atomic", path: missing, atomic: true, wantOp: "create temp"},
		{name: "missing directory truncate", path: missing, atomic: false, wantOp: "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.AtomicWrites = tt.atomic
			err := WriteFile(tt.path, []byte("data"), cfg)

			var ioErr *IOError
			if !errors.As(err, &ioErr) {
				t.Fatalf("expected *IOError, got %v", err)
			}
			if ioErr.Op != tt.wantOp {
				t.Errorf("Op = %q, want %q", ioErr.Op, tt.wantOp)
			}
			if tt.path != "" {
				if _, statErr := os.Stat(tt.path); !os.IsNotExist(statErr) {
					t.Errorf("failed write left %s behind", tt.path)
				}
			}
		})
	}
}

func TestBuildFile(t *testing.T) {
	b := newTestBuilder(t)
	path := filepath.Join(t.TempDir(), "recap.docx")

	doc := mustDocument(t, b, b.Title("Session Recap"), b.BodyText("All tasks done.", TextOptions{}))
	if err := BuildFile(path, doc, DefaultConfig()); err != nil {
		t.Fatalf("BuildFile failed: %v", err)
	}

	pkg, err := OpenPackageFile(path)
	if err != nil {
		t.Fatalf("OpenPackageFile failed: %v", err)
	}
	paras := parsedBody(t, pkg).Paragraphs()
	if len(paras) != 2 || paras[1].GetText() != "All tasks done." {
		t.Errorf("unexpected body after reading %s back", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := encode(doc, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, encoded) {
		t.Error("file content differs from the encoded bytes")
	}
}

func TestBuildFileLeavesNothingOnFailure(t *testing.T) {
	b := newTestBuilder(t)

	tests := []struct {
		name  string
		block Block
		check func(error) bool
	}{
		{name: "dangling reference", block: b.BulletItem("orphan", "missing"), check: IsDanglingReference},
		{name: "invalid character", block: b.BodyText("bell\x07", TextOptions{}), check: IsEncodingError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.docx")

			doc := mustDocument(t, b, b.BodyText("ok", TextOptions{}))
			doc.sections[0].blocks = append(doc.sections[0].blocks, tt.block)

			err := BuildFile(path, doc, DefaultConfig())
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Errorf("failed build left %d entries behind", len(entries))
			}
		})
	}
}

func TestOpenPackageFileMissing(t *testing.T) {
	_, err := OpenPackageFile(filepath.Join(t.TempDir(), "absent.docx"))
	if !IsIOError(err) {
		t.Errorf("expected an IOError, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenPackageFile(path); err == nil || !strings.Contains(err.Error(), "zip") {
		t.Errorf("expected a zip error, got %v", err)
	}
}
