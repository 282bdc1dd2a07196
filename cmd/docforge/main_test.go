package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleReport = `{
  "title": "Session Recap",
  "footer": "Page ",
  "sections": [{"blocks": [
    {"kind": "heading", "text": "Work"},
    {"kind": "bullets", "items": [{"text": "one"}, {"text": "two"}]},
    {"kind": "table", "columns": [4680, 4680], "header": ["Task", "Status"], "rows": [["Ship", "DONE"]], "statusColumn": 1}
  ]}]
}`

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "no arguments", args: nil, wantCode: 1, wantErr: "Usage: docforge"},
		{name: "unknown command", args: []string{"render"}, wantCode: 1, wantErr: "Unknown command: render"},
		{name: "build without output", args: []string{"build", "in.json"}, wantCode: 1, wantErr: "usage: docforge build"},
		{name: "inspect without file", args: []string{"inspect"}, wantCode: 1, wantErr: "usage: docforge inspect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if got := stdout.String(); got != "docforge version "+version+"\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunBuildAndInspect(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "recap.json")
	output := filepath.Join(dir, "recap.docx")
	if err := os.WriteFile(input, []byte(sampleReport), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"build", input, output}, &stdout, &stderr); code != 0 {
		t.Fatalf("build exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "document written to "+output) {
		t.Errorf("stdout = %q", stdout.String())
	}

	stdout.Reset()
	stderr.Reset()
	if code := run([]string{"inspect", output}, &stdout, &stderr); code != 0 {
		t.Fatalf("inspect exit code = %d, stderr = %s", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"word/document.xml",
		"word/footer1.xml",
		"Body: 4 paragraphs, 1 tables",
		"table 0: 2 rows x 2 cells",
		"Numbering: 1 definitions",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestRunBuildFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"sections": [{"blocks": [{"kind": "chart"}]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out.docx")

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "missing input", input: filepath.Join(dir, "absent.json"), wantErr: "i/o failure during open"},
		{name: "unknown block", input: bad, wantErr: "invalid block kind chart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run([]string{"build", tt.input, output}, &stdout, &stderr); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantErr)
			}
			if _, err := os.Stat(output); !os.IsNotExist(err) {
				t.Error("failed build left an output file")
			}
		})
	}
}
