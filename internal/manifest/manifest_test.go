package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	data := []byte(`{
	  "entries": [
	    {"path": "resume.pdf", "output_path": "resume.txt"},
	    {"path": "https://example.com/cv.docx"}
	  ]
	}`)

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(m.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.Entries))
	}
	if m.Entries[0].OutputPath != "resume.txt" {
		t.Errorf("output_path = %q", m.Entries[0].OutputPath)
	}
	if m.Entries[1].Path != "https://example.com/cv.docx" {
		t.Errorf("path = %q", m.Entries[1].Path)
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	// WHAT: Structural mistakes are caught by the schema, with an error
	// before any document is touched.
	cases := map[string]string{
		"not json":      `{"entries": [`,
		"no entries":    `{}`,
		"empty entries": `{"entries": []}`,
		"missing path":  `{"entries": [{"output_path": "x.txt"}]}`,
		"empty path":    `{"entries": [{"path": ""}]}`,
		"unknown field": `{"entries": [{"path": "a.pdf", "mode": "fast"}]}`,
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: Parse() = nil error, want failure", name)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(path, []byte(`{"entries":[{"path":"a.pdf"}]}`), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Entries) != 1 || m.Entries[0].Path != "a.pdf" {
		t.Errorf("Load() = %+v", m)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load(missing) = nil error, want failure")
	}
}
