// Package manifest parses batch extraction manifests for the CLI.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Entry is one document to extract. Path is a local file path or a URL
// understood by the fetcher. OutputPath is optional; empty means stdout.
type Entry struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path,omitempty"`
}

// Manifest is a batch of extraction jobs.
type Manifest struct {
	Entries []Entry `json:"entries"`
}

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["entries"],
  "additionalProperties": false,
  "properties": {
    "entries": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["path"],
        "additionalProperties": false,
        "properties": {
          "path": {"type": "string", "minLength": 1},
          "output_path": {"type": "string"}
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("manifest.json", schemaJSON)

// Load reads, validates, and decodes a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse validates manifest bytes against the schema and decodes them.
func Parse(data []byte) (*Manifest, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("manifest is not valid JSON: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("manifest failed validation: %w", err)
	}

	var m Manifest
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
