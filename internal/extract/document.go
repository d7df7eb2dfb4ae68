// Package extract sequences text-extraction strategies per document kind,
// accepting the first usable result and aggregating failure diagnostics
// when every strategy is exhausted.
package extract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joseph-ayodele/doc-extractor/constants"
	"github.com/joseph-ayodele/doc-extractor/internal/format"
)

// Document is one immutable extraction input: raw bytes, the untrusted
// declared MIME type, and the original filename. Its kind is classified at
// construction, before any extraction strategy can run. A Document memoizes
// its first extraction outcome, so Process is idempotent per instance.
// Distinct Documents share no state and may be processed concurrently.
type Document struct {
	Data     []byte
	MIME     string
	Filename string
	Kind     constants.Kind

	mu     sync.Mutex
	done   bool
	result Result
	err    error
}

// NewDocument classifies the input and returns a processable Document, or
// common.ErrUnsupportedFormat before any extraction work is attempted.
func NewDocument(data []byte, declaredMIME, filename string) (*Document, error) {
	kind, err := format.Detect(data, declaredMIME, filename)
	if err != nil {
		return nil, err
	}
	return &Document{
		Data:     data,
		MIME:     declaredMIME,
		Filename: filename,
		Kind:     kind,
	}, nil
}

// Result is a successful extraction: the trimmed text and the strategy
// family that produced it. Text is never whitespace-only.
type Result struct {
	Text   string
	Method constants.Method
}

// Attempt records one failed strategy for the diagnostics list.
type Attempt struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// ExtractionError reports total strategy exhaustion, carrying every
// attempted strategy and its failure reason in attempt order.
type ExtractionError struct {
	Attempts []Attempt
}

func (e *ExtractionError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %s", a.Strategy, a.Reason)
	}
	return "all extraction strategies failed: " + strings.Join(parts, " | ")
}
