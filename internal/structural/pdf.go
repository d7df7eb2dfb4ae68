// Package structural extracts text from a document's own internal
// structure, without rendering to pixels.
package structural

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

// PDFText extracts text from PDF text objects, pages ascending, with no
// separator beyond what each page yields. The trimmed result is returned;
// empty-after-trim is common.ErrEmptyExtraction so the orchestrator can try
// the next strategy.
func PDFText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables and content
	// streams; a corrupt document must read as a strategy failure.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
	}

	text = strings.TrimSpace(sb.String())
	if text == "" {
		return "", common.ErrEmptyExtraction
	}
	return text, nil
}

// PDFPageCount reports the page count without extracting text, so callers
// can reject oversized documents before committing to expensive extraction.
func PDFPageCount(data []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n = 0
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return reader.NumPage(), nil
}
