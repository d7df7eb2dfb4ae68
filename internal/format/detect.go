// Package format classifies raw document bytes into a supported kind.
//
// Classification is content-first: magic numbers decide, the declared
// content-type header is untrusted, and the filename extension is only
// consulted when sniffing is inconclusive.
package format

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/joseph-ayodele/doc-extractor/constants"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

var (
	magicPDF    = []byte("%PDF-")
	magicJPEG   = []byte{0xFF, 0xD8, 0xFF}
	magicPNG    = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	magicTIFFLE = []byte{'I', 'I', 0x2A, 0x00}
	magicTIFFBE = []byte{'M', 'M', 0x00, 0x2A}
	magicZIP    = []byte{'P', 'K', 0x03, 0x04}
	// OLE2 compound file, the legacy .doc container.
	magicOLE = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect maps raw bytes plus filename to a canonical document kind. The
// declared MIME type is accepted only as a diagnostic; it never decides.
// Returns common.ErrUnsupportedFormat (wrapped with the sniffed type) when
// neither content nor extension yields a supported kind.
func Detect(data []byte, declaredMIME, filename string) (constants.Kind, error) {
	if kind, ok := sniff(data); ok {
		return kind, nil
	}
	if kind, ok := constants.MapExtToKind(filepath.Ext(filename)); ok {
		return kind, nil
	}
	detected := http.DetectContentType(firstBytes(data, 512))
	return "", fmt.Errorf("%w: sniffed %q, declared %q, filename %q",
		common.ErrUnsupportedFormat, detected, declaredMIME, filename)
}

func sniff(data []byte) (constants.Kind, bool) {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return constants.PDF, true
	case bytes.HasPrefix(data, magicJPEG):
		return constants.JPEG, true
	case bytes.HasPrefix(data, magicPNG):
		return constants.PNG, true
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return constants.TIFF, true
	case bytes.HasPrefix(data, magicOLE):
		return constants.LegacyDoc, true
	case bytes.HasPrefix(data, magicZIP):
		if isDocxArchive(data) {
			return constants.ModernDocx, true
		}
		// Some other ZIP container (xlsx, odt, plain archive): let the
		// extension fallback decide, else unsupported.
		return "", false
	}
	return "", false
}

// isDocxArchive reports whether a ZIP payload carries the WordprocessingML
// document part.
func isDocxArchive(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}

func firstBytes(data []byte, n int) []byte {
	if len(data) < n {
		return data
	}
	return data[:n]
}
