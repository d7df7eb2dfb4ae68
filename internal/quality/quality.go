// Package quality decides whether extracted text is usable or garbage.
package quality

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

const (
	// maxNonPrintableRatio is the tolerated share of non-printable,
	// non-whitespace characters before text counts as binary noise.
	maxNonPrintableRatio = 0.15

	// minAlphaRatio is the minimum share of alphabetic characters for
	// text to count as prose.
	minAlphaRatio = 0.20
)

// Usable returns nil when text passes the quality gate, or an error wrapping
// common.ErrEmptyExtraction / common.ErrGarbageText. Pure function, no side
// effects; this is the sole gate consulted before accepting structural PDF
// output.
func Usable(text string) error {
	if strings.TrimSpace(text) == "" {
		return common.ErrEmptyExtraction
	}

	var total, nonPrintable, alpha int
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
		if !unicode.IsSpace(r) && !isPrintable(r) {
			nonPrintable++
		}
	}

	if ratio := float64(nonPrintable) / float64(total); ratio > maxNonPrintableRatio {
		return fmt.Errorf("%w: non-printable ratio %.2f", common.ErrGarbageText, ratio)
	}
	if ratio := float64(alpha) / float64(total); ratio < minAlphaRatio {
		return fmt.Errorf("%w: alphabetic ratio %.2f", common.ErrGarbageText, ratio)
	}
	return nil
}

// isPrintable treats Private Use Area runes and U+FFFD as noise even though
// unicode classifies PUA as assigned. CID fonts without ToUnicode maps leak
// both into structural PDF extraction.
func isPrintable(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return false
	}
	if r == 0xFFFD {
		return false
	}
	return unicode.IsPrint(r)
}
