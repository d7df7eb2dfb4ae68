package quality

import (
	"errors"
	"strings"
	"testing"

	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

func TestUsable_NormalProse(t *testing.T) {
	// WHAT: Ordinary prose passes the gate.
	// WHY: The gate must not reject real structural extraction output.
	text := "Senior engineer with ten years of distributed systems experience.\nContact: somewhere on the internet."
	if err := Usable(text); err != nil {
		t.Errorf("Usable(prose) = %v, want nil", err)
	}
}

func TestUsable_Empty(t *testing.T) {
	// WHAT: Whitespace-only input is empty extraction, not garbage.
	for _, text := range []string{"", "   \n\t  "} {
		err := Usable(text)
		if !errors.Is(err, common.ErrEmptyExtraction) {
			t.Errorf("Usable(%q) = %v, want ErrEmptyExtraction", text, err)
		}
	}
}

func TestUsable_PUAGarbage(t *testing.T) {
	// WHAT: Private Use Area runes above the ratio threshold fail the gate.
	// WHY: CIDFont PDFs without ToUnicode maps extract as PUA soup.
	text := "ab" + strings.Repeat("", 20)
	err := Usable(text)
	if !errors.Is(err, common.ErrGarbageText) {
		t.Errorf("Usable(pua) = %v, want ErrGarbageText", err)
	}
}

func TestUsable_ReplacementRuneGarbage(t *testing.T) {
	// WHAT: U+FFFD counts as noise even though unicode prints it.
	text := "ok " + strings.Repeat("�", 30)
	if err := Usable(text); !errors.Is(err, common.ErrGarbageText) {
		t.Errorf("Usable(replacement runes) = %v, want ErrGarbageText", err)
	}
}

func TestUsable_LowAlphabeticRatio(t *testing.T) {
	// WHAT: Printable but letter-poor text fails the prose check.
	// WHY: Tables of numbers and symbol runs are not usable document text.
	text := strings.Repeat("0123456789 +-*/ ", 10) + "ab"
	if err := Usable(text); !errors.Is(err, common.ErrGarbageText) {
		t.Errorf("Usable(digits) = %v, want ErrGarbageText", err)
	}
}

func TestUsable_WhitespaceNotCountedAsNoise(t *testing.T) {
	// WHAT: Newlines and tabs never count toward the non-printable ratio.
	text := "real words here\n\n\t\tmore real words\n"
	if err := Usable(text); err != nil {
		t.Errorf("Usable(whitespace-heavy prose) = %v, want nil", err)
	}
}
