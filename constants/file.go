package constants

import "strings"

// Kind identifies a supported document format, established by content
// sniffing (with extension fallback) before any extraction strategy runs.
type Kind string

const (
	PDF        Kind = "PDF"
	JPEG       Kind = "JPEG"
	PNG        Kind = "PNG"
	TIFF       Kind = "TIFF"
	LegacyDoc  Kind = "DOC"
	ModernDocx Kind = "DOCX"
)

// Kinds holds every supported document kind. The extraction engine must
// carry a strategy chain for each of these.
var Kinds = []Kind{PDF, JPEG, PNG, TIFF, LegacyDoc, ModernDocx}

// IsImage reports whether the kind is a raster image format.
func (k Kind) IsImage() bool {
	return k == JPEG || k == PNG || k == TIFF
}

// IsOffice reports whether the kind is an office word-processing format.
func (k Kind) IsOffice() bool {
	return k == LegacyDoc || k == ModernDocx
}

var extToKind = map[string]Kind{
	"pdf":  PDF,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"tif":  TIFF,
	"tiff": TIFF,
	"doc":  LegacyDoc,
	"docx": ModernDocx,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToKind maps a normalized file extension to a document kind,
// used when content sniffing is inconclusive.
func MapExtToKind(ext string) (Kind, bool) {
	k, ok := extToKind[NormalizeExt(ext)]
	return k, ok
}
