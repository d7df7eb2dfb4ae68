package constants

// Method tags a successful extraction with the strategy family that
// produced it. Callers use it for confidence and audit purposes.
type Method string

const (
	MethodStructuralPDF    Method = "structural-pdf"
	MethodStructuralOffice Method = "structural-office"
	MethodOCR              Method = "ocr"
)
