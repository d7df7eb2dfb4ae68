package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/doc-extractor/constants"
	"github.com/joseph-ayodele/doc-extractor/internal/convert"
	"github.com/joseph-ayodele/doc-extractor/internal/ocr"
	"github.com/joseph-ayodele/doc-extractor/internal/structural"
)

// DefaultStrategies binds the production components into the engine's
// strategy set.
func DefaultStrategies(conv convert.Converter, ocrx *ocr.Extractor, logger *slog.Logger) StrategySet {
	return StrategySet{
		StructuralPDF:     structuralPDFStrategy{},
		OCR:               ocrStrategy{ocrx: ocrx},
		OfficeNative:      officeNativeStrategy{},
		ConvertStructural: convertStructuralStrategy{conv: conv},
		ConvertOCR:        convertOCRStrategy{conv: conv, ocrx: ocrx},
	}
}

// structuralPDFStrategy pulls text from PDF text objects without rendering.
type structuralPDFStrategy struct{}

func (structuralPDFStrategy) Name() string { return "structural-pdf" }

func (structuralPDFStrategy) Extract(_ context.Context, doc *Document) (string, constants.Method, error) {
	text, err := structural.PDFText(doc.Data)
	return text, constants.MethodStructuralPDF, err
}

// ocrStrategy rasterizes and OCRs either a PDF or a raw image.
type ocrStrategy struct {
	ocrx *ocr.Extractor
}

func (ocrStrategy) Name() string { return "ocr" }

func (s ocrStrategy) Extract(ctx context.Context, doc *Document) (string, constants.Method, error) {
	var (
		text string
		err  error
	)
	if doc.Kind.IsImage() {
		text, err = s.ocrx.ExtractImage(ctx, doc.Data, doc.Kind)
	} else {
		text, err = s.ocrx.ExtractPDF(ctx, doc.Data)
	}
	return text, constants.MethodOCR, err
}

// officeNativeStrategy reads DOCX structure directly. Legacy .doc bytes
// fail fast here and fall through to the conversion chain.
type officeNativeStrategy struct{}

func (officeNativeStrategy) Name() string { return "structural-office" }

func (officeNativeStrategy) Extract(_ context.Context, doc *Document) (string, constants.Method, error) {
	text, err := structural.OfficeText(doc.Data)
	return text, constants.MethodStructuralOffice, err
}

// convertStructuralStrategy converts the office document to PDF, then
// extracts that PDF's structural text.
type convertStructuralStrategy struct {
	conv convert.Converter
}

func (convertStructuralStrategy) Name() string { return "convert-structural" }

func (s convertStructuralStrategy) Extract(ctx context.Context, doc *Document) (string, constants.Method, error) {
	pdfBytes, err := s.conv.Convert(ctx, doc.Data)
	if err != nil {
		return "", constants.MethodStructuralPDF, err
	}
	text, err := structural.PDFText(pdfBytes)
	return text, constants.MethodStructuralPDF, err
}

// convertOCRStrategy converts the office document to PDF, then OCRs the
// rendered pages.
type convertOCRStrategy struct {
	conv convert.Converter
	ocrx *ocr.Extractor
}

func (convertOCRStrategy) Name() string { return "convert-ocr" }

func (s convertOCRStrategy) Extract(ctx context.Context, doc *Document) (string, constants.Method, error) {
	pdfBytes, err := s.conv.Convert(ctx, doc.Data)
	if err != nil {
		return "", constants.MethodOCR, err
	}
	text, err := s.ocrx.ExtractPDF(ctx, pdfBytes)
	return text, constants.MethodOCR, err
}
