package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/doc-extractor/constants"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
	"github.com/joseph-ayodele/doc-extractor/internal/quality"
	"github.com/joseph-ayodele/doc-extractor/internal/structural"
)

// Strategy is one named extraction attempt with a defined success/failure
// contract: either usable text plus its method tag, or an error explaining
// why the orchestrator should advance to the next strategy.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, doc *Document) (string, constants.Method, error)
}

// StrategySet supplies the five strategies the engine wires into per-kind
// chains. Every field is required.
type StrategySet struct {
	StructuralPDF     Strategy
	OCR               Strategy
	OfficeNative      Strategy
	ConvertStructural Strategy
	ConvertOCR        Strategy
}

// Engine is the extraction orchestrator. The strategy chain per document
// kind is fixed at construction; unknown kinds are a construction-time
// error, never a runtime fallthrough.
type Engine struct {
	chains map[constants.Kind][]Strategy
	logger *slog.Logger
}

func NewEngine(set StrategySet, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for name, s := range map[string]Strategy{
		"structural pdf":     set.StructuralPDF,
		"ocr":                set.OCR,
		"office native":      set.OfficeNative,
		"convert structural": set.ConvertStructural,
		"convert ocr":        set.ConvertOCR,
	} {
		if s == nil {
			return nil, fmt.Errorf("engine: missing %s strategy", name)
		}
	}

	officeChain := []Strategy{set.OfficeNative, set.ConvertStructural, set.ConvertOCR}
	chains := map[constants.Kind][]Strategy{
		constants.PDF:        {set.StructuralPDF, set.OCR},
		constants.JPEG:       {set.OCR},
		constants.PNG:        {set.OCR},
		constants.TIFF:       {set.OCR},
		constants.LegacyDoc:  officeChain,
		constants.ModernDocx: officeChain,
	}
	for _, k := range constants.Kinds {
		if _, ok := chains[k]; !ok {
			return nil, fmt.Errorf("engine: no strategy chain for kind %s", k)
		}
	}
	return &Engine{chains: chains, logger: logger}, nil
}

// Process runs the document's strategy chain, short-circuiting on the first
// accepted result. On exhaustion it returns an *ExtractionError with the
// ordered diagnostics. The outcome is memoized on the Document: a second
// call returns the identical result without re-invoking any strategy.
// Context cancellation is observed at strategy boundaries and propagates
// without being memoized, so an abandoned call leaves no corrupt state.
func (e *Engine) Process(ctx context.Context, doc *Document) (Result, error) {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.done {
		return doc.result, doc.err
	}

	chain := e.chains[doc.Kind]
	var attempts []Attempt

	for _, s := range chain {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		text, method, err := s.Extract(ctx, doc)
		if err == nil {
			text = strings.TrimSpace(text)
			switch {
			case text == "":
				err = common.ErrEmptyExtraction
			case doc.Kind == constants.PDF && method == constants.MethodStructuralPDF:
				// The quality gate only guards a PDF's own structural
				// output. OCR text and the office conversion chain are
				// accepted when non-empty.
				err = quality.Usable(text)
			}
			if err == nil {
				e.logger.Info("extraction succeeded",
					"kind", doc.Kind, "strategy", s.Name(), "method", method, "chars", len(text))
				doc.done = true
				doc.result = Result{Text: text, Method: method}
				return doc.result, nil
			}
		}

		// A dead context after a strategy failure is the caller's
		// timeout, not an extraction diagnosis; report it without
		// memoizing. The strategy error cannot be trusted to wrap
		// ctx.Err here: a killed child process surfaces as a plain
		// "signal: killed" exec error.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}

		e.logger.Warn("extraction strategy failed",
			"kind", doc.Kind, "strategy", s.Name(), "reason", err)
		attempts = append(attempts, Attempt{Strategy: s.Name(), Reason: err.Error()})
	}

	exErr := &ExtractionError{Attempts: attempts}
	doc.done = true
	doc.err = exErr
	return Result{}, exErr
}

// PageCount reports the page count before any expensive extraction commits,
// so callers can enforce a page ceiling. Images count as one page; office
// documents report zero (unknown until converted).
func (e *Engine) PageCount(doc *Document) (int, error) {
	switch {
	case doc.Kind == constants.PDF:
		return structural.PDFPageCount(doc.Data)
	case doc.Kind.IsImage():
		return 1, nil
	default:
		return 0, nil
	}
}
