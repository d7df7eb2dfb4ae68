package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

// ExtractPDF renders every page of a PDF to a bounded-resolution image and
// OCRs them in page order, page texts joined by a newline. A per-page OCR
// failure degrades to empty text for that page; if the whole first pass
// yields nothing, one aggressive retry (grayscale + alternate page
// segmentation) runs before total failure. Rendered images never outlive
// the call.
func (e *Extractor) ExtractPDF(ctx context.Context, data []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "dx-ocr-*")
	if err != nil {
		return "", fmt.Errorf("ocr temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove ocr temp dir", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI), "-png", in, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, firstLine(errb))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: rendering produced no pages", common.ErrEmptyExtraction)
	}
	e.logger.Debug("rendered pdf pages", "pages", len(pages), "dpi", e.cfg.DPI)

	for _, p := range pages {
		if err := boundImage(p, e.cfg.MaxPixelDim); err != nil {
			e.logger.Warn("failed to bound page image", "page", p, "error", err)
		}
	}

	text := e.ocrPages(ctx, pages, false)
	if strings.TrimSpace(text) == "" {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		e.logger.Info("first ocr pass produced no text, retrying aggressively",
			"pages", len(pages), "psm", e.cfg.RetryPSM)
		for _, p := range pages {
			if err := grayscaleImage(p); err != nil {
				e.logger.Warn("failed to grayscale page image", "page", p, "error", err)
			}
		}
		text = e.ocrPages(ctx, pages, true)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: ocr produced no text", common.ErrEmptyExtraction)
	}
	return text, nil
}

func (e *Extractor) ocrPages(ctx context.Context, pages []string, aggressive bool) string {
	var sb strings.Builder
	for i, p := range pages {
		if ctx.Err() != nil {
			break
		}
		txt, err := e.tesseract(ctx, p, aggressive)
		if err != nil {
			e.logger.Warn("page ocr failed", "page", i+1, "error", err)
			txt = ""
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.TrimSpace(txt))
	}
	return sb.String()
}
