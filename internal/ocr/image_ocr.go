package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/doc-extractor/constants"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

var kindExt = map[constants.Kind]string{
	constants.JPEG: "jpg",
	constants.PNG:  "png",
	constants.TIFF: "tif",
}

// ExtractImage OCRs a single raster image, with the same aggressive retry
// rule as the PDF path.
func (e *Extractor) ExtractImage(ctx context.Context, data []byte, kind constants.Kind) (string, error) {
	ext, ok := kindExt[kind]
	if !ok {
		return "", fmt.Errorf("not an image kind: %s", kind)
	}

	tmpDir, err := os.MkdirTemp("", "dx-ocr-*")
	if err != nil {
		return "", fmt.Errorf("ocr temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove ocr temp dir", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "input."+ext)
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := boundImage(in, e.cfg.MaxPixelDim); err != nil {
		e.logger.Warn("failed to bound image", "error", err)
	}

	txt, err := e.tesseract(ctx, in, false)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(txt) == "" {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		e.logger.Info("image ocr produced no text, retrying aggressively", "psm", e.cfg.RetryPSM)
		if err := grayscaleImage(in); err != nil {
			e.logger.Warn("failed to grayscale image", "error", err)
		}
		txt, err = e.tesseract(ctx, in, true)
		if err != nil {
			return "", err
		}
	}

	txt = strings.TrimSpace(txt)
	if txt == "" {
		return "", fmt.Errorf("%w: ocr produced no text", common.ErrEmptyExtraction)
	}
	return txt, nil
}
