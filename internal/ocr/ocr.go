// Package ocr derives text from rasterized document pages by driving the
// pdftoppm and tesseract binaries through a stubbable Runner.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/joseph-ayodele/doc-extractor/internal/cmdrunner"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // default "eng"
	TessdataDir string

	DPI         int // rasterization DPI, default 150
	MaxPixelDim int // longest image dimension before downscale, default 4000

	RetryPSM int // page segmentation mode for the aggressive retry, default 6
}

type Extractor struct {
	cfg    Config
	runner cmdrunner.Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, runner cmdrunner.Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = cmdrunner.New(logger)
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}
	if cfg.MaxPixelDim <= 0 {
		cfg.MaxPixelDim = 4000
	}
	if cfg.RetryPSM <= 0 {
		cfg.RetryPSM = 6
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// tesseract runs OCR on one image file. Aggressive mode adds the retry
// page-segmentation mode on top of the default configuration.
func (e *Extractor) tesseract(ctx context.Context, path string, aggressive bool) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	if aggressive {
		args = append(args, "--psm", strconv.Itoa(e.cfg.RetryPSM))
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, firstLine(errb))
	}
	return string(out), nil
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}
