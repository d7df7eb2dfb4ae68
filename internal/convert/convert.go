// Package convert turns legacy and modern office documents into PDF byte
// streams by driving a headless document converter.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/doc-extractor/internal/cmdrunner"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
)

// Converter is the office-to-PDF boundary consumed by the extraction
// engine. Failures wrap common.ErrConversionFailed so the engine can still
// attempt further strategies where the chain defines them.
type Converter interface {
	Convert(ctx context.Context, data []byte) ([]byte, error)
}

// Soffice converts via a headless LibreOffice process. Conversion is
// synchronous; the caller's context carries any overall deadline into the
// child process.
type Soffice struct {
	binary string
	runner cmdrunner.Runner
	logger *slog.Logger
}

func NewSoffice(binary string, runner cmdrunner.Runner, logger *slog.Logger) *Soffice {
	if binary == "" {
		binary = "soffice"
	}
	if runner == nil {
		runner = cmdrunner.New(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Soffice{binary: binary, runner: runner, logger: logger}
}

// Convert writes the input into a per-call temp dir, runs the converter,
// and reads the produced PDF back. Temp artifacts are removed on every exit
// path; concurrent calls never share paths.
func (s *Soffice) Convert(ctx context.Context, data []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "dx-convert-*")
	if err != nil {
		return nil, fmt.Errorf("%w: temp dir: %v", common.ErrConversionFailed, err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			s.logger.Warn("failed to remove conversion temp dir", "dir", tmpDir, "error", err)
		}
	}()

	// soffice names the output after the input basename. The extension
	// only hints; the converter sniffs the real format itself.
	in := filepath.Join(tmpDir, "input.docx")
	out := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("%w: write input: %v", common.ErrConversionFailed, err)
	}

	_, errb, err := s.runner.Run(ctx, s.binary,
		"--headless", "--convert-to", "pdf", "--outdir", tmpDir, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", common.ErrConversionFailed, err, firstLine(errb))
	}

	pdfBytes, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%w: converter produced no output: %v", common.ErrConversionFailed, err)
	}
	if len(pdfBytes) == 0 {
		return nil, fmt.Errorf("%w: converter produced empty output", common.ErrConversionFailed)
	}

	s.logger.Debug("office converted to pdf", "input_bytes", len(data), "pdf_bytes", len(pdfBytes))
	return pdfBytes, nil
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}
