package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/doc-extractor/internal/cmdrunner"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
	"github.com/joseph-ayodele/doc-extractor/internal/convert"
	"github.com/joseph-ayodele/doc-extractor/internal/extract"
	"github.com/joseph-ayodele/doc-extractor/internal/fetch"
	"github.com/joseph-ayodele/doc-extractor/internal/links"
	"github.com/joseph-ayodele/doc-extractor/internal/manifest"
	"github.com/joseph-ayodele/doc-extractor/internal/ocr"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type jobResult struct {
	Path   string      `json:"path"`
	Method string      `json:"method,omitempty"`
	Text   string      `json:"text,omitempty"`
	Links  links.Links `json:"links,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func main() {
	var (
		filePath     = flag.String("file", "", "single document to extract (path or URL)")
		manifestPath = flag.String("manifest", "", "JSON manifest describing a batch of documents")
		configPath   = flag.String("config", "", "path to YAML config file")
		asJSON       = flag.Bool("json", false, "emit full JSON results instead of plain text")
	)
	flag.Parse()

	if (*filePath == "") == (*manifestPath == "") {
		printError("Error: exactly one of --file or --manifest is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		printError("Error: loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	runner := cmdrunner.New(logger)
	conv := convert.NewSoffice(cfg.Convert.Soffice, runner, logger)
	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		DPI:         cfg.OCR.DPI,
		MaxPixelDim: cfg.OCR.MaxPixelDim,
		RetryPSM:    cfg.OCR.RetryPSM,
	}, runner, logger)

	engine, err := extract.NewEngine(extract.DefaultStrategies(conv, ocrx, logger), logger)
	if err != nil {
		printError("Error: building engine: %v\n", err)
		os.Exit(1)
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:    cfg.Fetch.Timeout,
		MaxBytes:   cfg.Fetch.MaxBytes,
		S3Region:   cfg.Fetch.S3Region,
		S3Endpoint: cfg.Fetch.S3Endpoint,
	}, logger)
	linkx := links.New(logger)

	if *filePath != "" {
		res := runJob(ctx, cfg, engine, fetcher, linkx, *filePath)
		if err := emit(res, "", *asJSON); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		if res.Error != "" {
			os.Exit(1)
		}
		return
	}

	m, err := manifest.Load(*manifestPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	failures := 0
	for _, entry := range m.Entries {
		res := runJob(ctx, cfg, engine, fetcher, linkx, entry.Path)
		if res.Error != "" {
			failures++
		}
		if err := emit(res, entry.OutputPath, *asJSON); err != nil {
			printError("Error: writing result for %s: %v\n", entry.Path, err)
			failures++
		}
	}

	fmt.Printf("Batch extraction complete!\n")
	fmt.Printf("- Documents: %d\n", len(m.Entries))
	fmt.Printf("- Failures: %d\n", failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func runJob(ctx context.Context, cfg *common.Config, engine *extract.Engine, fetcher *fetch.Fetcher, linkx *links.Extractor, path string) jobResult {
	ctx, cancel := context.WithTimeout(ctx, cfg.Limits.ProcessTimeout)
	defer cancel()

	data, name, declaredMIME, err := readDocument(ctx, fetcher, path)
	if err != nil {
		return jobResult{Path: path, Error: err.Error()}
	}

	doc, err := extract.NewDocument(data, declaredMIME, name)
	if err != nil {
		return jobResult{Path: path, Error: err.Error()}
	}

	result, err := engine.Process(ctx, doc)
	if err != nil {
		return jobResult{Path: path, Error: err.Error()}
	}

	return jobResult{
		Path:   path,
		Method: string(result.Method),
		Text:   result.Text,
		Links:  linkx.Extract(ctx, doc.Data, result.Text, doc.Kind),
	}
}

func readDocument(ctx context.Context, fetcher *fetch.Fetcher, path string) (data []byte, name, declaredMIME string, err error) {
	if strings.Contains(path, "://") {
		res, err := fetcher.Fetch(ctx, path)
		if err != nil {
			return nil, "", "", err
		}
		return res.Data, res.Filename, res.ContentType, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", "", err
	}
	return data, filepath.Base(path), "", nil
}

func emit(res jobResult, outputPath string, asJSON bool) error {
	var payload []byte
	if asJSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		payload = append(b, '\n')
	} else if res.Error != "" {
		return errors.New(res.Error)
	} else {
		payload = []byte(res.Text + "\n")
	}

	if outputPath == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(outputPath, payload, 0644)
}
