package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joseph-ayodele/doc-extractor/internal/cmdrunner"
	"github.com/joseph-ayodele/doc-extractor/internal/common"
	"github.com/joseph-ayodele/doc-extractor/internal/convert"
	"github.com/joseph-ayodele/doc-extractor/internal/extract"
	"github.com/joseph-ayodele/doc-extractor/internal/fetch"
	"github.com/joseph-ayodele/doc-extractor/internal/links"
	"github.com/joseph-ayodele/doc-extractor/internal/ocr"
	"github.com/joseph-ayodele/doc-extractor/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
		logger.Error("building engine", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:    cfg.Fetch.Timeout,
		MaxBytes:   cfg.Fetch.MaxBytes,
		S3Region:   cfg.Fetch.S3Region,
		S3Endpoint: cfg.Fetch.S3Endpoint,
	}, logger)

	srv := server.New(*cfg, engine, fetcher, links.New(logger), logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
