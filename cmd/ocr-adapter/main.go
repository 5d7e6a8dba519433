/**
 * OCR Adapter - Main Entry Point
 *
 * Usage: ocr-adapter <image_path> [language_codes]
 *
 * Runs one OCR capability call on CPU and prints a single JSON line:
 * - stdout, exit 0: {"text": ..., "confidence": ..., "num_detections": ...}
 * - stderr, exit 1: {"error": ..., "text": "", "confidence": 0.0}
 *
 * Diagnostics never go to stdout/stderr; set OCR_LOG_FILE to capture them.
 */

package main

import (
	"context"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/adverant/nexus/ocr-adapter/internal/adapter"
	"github.com/adverant/nexus/ocr-adapter/internal/config"
	apperrors "github.com/adverant/nexus/ocr-adapter/internal/errors"
	"github.com/adverant/nexus/ocr-adapter/internal/logging"
	"github.com/adverant/nexus/ocr-adapter/internal/ocr/engine"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Optional; the process environment is enough.
	_ = godotenv.Load(".env.ocr")

	cfg, cfgErr := config.LoadConfig()

	logFile, debug := os.Getenv("OCR_LOG_FILE"), false
	if cfg != nil {
		logFile, debug = cfg.LogFile, cfg.Debug
	}
	// Logging is best effort; an unopenable file leaves a discarding logger.
	logger, closeLog, _ := logging.Open("ocr-adapter", logFile, debug)
	defer closeLog()

	// Missing input is reported before any engine is built.
	if len(args) < 1 {
		return adapter.New(nil, logger).Run(ctx, args).Emit(stdout, stderr)
	}

	if cfgErr != nil {
		logger.Error("failed to load configuration", "error", cfgErr)
		return adapter.Failure(apperrors.NewCapabilityFailureError("", cfgErr)).Emit(stdout, stderr)
	}

	rec, err := engine.New(cfg)
	if err != nil {
		logger.Error("failed to create OCR engine", "engine", cfg.Engine, "error", err)
		return adapter.Failure(apperrors.NewCapabilityFailureError(cfg.Engine, err)).Emit(stdout, stderr)
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Warn("failed to close OCR engine", "error", err)
		}
	}()

	outcome := adapter.New(rec, logger).Run(ctx, args)
	code := outcome.Emit(stdout, stderr)
	logger.Info("run complete", "exit_code", code)
	return code
}
