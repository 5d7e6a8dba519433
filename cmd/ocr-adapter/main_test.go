package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const fakeTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"4\t1\t1\t1\t1\t0\t0\t0\t100\t20\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t0\t0\t100\t20\t80\tInvoice\n"

func setupEnv(t *testing.T, engine, tesseractPath string) {
	t.Helper()
	t.Setenv("OCR_ENGINE", engine)
	t.Setenv("TESSERACT_PATH", tesseractPath)
	t.Setenv("TESSDATA_PREFIX", "")
	t.Setenv("OCR_PAGE_SEG_MODE", "")
	t.Setenv("OCR_LOG_FILE", filepath.Join(t.TempDir(), "adapter.log"))
	t.Setenv("OCR_DEBUG", "true")
}

func fakeTesseract(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("write fake tesseract: %v", err)
	}
	return path
}

func TestRunWithoutArguments(t *testing.T) {
	setupEnv(t, "tesseract-cli", "tesseract")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no stdout, got %q", stdout.String())
	}
	if stderr.String() != "{\"error\": \"Image path required\"}\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestRunSuccess(t *testing.T) {
	tsv := filepath.Join(t.TempDir(), "out.tsv")
	if err := os.WriteFile(tsv, []byte(fakeTSV), 0644); err != nil {
		t.Fatalf("write tsv: %v", err)
	}
	setupEnv(t, "tesseract-cli", fakeTesseract(t, "cat "+tsv+"\n"))
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"invoice.png", "en"}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "{\"text\": \"Invoice\", \"confidence\": 0.8, \"num_detections\": 1}\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}

	logs, err := os.ReadFile(os.Getenv("OCR_LOG_FILE"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logs), "run complete exit_code=0") {
		t.Errorf("expected completion log, got %q", logs)
	}
}

func TestRunCapabilityFailure(t *testing.T) {
	setupEnv(t, "tesseract-cli", fakeTesseract(t, "echo 'corrupt image' >&2\nexit 1\n"))
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"broken.png"}, &stdout, &stderr)

	if code != 1 || stdout.Len() != 0 {
		t.Errorf("expected failure on stderr only, got code=%d stdout=%q", code, stdout.String())
	}
	if stderr.String() != "{\"error\": \"corrupt image\", \"text\": \"\", \"confidence\": 0.0}\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestRunBadConfiguration(t *testing.T) {
	setupEnv(t, "paddle", "tesseract")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"img.png"}, &stdout, &stderr)

	if code != 1 || stdout.Len() != 0 {
		t.Errorf("expected failure, got code=%d stdout=%q", code, stdout.String())
	}
	if !strings.HasPrefix(stderr.String(), "{\"error\": \"configuration validation failed: OCR_ENGINE") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	if !strings.HasSuffix(stderr.String(), ", \"text\": \"\", \"confidence\": 0.0}\n") {
		t.Errorf("expected error shape defaults, got %q", stderr.String())
	}
}
