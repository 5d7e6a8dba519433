package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/adverant/nexus/ocr-adapter/internal/adapter"
	"github.com/adverant/nexus/ocr-adapter/internal/ocr"
)

// helperRecognizer answers according to HELPER_MODE inside the helper process.
type helperRecognizer struct {
	mode string
}

func (h helperRecognizer) Name() string { return "helper" }

func (h helperRecognizer) Recognize(ctx context.Context, imagePath string, opts ocr.Options) ([]ocr.Detection, error) {
	switch h.mode {
	case "fail":
		return nil, fmt.Errorf("corrupt image")
	case "echo":
		return []ocr.Detection{
			{Text: imagePath, Confidence: 1},
			{Text: strings.Join(opts.Languages, "|"), Confidence: 0.5},
		}, nil
	default:
		return []ocr.Detection{
			{Text: "A", Confidence: 0.9},
			{Text: "B", Confidence: 0.8},
			{Text: "C", Confidence: 0.7},
		}, nil
	}
}

func (h helperRecognizer) Close() error { return nil }

// TestHelperProcess is not a real test; it plays the adapter binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	mode := os.Getenv("HELPER_MODE")
	switch mode {
	case "garbage":
		fmt.Fprintln(os.Stdout, "Traceback (most recent call last):")
		os.Exit(1)
	case "silent":
		os.Exit(3)
	case "sleep":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	case "error-exit-0":
		fmt.Fprintln(os.Stderr, `{"error": "model download failed"}`)
		os.Exit(0)
	}

	code := adapter.Run(context.Background(), helperRecognizer{mode: mode}, args).Emit(os.Stdout, os.Stderr)
	os.Exit(code)
}

func helperClient(mode string, languages []string) *Client {
	c := NewClient(os.Args[0], languages)
	c.Args = []string{"-test.run=TestHelperProcess", "--"}
	c.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)
	return c
}

func TestRecognizeSuccess(t *testing.T) {
	resp, err := helperClient("ok", nil).Recognize(context.Background(), "img.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	if resp.Text != "A\nB\nC" || resp.NumDetections != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
	if math.Abs(resp.Confidence-0.8) > 1e-9 {
		t.Errorf("expected confidence 0.8, got %v", resp.Confidence)
	}
}

func TestRecognizePassesArguments(t *testing.T) {
	resp, err := helperClient("echo", []string{"fr", "de"}).Recognize(context.Background(), "scan.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if resp.Text != "scan.png\nfr|de" {
		t.Errorf("unexpected text %q", resp.Text)
	}

	resp, err = helperClient("echo", nil).Recognize(context.Background(), "scan.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if resp.Text != "scan.png\nja|en" {
		t.Errorf("expected adapter defaults, got %q", resp.Text)
	}
}

func TestRecognizeCapabilityFailure(t *testing.T) {
	_, err := helperClient("fail", nil).Recognize(context.Background(), "img.png")

	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("expected ScriptError, got %v", err)
	}
	if se.Message != "corrupt image" || se.ExitCode != 1 {
		t.Errorf("unexpected script error %+v", se)
	}
}

func TestRecognizeErrorKeyWinsOverExitCode(t *testing.T) {
	_, err := helperClient("error-exit-0", nil).Recognize(context.Background(), "img.png")

	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("expected ScriptError, got %v", err)
	}
	if se.Message != "model download failed" || se.ExitCode != 0 {
		t.Errorf("unexpected script error %+v", se)
	}
}

func TestRecognizeUnparsableOutput(t *testing.T) {
	_, err := helperClient("garbage", nil).Recognize(context.Background(), "img.png")
	if err == nil || !strings.Contains(err.Error(), "failed to parse OCR adapter output") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestRecognizeNoOutput(t *testing.T) {
	_, err := helperClient("silent", nil).Recognize(context.Background(), "img.png")
	if err == nil || !strings.Contains(err.Error(), "execution failed") {
		t.Errorf("expected execution error, got %v", err)
	}
}

func TestRecognizeTimeout(t *testing.T) {
	c := helperClient("sleep", nil)
	c.Timeout = 200 * time.Millisecond

	start := time.Now()
	_, err := c.Recognize(context.Background(), "img.png")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout was not enforced")
	}
}

func TestRecognizeParentDeadline(t *testing.T) {
	c := helperClient("sleep", nil)
	c.Timeout = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := c.Recognize(ctx, "img.png")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if strings.Contains(err.Error(), c.Timeout.String()) {
		t.Errorf("error claims the client timeout: %v", err)
	}
}

func TestRecognizeRequiresCommand(t *testing.T) {
	if _, err := (&Client{}).Recognize(context.Background(), "img.png"); err == nil {
		t.Errorf("expected error without command")
	}
}

func TestFirstLine(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "\n\n  \n", want: ""},
		{in: "{\"a\":1}\n", want: "{\"a\":1}"},
		{in: "\n  {\"a\":1}  \nsecond\n", want: "{\"a\":1}"},
	}
	for _, tc := range testCases {
		if got := string(firstLine([]byte(tc.in))); got != tc.want {
			t.Errorf("firstLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
