/**
 * Runner - client side of the adapter's process contract
 *
 * Launches the adapter binary for one image, reads the single JSON line it
 * writes and turns an "error" key into a Go error. The caller-side timeout
 * lives here because the adapter has none.
 */

package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/adverant/nexus/ocr-adapter/internal/logging"
)

// DefaultTimeout bounds one adapter run, model load included.
const DefaultTimeout = 60 * time.Second

// Response is the decoded success line.
type Response struct {
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence"`
	NumDetections int     `json:"num_detections"`
}

// ScriptError is returned when the adapter reports an "error" key.
type ScriptError struct {
	Message  string
	ExitCode int
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("OCR adapter error: %s", e.Message)
}

// Client invokes the adapter binary.
type Client struct {
	// Command is the adapter executable; Args are inserted before the image path.
	Command string
	Args    []string
	// Languages are joined with "," and passed as the second argument when set.
	Languages []string
	Timeout   time.Duration
	Env       []string
	Logger    *logging.Logger
}

// NewClient creates a client for the adapter at command.
func NewClient(command string, languages []string) *Client {
	return &Client{
		Command:   command,
		Languages: languages,
		Timeout:   DefaultTimeout,
	}
}

// Recognize runs the adapter on imagePath.
func (c *Client) Recognize(ctx context.Context, imagePath string) (*Response, error) {
	if c.Command == "" {
		return nil, fmt.Errorf("adapter command is required")
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, c.Args...), imagePath)
	if len(c.Languages) > 0 {
		args = append(args, strings.Join(c.Languages, ","))
	}

	cmd := exec.CommandContext(ctx, c.Command, args...)
	if c.Env != nil {
		cmd.Env = c.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	logger.Debug("adapter finished", "image", imagePath, "duration", time.Since(start), "err", runErr)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// the parent's deadline may be the one that expired
			return nil, fmt.Errorf("OCR adapter timed out: %w", err)
		}
		return nil, err
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	// Both streams are checked; the exit code alone is not trusted.
	line := firstLine(stdout.Bytes())
	if line == nil {
		line = firstLine(stderr.Bytes())
	}
	if line == nil {
		if runErr != nil {
			return nil, fmt.Errorf("OCR adapter execution failed: %w", runErr)
		}
		return nil, fmt.Errorf("OCR adapter produced no output")
	}

	resp, err := decodeLine(line, exitCode)
	if err != nil {
		logger.Warn("adapter reported failure", "image", imagePath, "exit_code", exitCode, "error", err)
		return nil, err
	}
	if runErr != nil {
		return nil, fmt.Errorf("OCR adapter exited with %d after printing a result: %w", exitCode, runErr)
	}
	return resp, nil
}

func decodeLine(line []byte, exitCode int) (*Response, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse OCR adapter output: %w (output: %s)", err, line)
	}

	if msg, ok := raw["error"]; ok {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			s = string(msg)
		}
		return nil, &ScriptError{Message: s, ExitCode: exitCode}
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse OCR adapter output: %w (output: %s)", err, line)
	}
	return &resp, nil
}

func firstLine(b []byte) []byte {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		if l := bytes.TrimSpace(sc.Bytes()); len(l) > 0 {
			return append([]byte(nil), l...)
		}
	}
	return nil
}
