/**
 * Tesseract CLI - capability backend that shells out to the tesseract binary
 *
 * Used where libtesseract cannot be linked. Output is requested as TSV and
 * folded into one Detection per text line.
 */

package tesseractcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/adverant/nexus/ocr-adapter/internal/ocr"
)

// Config holds tesseract binary configuration
type Config struct {
	TesseractPath  string
	TessdataPrefix string
	PageSegMode    int
}

// Engine implements ocr.Recognizer by running the tesseract binary.
type Engine struct {
	cfg Config
}

// NewEngine creates a new CLI-backed engine
func NewEngine(cfg Config) *Engine {
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Name() string { return "tesseract-cli" }

// Recognize runs tesseract on imagePath and parses its TSV output.
func (e *Engine) Recognize(ctx context.Context, imagePath string, opts ocr.Options) ([]ocr.Detection, error) {
	if opts.GPU {
		return nil, fmt.Errorf("tesseract-cli runs on CPU only")
	}

	cmd := exec.CommandContext(ctx, e.cfg.TesseractPath, e.args(imagePath, opts)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, errors.New(msg)
			}
		}
		return nil, fmt.Errorf("tesseract execution failed: %w", err)
	}

	dets, err := ParseTSV(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse tesseract output: %w", err)
	}
	return dets, nil
}

func (e *Engine) Close() error {
	return nil
}

func (e *Engine) args(imagePath string, opts ocr.Options) []string {
	args := []string{imagePath, "stdout"}
	if e.cfg.TessdataPrefix != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataPrefix)
	}
	if len(opts.Languages) > 0 {
		args = append(args, "-l", strings.Join(ocr.TesseractLanguages(opts.Languages), "+"))
	}
	args = append(args, "--psm", strconv.Itoa(e.cfg.PageSegMode), "tsv")
	return args
}

// TSV row levels as emitted by tesseract
const (
	levelLine = 4
	levelWord = 5
)

const tsvColumns = 12

type lineKey struct {
	page, block, par, line int
}

type lineAcc struct {
	region  ocr.BoundingBox
	words   []string
	confSum float64
}

// ParseTSV folds tesseract TSV word rows into one Detection per text line,
// in the order lines first appear. Lines with no words are dropped.
func ParseTSV(data []byte) ([]ocr.Detection, error) {
	rows := strings.Split(strings.TrimRight(string(data), "\r\n"), "\n")
	if len(rows) == 0 || rows[0] == "" {
		return []ocr.Detection{}, nil
	}
	if !strings.HasPrefix(rows[0], "level\t") {
		return nil, fmt.Errorf("missing TSV header")
	}

	var order []lineKey
	lines := make(map[lineKey]*lineAcc)

	for i, row := range rows[1:] {
		row = strings.TrimRight(row, "\r")
		if row == "" {
			continue
		}
		cols := strings.SplitN(row, "\t", tsvColumns)
		if len(cols) < tsvColumns-1 {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, tsvColumns, len(cols))
		}
		nums, err := atoiAll(cols[:10])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		level := nums[0]
		key := lineKey{page: nums[1], block: nums[2], par: nums[3], line: nums[4]}

		switch level {
		case levelLine:
			if _, ok := lines[key]; !ok {
				order = append(order, key)
				lines[key] = &lineAcc{}
			}
			lines[key].region = ocr.BoundingBox{X: nums[6], Y: nums[7], Width: nums[8], Height: nums[9]}
		case levelWord:
			text := ""
			if len(cols) == tsvColumns {
				text = strings.TrimSpace(cols[11])
			}
			if text == "" {
				continue
			}
			conf, err := strconv.ParseFloat(cols[10], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad confidence %q", i+2, cols[10])
			}
			acc, ok := lines[key]
			if !ok {
				order = append(order, key)
				acc = &lineAcc{}
				lines[key] = acc
			}
			acc.words = append(acc.words, text)
			acc.confSum += conf
		}
	}

	dets := make([]ocr.Detection, 0, len(order))
	for _, key := range order {
		acc := lines[key]
		if len(acc.words) == 0 {
			continue
		}
		conf := acc.confSum / float64(len(acc.words)) / 100.0
		if conf < 0 {
			conf = 0
		}
		dets = append(dets, ocr.Detection{
			Region:     acc.region,
			Text:       strings.Join(acc.words, " "),
			Confidence: conf,
		})
	}
	return dets, nil
}

func atoiAll(cols []string) ([]int, error) {
	out := make([]int, len(cols))
	for i, c := range cols {
		n, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		out[i] = n
	}
	return out, nil
}
