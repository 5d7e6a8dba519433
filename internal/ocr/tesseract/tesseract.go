/**
 * Tesseract OCR via gosseract - default capability backend
 *
 * Runs libtesseract in-process on the CPU and reports one Detection per
 * text line, in reading order.
 */

package tesseract

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/adverant/nexus/ocr-adapter/internal/ocr"
)

// Config holds gosseract configuration
type Config struct {
	TessdataPrefix string
	PageSegMode    int
}

// Engine implements ocr.Recognizer on top of gosseract.
type Engine struct {
	cfg Config
}

// NewEngine creates a new gosseract-backed engine
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Name() string { return "gosseract" }

// Recognize performs OCR on the image at imagePath. A fresh client is used per
// call, so the engine is safe for concurrent use.
func (e *Engine) Recognize(ctx context.Context, imagePath string, opts ocr.Options) ([]ocr.Detection, error) {
	if opts.GPU {
		return nil, fmt.Errorf("gosseract runs on CPU only")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.cfg.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(e.cfg.PageSegMode)); err != nil {
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	if len(opts.Languages) > 0 {
		if err := client.SetLanguage(ocr.TesseractLanguages(opts.Languages)...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	return toDetections(boxes), nil
}

// Close is a no-op; clients are released after each call.
func (e *Engine) Close() error {
	return nil
}

// toDetections drops blank lines and scales confidence from 0-100 to 0-1.
func toDetections(boxes []gosseract.BoundingBox) []ocr.Detection {
	dets := make([]ocr.Detection, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		dets = append(dets, ocr.Detection{
			Region: ocr.BoundingBox{
				X:      b.Box.Min.X,
				Y:      b.Box.Min.Y,
				Width:  b.Box.Dx(),
				Height: b.Box.Dy(),
			},
			Text:       text,
			Confidence: clampConfidence(b.Confidence / 100.0),
		})
	}
	return dets
}

func clampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
