/**
 * OCR Types - the capability contract consumed by the adapter
 *
 * A Recognizer turns one image path into an ordered list of Detections.
 * Backends live in internal/ocr/engine.
 */

package ocr

import (
	"context"
)

// BoundingBox represents coordinates of a region
type BoundingBox struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Detection is one text region located by the capability.
// Region is carried through but never serialized.
type Detection struct {
	Region     BoundingBox
	Text       string
	Confidence float64
}

// Options configures a single recognition call.
type Options struct {
	// Languages in EasyOCR-style codes, e.g. "ja", "en".
	Languages []string
	// GPU requests accelerator execution. Always false for this adapter.
	GPU bool
}

// DefaultLanguages is used when the caller gives no language list.
var DefaultLanguages = []string{"ja", "en"}

// DefaultOptions returns Japanese+English on CPU.
func DefaultOptions() Options {
	langs := make([]string, len(DefaultLanguages))
	copy(langs, DefaultLanguages)
	return Options{Languages: langs, GPU: false}
}

// Recognizer is the external OCR capability.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, imagePath string, opts Options) ([]Detection, error)
	Close() error
}
