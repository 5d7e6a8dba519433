/**
 * Invocation Adapter
 *
 * Resolves the positional arguments, calls the OCR capability once and
 * reduces its detections to a single Outcome. Process concerns (env, streams,
 * exit codes) stay in cmd/ocr-adapter.
 */

package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/adverant/nexus/ocr-adapter/internal/errors"
	"github.com/adverant/nexus/ocr-adapter/internal/logging"
	"github.com/adverant/nexus/ocr-adapter/internal/ocr"
)

// Request is the resolved form of the command line.
type Request struct {
	ImagePath string
	Options   ocr.Options
}

// ResolveRequest maps args (without the program name) to a Request.
// args[0] is the image path, args[1] an optional comma-separated language
// list split verbatim. Anything after that is ignored.
func ResolveRequest(args []string) (Request, error) {
	if len(args) < 1 {
		return Request{}, apperrors.NewMissingInputError()
	}

	opts := ocr.DefaultOptions()
	if len(args) > 1 {
		opts.Languages = strings.Split(args[1], ",")
	}

	return Request{ImagePath: args[0], Options: opts}, nil
}

// Aggregate reduces detections to the success shape.
func Aggregate(dets []ocr.Detection) Result {
	if len(dets) == 0 {
		return Result{}
	}

	texts := make([]string, len(dets))
	var sum float64
	for i, d := range dets {
		texts[i] = d.Text
		sum += d.Confidence
	}

	return Result{
		Text:          strings.Join(texts, "\n"),
		Confidence:    sum / float64(len(dets)),
		NumDetections: len(dets),
	}
}

// Adapter runs one invocation against an injected Recognizer.
type Adapter struct {
	recognizer ocr.Recognizer
	logger     *logging.Logger
}

// New creates an adapter. A nil logger discards output.
func New(rec ocr.Recognizer, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Adapter{recognizer: rec, logger: logger}
}

// Run is shorthand for New(rec, nil).Run(ctx, args).
func Run(ctx context.Context, rec ocr.Recognizer, args []string) Outcome {
	return New(rec, nil).Run(ctx, args)
}

// Run resolves args, invokes the capability and returns its Outcome.
// It never panics and never returns both shapes.
func (a *Adapter) Run(ctx context.Context, args []string) Outcome {
	req, err := ResolveRequest(args)
	if err != nil {
		var ae *apperrors.AdapterError
		if !errors.As(err, &ae) {
			ae = apperrors.NewCapabilityFailureError(a.engineName(), err)
		}
		a.logger.Warn("rejected invocation", "code", ae.Code, "args", len(args))
		return Failure(ae)
	}

	a.logger.Info("invoking capability",
		"engine", a.engineName(),
		"image", req.ImagePath,
		"languages", strings.Join(req.Options.Languages, ","),
		"gpu", req.Options.GPU)

	start := time.Now()
	dets, err := a.recognize(ctx, req)
	if err != nil {
		ae := apperrors.NewCapabilityFailureError(a.engineName(), err)
		a.logger.Error("capability failed", "error", ae.Error(), "duration", time.Since(start))
		return Failure(ae)
	}

	result := Aggregate(dets)
	a.logger.Info("capability succeeded",
		"detections", result.NumDetections,
		"confidence", result.Confidence,
		"duration", time.Since(start))
	for i, d := range dets {
		a.logger.Debug("detection", "index", i, "confidence", d.Confidence, "region", fmt.Sprintf("%+v", d.Region))
	}

	return Success(result)
}

// recognize converts a panicking capability into an error.
func (a *Adapter) recognize(ctx context.Context, req Request) (dets []ocr.Detection, err error) {
	if a.recognizer == nil {
		return nil, fmt.Errorf("no OCR engine configured")
	}

	defer func() {
		if r := recover(); r != nil {
			dets = nil
			err = fmt.Errorf("%v", r)
		}
	}()

	return a.recognizer.Recognize(ctx, req.ImagePath, req.Options)
}

func (a *Adapter) engineName() string {
	if a.recognizer == nil {
		return "none"
	}
	return a.recognizer.Name()
}
