package adapter

import (
	"fmt"
	"io"
	"strconv"

	apperrors "github.com/adverant/nexus/ocr-adapter/internal/errors"
)

// Result is the success shape.
type Result struct {
	Text          string
	Confidence    float64
	NumDetections int
}

// Outcome holds exactly one of a Result or an error.
type Outcome struct {
	result *Result
	err    *apperrors.AdapterError
}

// Success wraps a Result.
func Success(r Result) Outcome {
	return Outcome{result: &r}
}

// Failure wraps an adapter error. A nil err becomes an empty capability failure.
func Failure(err *apperrors.AdapterError) Outcome {
	if err == nil {
		err = apperrors.NewCapabilityFailureError("", nil)
	}
	return Outcome{err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.result != nil
}

// Result returns the success value; ok is false for failures.
func (o Outcome) Result() (Result, bool) {
	if o.result == nil {
		return Result{}, false
	}
	return *o.result, true
}

// Err returns the failure; nil for successes.
func (o Outcome) Err() *apperrors.AdapterError {
	return o.err
}

// Stream selects the process output stream.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Encode renders the outcome as one newline-terminated JSON line and picks
// the stream and exit code. A success that cannot be encoded is reported as
// a capability failure instead.
func (o Outcome) Encode() (line []byte, stream Stream, exitCode int) {
	if o.result != nil {
		conf, err := formatFloat(o.result.Confidence)
		if err == nil {
			return encodeObject(
				field{"text", quote(o.result.Text)},
				field{"confidence", conf},
				field{"num_detections", strconv.Itoa(o.result.NumDetections)},
			), Stdout, ExitOK
		}
		return Failure(apperrors.NewCapabilityFailureError("", err)).Encode()
	}

	if o.err == nil {
		return Failure(nil).Encode()
	}

	if o.err.Code == apperrors.ErrorMissingInput {
		return encodeObject(field{"error", quote(o.err.Message)}), Stderr, ExitFailure
	}
	return encodeObject(
		field{"error", quote(o.err.Message)},
		field{"text", quote("")},
		field{"confidence", "0.0"},
	), Stderr, ExitFailure
}

// Emit writes the encoded line to the selected stream and returns the exit code.
// A write failure on stdout falls back to reporting it on stderr.
func (o Outcome) Emit(stdout, stderr io.Writer) int {
	line, stream, code := o.Encode()
	w := stdout
	if stream == Stderr {
		w = stderr
	}
	if _, err := w.Write(line); err != nil {
		if stream == Stdout {
			return Failure(apperrors.NewCapabilityFailureError("", fmt.Errorf("writing result: %w", err))).Emit(io.Discard, stderr)
		}
		return ExitFailure
	}
	return code
}
