package converter

import (
	"context"
	"errors"
	"fmt"

	"github.com/aescanero/clustergram/pkg/clustergram"
)

var (
	// ErrInvalidMatrix means the client sent a matrix that cannot be loaded
	ErrInvalidMatrix = errors.New("invalid matrix")

	// ErrInvalidDocument means a heatmap document failed schema validation
	ErrInvalidDocument = errors.New("invalid document")

	// ErrTimeout means the conversion ran past its deadline
	ErrTimeout = errors.New("conversion timed out")

	// ErrCanceled means the caller went away before the conversion finished
	ErrCanceled = errors.New("conversion canceled")
)

// classify wraps library errors into the converter's error kinds
func classify(err error) error {
	var perr *clustergram.ParseError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &perr), errors.Is(err, clustergram.ErrEmptyMatrix):
		return fmt.Errorf("%w: %v", ErrInvalidMatrix, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	default:
		return err
	}
}

// status returns the metrics label for an error kind
func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidMatrix), errors.Is(err, ErrInvalidDocument):
		return "invalid"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrCanceled):
		return "canceled"
	default:
		return "error"
	}
}
