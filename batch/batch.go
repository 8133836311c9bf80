// Package batch runs a per object step over all objects of a
// werkpakket, one at a time.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"kastelo.dev/iak"
	"kastelo.dev/iak/ledger"
)

// ErrSkipped is returned by a step that had nothing to do for an object.
var ErrSkipped = errors.New("skipped")

// Skip returns an ErrSkipped error with a reason.
func Skip(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSkipped, fmt.Sprintf(format, args...))
}

type Step func(ctx context.Context, obj iak.Object) error

type Summary struct {
	Succeeded []string
	Skipped   []string
	Failed    []string
	Errors    map[string]error
}

// Err returns nil when no object failed.
func (s Summary) Err() error {
	if len(s.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d objects failed: %s", len(s.Failed), strings.Join(s.Failed, ", "))
}

// Log writes the summary.
func (s Summary) Log(l *slog.Logger) {
	l.Info("Batch finished", "succeeded", len(s.Succeeded), "skipped", len(s.Skipped), "failed", len(s.Failed))
	if len(s.Succeeded) > 0 {
		l.Info("Succeeded objects", "objects", strings.Join(s.Succeeded, ", "))
	}
	if len(s.Skipped) > 0 {
		l.Warn("Skipped objects", "objects", strings.Join(s.Skipped, ", "))
	}
	if len(s.Failed) > 0 {
		l.Error("Failed objects", "objects", strings.Join(s.Failed, ", "))
	}
}

type Options struct {
	Logger *slog.Logger
	// Run, when set, receives the outcome of every object.
	Run *ledger.Run
}

// Run calls step for each object in order. A failing or panicking step
// is recorded and the next object is processed. When ctx is cancelled
// the remaining objects are recorded as failed.
func Run(ctx context.Context, objects []iak.Object, step Step, opts Options) Summary {
	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}
	s := Summary{Errors: make(map[string]error)}
	for _, obj := range objects {
		ol := l.With("object", obj.Code)
		err := ctx.Err()
		if err == nil {
			ol.Info("Processing object")
			err = safe(ctx, obj, step)
		}

		status, msg := ledger.StatusSucceeded, ""
		switch {
		case err == nil:
			s.Succeeded = append(s.Succeeded, obj.Code)
			ol.Info("Object done")
		case errors.Is(err, ErrSkipped):
			status, msg = ledger.StatusSkipped, err.Error()
			s.Skipped = append(s.Skipped, obj.Code)
			ol.Info("Object skipped", "reason", err)
		default:
			status, msg = ledger.StatusFailed, err.Error()
			s.Failed = append(s.Failed, obj.Code)
			s.Errors[obj.Code] = err
			ol.Error("Object failed", "error", err)
		}
		if err := opts.Run.Record(context.WithoutCancel(ctx), obj.Code, status, msg); err != nil {
			ol.Warn("Recording outcome", "error", err)
		}
	}
	if err := opts.Run.Finish(context.WithoutCancel(ctx), len(s.Succeeded), len(s.Skipped), len(s.Failed)); err != nil {
		l.Warn("Recording run", "error", err)
	}
	return s
}

func safe(ctx context.Context, obj iak.Object, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step(ctx, obj)
}
