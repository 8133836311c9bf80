// Package office converts documents and workbooks with an external
// office application.
package office

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kastelo.dev/iak"
	"kastelo.dev/iak/config"
)

type Format string

const (
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
)

// Job is a single conversion of Input into Output.
type Job struct {
	Input  string
	Output string
	Format Format
	// ActiveSheetOnly exports only the active sheet of a workbook.
	ActiveSheetOnly bool
}

type Converter interface {
	Convert(ctx context.Context, job Job) error
}

// Func adapts a function to a Converter.
type Func func(ctx context.Context, job Job) error

func (f Func) Convert(ctx context.Context, job Job) error {
	return f(ctx, job)
}

var ErrUnsupported = errors.New("office automation not available on this platform")

// Fallback converts with Primary and, when that fails, once with
// Secondary.
type Fallback struct {
	Primary   Converter
	Secondary Converter
	Logger    *slog.Logger
}

func (f *Fallback) Convert(ctx context.Context, job Job) error {
	l := f.logger().With("input", job.Input, "output", job.Output)
	err := f.Primary.Convert(ctx, job)
	if err == nil {
		l.Debug("Converted")
		return nil
	}
	if f.Secondary == nil {
		l.Error("Conversion failed", "error", err)
		return fmt.Errorf("%s: %w: %w", job.Input, iak.ErrExport, err)
	}
	l.Warn("Conversion failed, trying fallback", "error", err)
	serr := f.Secondary.Convert(ctx, job)
	if serr == nil {
		l.Info("Converted with fallback")
		return nil
	}
	l.Error("Fallback conversion failed", "error", serr)
	return fmt.Errorf("%s: %w", job.Input, errors.Join(iak.ErrExport, err, serr))
}

func (f *Fallback) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// Retry repeats a conversion that failed because the office
// application was busy, up to Attempts extra times.
type Retry struct {
	Converter Converter
	Attempts  int
	Delay     time.Duration
	Logger    *slog.Logger
}

func (r *Retry) Convert(ctx context.Context, job Job) error {
	for attempt := 0; ; attempt++ {
		err := r.Converter.Convert(ctx, job)
		if err == nil || !Transient(err) || attempt >= r.Attempts {
			return err
		}
		if r.Logger != nil {
			r.Logger.Warn("Office application busy, retrying", "input", job.Input, "attempt", attempt+1, "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Delay):
		}
	}
}

const (
	rpcCallRejected         = 0x80010001
	rpcServerCallRetryLater = 0x8001010A
)

// Transient reports whether err carries a COM result code meaning the
// call should be repeated later.
func Transient(err error) bool {
	var c interface{ Code() uintptr }
	if !errors.As(err, &c) {
		return false
	}
	switch uint32(c.Code()) {
	case rpcCallRejected, rpcServerCallRetryLater:
		return true
	}
	return false
}

// New returns the converter configured in cfg: the primary backend,
// retried on transient errors, falling back to the secondary backend.
func New(cfg config.Export, logger *slog.Logger) (Converter, error) {
	primary, err := backend(cfg.Primary, cfg)
	if err != nil {
		return nil, err
	}
	secondary, err := backend(cfg.Fallback, cfg)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		primary, secondary = secondary, nil
	}
	if primary == nil {
		return Func(func(_ context.Context, job Job) error {
			return fmt.Errorf("%s: %w: no export backend configured", job.Input, iak.ErrExport)
		}), nil
	}
	if cfg.Retries > 0 {
		primary = &Retry{Converter: primary, Attempts: cfg.Retries, Delay: cfg.RetryDelay.Std(), Logger: logger}
	}
	return &Fallback{Primary: primary, Secondary: secondary, Logger: logger}, nil
}

func backend(name string, cfg config.Export) (Converter, error) {
	switch name {
	case config.BackendOffice:
		return OLE{}, nil
	case config.BackendLibreOffice:
		return &LibreOffice{Binary: cfg.Soffice}, nil
	case config.BackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown export backend %q", name)
	}
}
