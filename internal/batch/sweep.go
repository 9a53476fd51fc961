package batch

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazebatch/internal/logging"
	"github.com/samdwyer/mazebatch/internal/seed"
	"github.com/samdwyer/mazebatch/internal/telemetry"
)

// Sink persists a finished batch for one sweep size.
type Sink interface {
	WriteBatch(ctx context.Context, size int, b *Batch) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, size int, b *Batch) error

// WriteBatch calls f(ctx, size, b).
func (f SinkFunc) WriteBatch(ctx context.Context, size int, b *Batch) error {
	return f(ctx, size, b)
}

// SizeError reports the sweep size whose batch failed.
type SizeError struct {
	Size int
	Err  error
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("size %d: %v", e.Size, e.Err)
}

func (e *SizeError) Unwrap() error {
	return e.Err
}

// SweepRequest generates square batches for every size in [MinSize, MaxSize].
type SweepRequest struct {
	MinSize int
	MaxSize int
	Count   int
	Policy  seed.Policy
	// KeepGoing continues with the next size after a failure instead of
	// aborting the sweep. All failures are returned joined.
	KeepGoing bool
}

// Validate checks the sweep bounds.
func (r SweepRequest) Validate() error {
	if r.MinSize <= 0 {
		return fmt.Errorf("%w: sweep min size must be positive, got %d", ErrInvalidRequest, r.MinSize)
	}
	if r.MaxSize < r.MinSize {
		return fmt.Errorf("%w: sweep max size %d is below min size %d", ErrInvalidRequest, r.MaxSize, r.MinSize)
	}
	return Request{Width: r.MinSize, Height: r.MinSize, Count: r.Count, Policy: r.Policy}.Validate()
}

// Sweep generates one batch per size and hands each to sink as soon as it
// is complete. Sizes written before a failure stay written.
func (g *Generator) Sweep(ctx context.Context, req SweepRequest, sink Sink) error {
	if err := req.Validate(); err != nil {
		return err
	}

	tracer := telemetry.Tracer("batch")
	ctx, span := tracer.Start(ctx, "batch.sweep")
	defer span.End()
	span.SetAttributes(
		attribute.Int("sweep.min_size", req.MinSize),
		attribute.Int("sweep.max_size", req.MaxSize),
		attribute.Int("sweep.count", req.Count),
		attribute.Bool("sweep.keep_going", req.KeepGoing),
	)

	logger := logging.FromContext(ctx)

	var errs []error
	written := 0
	for size := req.MinSize; size <= req.MaxSize; size++ {
		err := g.sweepSize(ctx, size, req, sink)
		if err == nil {
			written++
			continue
		}

		sizeErr := &SizeError{Size: size, Err: err}
		if !req.KeepGoing || ctx.Err() != nil {
			span.SetAttributes(attribute.Int("sweep.sizes_written", written))
			return g.fail(span, sizeErr)
		}
		logger.Error().Err(err).Int("size", size).Msg("sweep size failed, continuing")
		errs = append(errs, sizeErr)
	}

	span.SetAttributes(attribute.Int("sweep.sizes_written", written))
	if len(errs) > 0 {
		return g.fail(span, errors.Join(errs...))
	}
	logger.Info().Int("sizes", written).Msg("sweep complete")
	return nil
}

func (g *Generator) sweepSize(ctx context.Context, size int, req SweepRequest, sink Sink) error {
	b, err := g.Generate(ctx, Request{
		Width:  size,
		Height: size,
		Count:  req.Count,
		Policy: req.Policy,
	})
	if err != nil {
		return err
	}
	return sink.WriteBatch(ctx, size, b)
}
