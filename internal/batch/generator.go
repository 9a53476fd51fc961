// Package batch generates ordered batches of mazes from a seed policy and
// sweeps batch generation across maze sizes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/mazebatch/internal/logging"
	"github.com/samdwyer/mazebatch/internal/maze"
	"github.com/samdwyer/mazebatch/internal/seed"
	"github.com/samdwyer/mazebatch/internal/telemetry"
)

// ErrInvalidRequest is returned before any maze is requested when the
// batch parameters are out of range.
var ErrInvalidRequest = errors.New("invalid batch request")

// GenerationError reports the request that aborted a batch.
type GenerationError struct {
	Index int
	Seed  int64
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("maze %d (seed %d): %v", e.Index, e.Seed, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Request describes one batch: Count mazes of Width x Height with seeds
// drawn from Policy.
type Request struct {
	Width  int
	Height int
	Count  int
	Policy seed.Policy
}

// Validate checks the request bounds.
func (r Request) Validate() error {
	switch {
	case r.Width <= 0:
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidRequest, r.Width)
	case r.Height <= 0:
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidRequest, r.Height)
	case r.Count <= 0:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRequest, r.Count)
	case r.Policy == nil:
		return fmt.Errorf("%w: seed policy is required", ErrInvalidRequest)
	}
	return nil
}

// Batch is an ordered set of mazes. Mazes[i] was generated from Seeds[i].
// Elements are *maze.Grid, or []maze.Cell when the batch is flattened.
type Batch struct {
	Width     int
	Height    int
	Flattened bool
	Seeds     []int64
	Mazes     []any
}

// Len returns the number of mazes in the batch.
func (b *Batch) Len() int {
	return len(b.Mazes)
}

// Generator requests mazes from a Service one at a time.
type Generator struct {
	Service maze.Service
	// Flatten stores each maze as a row-major cell slice instead of a grid.
	Flatten bool
	// Perfect is passed through on every request.
	Perfect bool
}

// NewGenerator creates a generator that requests perfect mazes.
func NewGenerator(svc maze.Service, flatten bool) *Generator {
	return &Generator{Service: svc, Flatten: flatten, Perfect: true}
}

// Generate produces exactly req.Count mazes in seed order. The first
// failure aborts the batch and no partial batch is returned.
func (g *Generator) Generate(ctx context.Context, req Request) (*Batch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tracer := telemetry.Tracer("batch")
	ctx, span := tracer.Start(ctx, "batch.generate")
	defer span.End()

	logger := logging.FromContext(ctx)
	startTime := time.Now()

	span.SetAttributes(
		attribute.Int("batch.width", req.Width),
		attribute.Int("batch.height", req.Height),
		attribute.Int("batch.count", req.Count),
		attribute.String("batch.seed_policy", req.Policy.Name()),
		attribute.Bool("batch.flatten", g.Flatten),
	)

	b := &Batch{
		Width:     req.Width,
		Height:    req.Height,
		Flattened: g.Flatten,
		Seeds:     seed.Derive(req.Policy, req.Count),
		Mazes:     make([]any, 0, req.Count),
	}

	for i, s := range b.Seeds {
		if err := ctx.Err(); err != nil {
			return nil, g.fail(span, &GenerationError{Index: i, Seed: s, Err: err})
		}

		grid, err := g.Service.Generate(ctx, maze.Request{
			Width:   req.Width,
			Height:  req.Height,
			Seed:    s,
			Perfect: g.Perfect,
		})
		if err != nil {
			return nil, g.fail(span, &GenerationError{Index: i, Seed: s, Err: err})
		}
		if grid == nil {
			return nil, g.fail(span, &GenerationError{Index: i, Seed: s, Err: errors.New("service returned no maze")})
		}

		if g.Flatten {
			b.Mazes = append(b.Mazes, grid.Flatten())
		} else {
			b.Mazes = append(b.Mazes, grid)
		}
		logger.Debug().Int("index", i).Int64("seed", s).Msg("maze generated")
	}

	elapsed := time.Since(startTime)
	span.SetAttributes(attribute.Int64("batch.generation_ms", elapsed.Milliseconds()))
	logger.Info().
		Int("width", req.Width).
		Int("height", req.Height).
		Int("count", req.Count).
		Str("policy", req.Policy.Name()).
		Dur("elapsed", elapsed).
		Msg("batch generated")

	return b, nil
}

// fail marks the span as failed and returns err unchanged.
func (g *Generator) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
