// Package seed derives the deterministic seed sequence used for a batch.
package seed

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSpreadMax is the upper end of the seed space used by Spread.
const DefaultSpreadMax int64 = 1337420

// Policy names accepted by Parse.
const (
	NameSequential = "sequential"
	NameOffset     = "offset"
	NameSpread     = "spread"
)

var (
	ErrUnknownPolicy = errors.New("unknown seed policy")
	ErrInvalidMax    = errors.New("spread max must not be negative")
)

// Policy maps the index of a maze within a batch of n mazes to its seed.
type Policy interface {
	Seed(i, n int) int64
	Name() string
}

// Sequential uses the index itself as the seed.
type Sequential struct{}

func (Sequential) Seed(i, _ int) int64 { return int64(i) }
func (Sequential) Name() string        { return NameSequential }

// Offset shifts the sequential seeds by a fixed amount.
type Offset struct {
	Offset int64
}

func (o Offset) Seed(i, _ int) int64 { return int64(i) + o.Offset }
func (o Offset) Name() string        { return NameOffset }

// Spread samples n seeds evenly across [0, Max].
type Spread struct {
	Max int64
}

// Seed returns floor(i / (n-1) * Max). A single-element batch gets seed 0.
// Max is split into quotient and remainder by n-1 so the product cannot
// overflow for any Max.
func (s Spread) Seed(i, n int) int64 {
	if n <= 1 {
		return 0
	}
	d := int64(n - 1)
	q, r := s.Max/d, s.Max%d
	return int64(i)*q + int64(i)*r/d
}

func (s Spread) Name() string { return NameSpread }

// Derive returns the ordered seeds for a batch of n mazes.
func Derive(p Policy, n int) []int64 {
	if n <= 0 {
		return nil
	}
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = p.Seed(i, n)
	}
	return seeds
}

// Parse builds a policy from its configured name. offset is used by the
// offset policy and maxSeed by the spread policy. A zero maxSeed is kept,
// which makes every spread seed 0.
func Parse(name string, offset, maxSeed int64) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameSequential:
		return Sequential{}, nil
	case NameOffset:
		return Offset{Offset: offset}, nil
	case NameSpread:
		if maxSeed < 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidMax, maxSeed)
		}
		return Spread{Max: maxSeed}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
