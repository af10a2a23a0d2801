// Package gallery holds the animated algorithms the screensaver cycles through
// Every algorithm has the same shallow shape: randomized parameters at construction,
// one Step per frame, a Reroll of its parameters every few hundred frames, and a Draw onto a Canvas
package gallery

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/saver/physics"
)

// ErrUnknownAlgorithm is returned by Filter for names missing from the catalog
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Canvas is the drawing surface algorithms render into
// Coordinates are world units; Bounds reports the drawable extent
type Canvas interface {
	Bounds() (w, h float64)
	Plot(x, y float64, ch rune, c colorful.Color)
	Fade(factor float64)
}

// Algorithm is one entry of the gallery
type Algorithm interface {
	Name() string
	// Reset rebuilds state for a canvas of the given extent
	Reset(w, h float64)
	// Step advances one frame and rerolls parameters when the cadence elapses
	Step()
	// Reroll picks new random parameters without changing the extent
	Reroll()
	Draw(c Canvas)
	// Bodies exposes the simulated particles for snapshots
	Bodies() []*physics.Particle
}

// Options carries the knobs every algorithm shares
type Options struct {
	Physics     physics.Config
	RerollEvery int // frames between parameter rerolls, 0 disables
}

// DefaultOptions returns unit physics and a reroll every 600 frames
func DefaultOptions() Options {
	return Options{
		Physics:     physics.DefaultConfig(),
		RerollEvery: 600,
	}
}

// Factory constructs a named algorithm
type Factory struct {
	Name string
	New  func(rng *rand.Rand, opts Options) Algorithm
}

var catalog = []Factory{
	{Name: "orbit", New: newOrbit},
	{Name: "springs", New: newChain},
	{Name: "nbody", New: newNBody},
	{Name: "fountain", New: newFountain},
}

// Catalog returns every registered algorithm in display order
func Catalog() []Factory {
	out := make([]Factory, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a factory by name
func Lookup(name string) (Factory, bool) {
	for _, f := range catalog {
		if f.Name == name {
			return f, true
		}
	}
	return Factory{}, false
}

// Filter returns the factories named, in the order given; an empty list selects the whole catalog
func Filter(names []string) ([]Factory, error) {
	if len(names) == 0 {
		return Catalog(), nil
	}
	out := make([]Factory, 0, len(names))
	for _, n := range names {
		f, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, n)
		}
		out = append(out, f)
	}
	return out, nil
}

// cadence counts frames until the next reroll
type cadence struct {
	every int
	frame int
}

func (c *cadence) tick() bool {
	if c.every <= 0 {
		return false
	}
	c.frame++
	if c.frame >= c.every {
		c.frame = 0
		return true
	}
	return false
}

// base is the state every algorithm shares
type base struct {
	rng     *rand.Rand
	opts    Options
	w, h    float64
	palette Palette
	cadence cadence
}

func newBase(rng *rand.Rand, opts Options) base {
	return base{
		rng:     rng,
		opts:    opts,
		palette: RandomPalette(rng),
		cadence: cadence{every: opts.RerollEvery},
	}
}

// between returns a uniform value in [lo, hi)
func (b *base) between(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}

// particle creates a particle carrying the algorithm's physics config
func (b *base) particle(x, y, speed, direction, gravity float64) *physics.Particle {
	p := physics.NewParticle(x, y, speed, direction, gravity)
	p.Config = b.opts.Physics
	return p
}
