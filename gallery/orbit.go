package gallery

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/saver/physics"
	"github.com/lixenwraith/saver/vmath"
)

// orbit launches planets around a fixed sun at circular-orbit speed
type orbit struct {
	base
	sun     *physics.Anchor
	planets []*physics.Particle
	minR    float64
	maxR    float64
	trail   float64

	// circularize is the share of radial velocity removed per frame
	circularize float64
}

func newOrbit(rng *rand.Rand, opts Options) Algorithm {
	return &orbit{base: newBase(rng, opts)}
}

func (o *orbit) Name() string { return "orbit" }

func (o *orbit) Reset(w, h float64) {
	o.w, o.h = w, h
	o.sun = &physics.Anchor{X: w / 2, Y: h / 2}
	o.Reroll()
}

func (o *orbit) Reroll() {
	o.palette = RandomPalette(o.rng)
	o.sun.X, o.sun.Y = o.w/2, o.h/2
	o.sun.Mass = o.between(150, 900)
	o.trail = o.between(0.85, 0.95)
	o.circularize = 0
	if o.rng.Intn(3) == 0 {
		o.circularize = o.between(0.002, 0.02)
	}

	extent := math.Min(o.w, o.h)
	o.minR = extent * 0.12
	o.maxR = extent * 0.45

	n := 3 + o.rng.Intn(7)
	o.planets = o.planets[:0]
	for i := 0; i < n; i++ {
		p := o.particle(0, 0, 0, 0, 0)
		p.AddGravitation(o.sun)
		o.launch(p)
		o.planets = append(o.planets, p)
	}
}

// launch places p on a random radius with tangential velocity sqrt(G*M/r)
func (o *orbit) launch(p *physics.Particle) {
	r := o.between(o.minR, o.maxR)
	angle := o.rng.Float64() * 2 * math.Pi
	pos := vmath.NewVector(o.sun.X, o.sun.Y).Add(vmath.FromPolar(r, angle))

	p.Reset(pos.X(), pos.Y(), 0, 0)
	// Slight eccentricity so orbits precess visibly
	physics.OrbitalInsert(p, o.sun, o.between(0.85, 1.1), o.rng.Intn(4) == 0)
}

func (o *orbit) Step() {
	escape := 2 * math.Max(o.w, o.h)
	for _, p := range o.planets {
		if o.circularize > 0 {
			physics.OrbitalDamp(p, o.sun, o.circularize)
		}
		p.Update()
		if !physics.Finite(p) || p.DistanceTo(o.sun) > escape {
			o.launch(p)
		}
	}
	if o.cadence.tick() {
		o.Reroll()
	}
}

func (o *orbit) Draw(c Canvas) {
	c.Fade(o.trail)
	c.Plot(o.sun.X, o.sun.Y, '@', o.palette.At(0))
	n := float64(len(o.planets))
	for i, p := range o.planets {
		c.Plot(p.X, p.Y, headingGlyph(p.Heading()), o.palette.At((float64(i)+1)/n))
	}
}

func (o *orbit) Bodies() []*physics.Particle {
	return o.planets
}
