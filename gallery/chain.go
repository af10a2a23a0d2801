package gallery

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/saver/physics"
)

// chain hangs a spring-linked rope from an anchor tracing a Lissajous curve
type chain struct {
	base
	anchor *physics.Anchor
	links  []*physics.Particle

	t            float64
	freqX, freqY float64
	phase        float64
	trail        float64
}

func newChain(rng *rand.Rand, opts Options) Algorithm {
	return &chain{base: newBase(rng, opts)}
}

func (c *chain) Name() string { return "springs" }

func (c *chain) Reset(w, h float64) {
	c.w, c.h = w, h
	c.anchor = &physics.Anchor{X: w / 2, Y: h / 2}
	c.t = 0
	c.Reroll()
}

func (c *chain) Reroll() {
	c.palette = RandomPalette(c.rng)
	c.freqX = c.between(0.005, 0.03)
	c.freqY = c.between(0.005, 0.03)
	c.phase = c.rng.Float64() * 2 * math.Pi
	c.trail = c.between(0.4, 0.75)

	k := c.between(0.02, 0.08)
	friction := c.between(0.8, 0.95)
	gravity := c.between(0.02, 0.15)
	rest := c.between(1.5, 4)
	n := 8 + c.rng.Intn(17)

	c.links = c.links[:0]
	var prev physics.Locator = c.anchor
	for i := 0; i < n; i++ {
		p := c.particle(c.anchor.X, c.anchor.Y+float64(i+1)*rest, 0, 0, gravity)
		p.Friction = friction
		if i == 0 {
			p.AddSpring(prev, k, 0)
		} else {
			p.AddSpring(prev, k, rest)
		}
		c.links = append(c.links, p)
		prev = p
	}
}

func (c *chain) Step() {
	c.t++
	c.anchor.X = c.w/2 + math.Cos(c.t*c.freqX)*c.w*0.35
	c.anchor.Y = c.h/2 + math.Sin(c.t*c.freqY+c.phase)*c.h*0.35

	for _, p := range c.links {
		p.Update()
		if !physics.Finite(p) {
			p.Reset(c.anchor.X, c.anchor.Y, 0, 0)
		}
	}
	if c.cadence.tick() {
		c.Reroll()
	}
}

func (c *chain) Draw(cv Canvas) {
	cv.Fade(c.trail)
	n := float64(len(c.links))

	px, py := c.anchor.X, c.anchor.Y
	cv.Plot(px, py, '+', c.palette.At(0))
	for i, p := range c.links {
		t := (float64(i) + 1) / n
		// Interpolate the segment so the rope reads as continuous
		for s := 1; s < 4; s++ {
			f := float64(s) / 4
			cv.Plot(px+(p.X-px)*f, py+(p.Y-py)*f, '·', c.palette.Dim(t, 0.4))
		}
		cv.Plot(p.X, p.Y, 'o', c.palette.At(t))
		px, py = p.X, p.Y
	}
}

func (c *chain) Bodies() []*physics.Particle {
	return c.links
}
