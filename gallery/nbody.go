package gallery

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/saver/physics"
)

// minBodyDistance softens close encounters between bodies
const minBodyDistance = 3

// nbody simulates mutual gravitation between every pair of bodies
type nbody struct {
	base
	world  *physics.World
	trail  float64
	maxM   float64
	bodies []*physics.Particle
}

func newNBody(rng *rand.Rand, opts Options) Algorithm {
	cfg := opts.Physics
	cfg.OnDegenerate = physics.DegenerateClamp
	if cfg.MinDistance < minBodyDistance {
		cfg.MinDistance = minBodyDistance
	}
	return &nbody{
		base:  newBase(rng, opts),
		world: physics.NewWorld(cfg),
	}
}

func (n *nbody) Name() string { return "nbody" }

func (n *nbody) Reset(w, h float64) {
	n.w, n.h = w, h
	n.Reroll()
}

func (n *nbody) Reroll() {
	n.palette = RandomPalette(n.rng)
	n.trail = n.between(0.85, 0.95)
	n.maxM = n.between(30, 120)

	n.world.Reset()
	count := 4 + n.rng.Intn(9)
	for i := 0; i < count; i++ {
		n.spawn()
	}
	n.collect()
}

// spawn adds a body near the centre and attracts it to every existing body
func (n *nbody) spawn() physics.Handle {
	x := n.w/2 + n.between(-0.3, 0.3)*n.w
	y := n.h/2 + n.between(-0.3, 0.3)*n.h
	h := n.world.Spawn(x, y, n.between(0, 0.6), n.rng.Float64()*2*math.Pi, 0)

	p, _ := n.world.Get(h)
	p.Mass = n.between(n.maxM*0.2, n.maxM)
	p.Friction = 0.999

	n.world.Each(func(other physics.Handle, _ *physics.Particle) {
		if other != h {
			n.world.Attract(h, other)
		}
	})
	return h
}

func (n *nbody) Step() {
	n.world.Step()

	margin := math.Max(n.w, n.h)
	var lost []physics.Handle
	n.world.Each(func(h physics.Handle, p *physics.Particle) {
		if !physics.Finite(p) || p.X < -margin || p.X > n.w+margin || p.Y < -margin || p.Y > n.h+margin {
			lost = append(lost, h)
		}
	})
	for _, h := range lost {
		n.world.Remove(h)
		n.spawn()
	}
	if len(lost) > 0 {
		n.collect()
	}

	if n.cadence.tick() {
		n.Reroll()
	}
}

func (n *nbody) collect() {
	n.bodies = n.bodies[:0]
	n.world.Each(func(_ physics.Handle, p *physics.Particle) {
		n.bodies = append(n.bodies, p)
	})
}

func (n *nbody) Draw(c Canvas) {
	c.Fade(n.trail)
	for _, p := range n.bodies {
		t := p.Mass / n.maxM
		glyph := '•'
		if t > 0.66 {
			glyph = '●'
		} else if t < 0.33 {
			glyph = '·'
		}
		c.Plot(p.X, p.Y, glyph, n.palette.At(t))
	}
}

func (n *nbody) Bodies() []*physics.Particle {
	return n.bodies
}
