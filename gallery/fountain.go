package gallery

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/saver/physics"
	"github.com/lixenwraith/saver/vmath"
)

type drop struct {
	p    *physics.Particle
	age  int
	life int
}

// fountain sprays droplets under constant gravity that bounce off the floor
type fountain struct {
	base
	emitter   vmath.Vector
	drops     []drop
	particles []*physics.Particle

	power  float64
	spread float64
	trail  float64
}

func newFountain(rng *rand.Rand, opts Options) Algorithm {
	return &fountain{base: newBase(rng, opts)}
}

func (f *fountain) Name() string { return "fountain" }

func (f *fountain) Reset(w, h float64) {
	f.w, f.h = w, h
	f.Reroll()
}

func (f *fountain) Reroll() {
	f.palette = RandomPalette(f.rng)
	f.emitter = vmath.NewVector(f.w*f.between(0.3, 0.7), f.h)
	f.trail = f.between(0.6, 0.85)
	f.spread = f.between(0.2, 0.9)

	gravity := f.between(0.05, 0.2)
	// Enough launch speed to reach 40-90% of the height: v² = 2 g y
	f.power = math.Sqrt(2 * gravity * f.h * f.between(0.4, 0.9))
	bounce := -f.between(0.3, 0.7)

	n := 60 + f.rng.Intn(100)
	f.drops = f.drops[:0]
	f.particles = f.particles[:0]
	for i := 0; i < n; i++ {
		p := f.particle(0, 0, 0, 0, gravity)
		p.Bounce = bounce
		p.Friction = 0.995
		d := drop{p: p}
		f.emit(&d)
		// Stagger so the first frame is not a single burst
		d.age = f.rng.Intn(d.life)
		f.drops = append(f.drops, d)
		f.particles = append(f.particles, p)
	}
}

// emit relaunches d from the emitter, aimed upward within the spread cone
func (f *fountain) emit(d *drop) {
	aim := vmath.FromPolar(f.power*f.between(0.7, 1), -math.Pi/2)
	aim.SetAngle(aim.Angle() + (f.rng.Float64()-0.5)*f.spread)

	origin := f.emitter.Add(vmath.NewVector(f.between(-1, 1), 0))
	d.p.Reset(origin.X(), origin.Y(), aim.Length(), aim.Angle())
	d.age = 0
	d.life = 80 + f.rng.Intn(160)
}

func (f *fountain) Step() {
	for i := range f.drops {
		d := &f.drops[i]
		d.p.Update()
		physics.ReflectBounds(d.p, f.w, f.h)
		d.age++
		if d.age > d.life || !physics.Finite(d.p) {
			f.emit(d)
		}
	}
	if f.cadence.tick() {
		f.Reroll()
	}
}

func (f *fountain) Draw(c Canvas) {
	c.Fade(f.trail)
	for _, d := range f.drops {
		t := float64(d.age) / float64(d.life)
		c.Plot(d.p.X, d.p.Y, speedGlyph(d.p.Speed(), f.power*0.6), f.palette.Dim(t, t*0.6))
	}
}

func (f *fountain) Bodies() []*physics.Particle {
	return f.particles
}
