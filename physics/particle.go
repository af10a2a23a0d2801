package physics

import (
	"math"
	"reflect"
)

// Locator is anything with a position in the plane
type Locator interface {
	Location() (x, y float64)
}

// Attractor is a Locator with mass that can pull particles toward it
type Attractor interface {
	Locator
	AttractionMass() float64
}

// Anchor is a fixed point owned by the caller, usable as spring end or attracting body
type Anchor struct {
	X, Y float64
	Mass float64
}

func (a *Anchor) Location() (x, y float64) { return a.X, a.Y }
func (a *Anchor) AttractionMass() float64  { return a.Mass }

// Spring is a Hookean tether from a particle to Point
type Spring struct {
	Point  Locator
	K      float64 // stiffness
	Length float64 // rest length
}

// sameLocator reports whether a and b name the same point
// Comparable values use ==, while slices, maps and funcs match on their backing pointer
// Other non-comparable values never match, so re-adding one appends a new entry
func sameLocator(a, b Locator) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil || ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// Particle is a point mass advanced by one explicit Euler step per Update
// Springs and gravitations hold non-owning references, keyed by identity:
// register pointers so that identity is the referenced object
type Particle struct {
	X, Y   float64
	VX, VY float64

	Gravity  float64 // constant acceleration added to VY each step
	Bounce   float64 // restitution used by ReflectBounds, not by Update
	Friction float64 // velocity multiplier per step, 1 = no damping
	Mass     float64 // mass seen by particles gravitating to this one

	Config Config

	springs      []Spring
	gravitations []Attractor
}

// NewParticle places a particle at (x, y) moving at speed along direction (radians)
func NewParticle(x, y, speed, direction, gravity float64) *Particle {
	p := &Particle{
		Gravity:  gravity,
		Bounce:   -1,
		Friction: 1,
		Mass:     1,
		Config:   DefaultConfig(),
	}
	p.Reset(x, y, speed, direction)
	return p
}

// Reset repositions the particle and replaces its velocity, keeping coefficients and relationships
func (p *Particle) Reset(x, y, speed, direction float64) {
	p.X = x
	p.Y = y
	p.VX = math.Cos(direction) * speed
	p.VY = math.Sin(direction) * speed
}

func (p *Particle) Location() (x, y float64) { return p.X, p.Y }
func (p *Particle) AttractionMass() float64  { return p.Mass }

// Accelerate adds directly to velocity
func (p *Particle) Accelerate(ax, ay float64) {
	p.VX += ax
	p.VY += ay
}

// AddSpring tethers the particle to point, replacing any existing spring to the same point
func (p *Particle) AddSpring(point Locator, k, length float64) {
	p.RemoveSpring(point)
	p.springs = append(p.springs, Spring{Point: point, K: k, Length: length})
}

// RemoveSpring drops the spring to point, reporting whether one existed
func (p *Particle) RemoveSpring(point Locator) bool {
	for i, s := range p.springs {
		if sameLocator(s.Point, point) {
			p.springs = append(p.springs[:i], p.springs[i+1:]...)
			return true
		}
	}
	return false
}

// AddGravitation registers a, replacing any existing registration of the same body
func (p *Particle) AddGravitation(a Attractor) {
	p.RemoveGravitation(a)
	p.gravitations = append(p.gravitations, a)
}

// RemoveGravitation drops a, reporting whether it was registered
func (p *Particle) RemoveGravitation(a Attractor) bool {
	for i, g := range p.gravitations {
		if sameLocator(g, a) {
			p.gravitations = append(p.gravitations[:i], p.gravitations[i+1:]...)
			return true
		}
	}
	return false
}

// Springs returns a copy of the registered springs in insertion order
func (p *Particle) Springs() []Spring {
	out := make([]Spring, len(p.springs))
	copy(out, p.springs)
	return out
}

// Gravitations returns a copy of the registered bodies in insertion order
func (p *Particle) Gravitations() []Attractor {
	out := make([]Attractor, len(p.gravitations))
	copy(out, p.gravitations)
	return out
}

// AngleTo returns the bearing from the particle to l
func (p *Particle) AngleTo(l Locator) float64 {
	x, y := l.Location()
	return math.Atan2(y-p.Y, x-p.X)
}

// DistanceTo returns the Euclidean distance to l
func (p *Particle) DistanceTo(l Locator) float64 {
	x, y := l.Location()
	dx := x - p.X
	dy := y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Heading returns the direction of travel in radians
func (p *Particle) Heading() float64 {
	return math.Atan2(p.VY, p.VX)
}

// SetHeading rotates velocity to heading h, preserving speed
func (p *Particle) SetHeading(h float64) {
	speed := p.Speed()
	p.VX = math.Cos(h) * speed
	p.VY = math.Sin(h) * speed
}

func (p *Particle) Speed() float64 {
	return math.Sqrt(p.VX*p.VX + p.VY*p.VY)
}

// SetSpeed rescales velocity to s, preserving heading
func (p *Particle) SetSpeed(s float64) {
	heading := p.Heading()
	p.VX = math.Cos(heading) * s
	p.VY = math.Sin(heading) * s
}

// GravitateTo applies inverse-square attraction toward a: force = G * mass / dist²
// The attracted particle's own mass does not enter the acceleration
func (p *Particle) GravitateTo(a Attractor) error {
	x, y := a.Location()
	dx := x - p.X
	dy := y - p.Y
	dist, ok := p.Config.resolveDistance(math.Sqrt(dx*dx + dy*dy))
	if !ok {
		return ErrDegenerateForce
	}
	if dist == 0 && p.Config.OnDegenerate == DegenerateClamp {
		return nil
	}

	force := p.Config.GravitationalConstant * a.AttractionMass() / (dist * dist)
	dt := p.Config.TimeStep
	p.VX += dx / dist * force * dt
	p.VY += dy / dist * force * dt
	return nil
}

// SpringTo applies Hookean acceleration toward point: force = (dist - length) * k
// Inside the rest length the force pushes away
func (p *Particle) SpringTo(point Locator, k, length float64) error {
	x, y := point.Location()
	dx := x - p.X
	dy := y - p.Y
	dist, ok := p.Config.resolveDistance(math.Hypot(dx, dy))
	if !ok {
		return ErrDegenerateForce
	}
	if dist == 0 && p.Config.OnDegenerate == DegenerateClamp {
		return nil
	}

	force := (dist - length) * k
	dt := p.Config.TimeStep
	p.VX += dx / dist * force * dt
	p.VY += dy / dist * force * dt
	return nil
}

// HandleSprings applies every registered spring in insertion order
// Degenerate springs are skipped per Config.OnDegenerate
func (p *Particle) HandleSprings() {
	for _, s := range p.springs {
		_ = p.SpringTo(s.Point, s.K, s.Length)
	}
}

// HandleGravitations applies every registered body in insertion order
func (p *Particle) HandleGravitations() {
	for _, g := range p.gravitations {
		_ = p.GravitateTo(g)
	}
}

// Update runs one integration step:
// springs, gravitations, friction, constant gravity, then position += velocity * dt
// Damping and gravity act after force accumulation, so this step's forces fully move this step
func (p *Particle) Update() {
	p.HandleSprings()
	p.HandleGravitations()

	dt := p.Config.TimeStep
	damp := p.damping(dt)
	p.VX *= damp
	p.VY *= damp
	p.VY += p.Gravity * dt

	p.X += p.VX * dt
	p.Y += p.VY * dt
}

// damping returns Friction^dt, taking the power of |Friction| and keeping its sign
// so a negative friction stays finite at fractional time steps
func (p *Particle) damping(dt float64) float64 {
	if dt == 1 {
		return p.Friction
	}
	return math.Copysign(math.Pow(math.Abs(p.Friction), dt), p.Friction)
}
