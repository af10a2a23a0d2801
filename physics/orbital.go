package physics

import "math"

// OrbitalVelocity returns the speed of a circular orbit of the given radius around mass
// v = sqrt(G * M / r); zero for a non-positive radius
func (c Config) OrbitalVelocity(mass, radius float64) float64 {
	if radius <= 0 || mass <= 0 {
		return 0
	}
	return math.Sqrt(c.GravitationalConstant * mass / radius)
}

// OrbitalInsert sets p's velocity tangent to a at scale times circular-orbit speed
// scale below 1 decays inward, above 1 climbs; clockwise reverses the direction
// Returns false, leaving velocity untouched, when p sits on the attractor
func OrbitalInsert(p *Particle, a Attractor, scale float64, clockwise bool) bool {
	ax, ay := a.Location()
	dx, dy := p.X-ax, p.Y-ay
	r := math.Hypot(dx, dy)
	if r == 0 {
		return false
	}

	speed := p.Config.OrbitalVelocity(a.AttractionMass(), r) * scale

	// Tangent is the radius rotated a quarter turn
	tx, ty := -dy/r, dx/r
	if clockwise {
		tx, ty = -tx, -ty
	}
	p.VX, p.VY = tx*speed, ty*speed
	return true
}

// OrbitalDamp removes factor of p's radial velocity relative to a, pulling eccentric orbits toward circular
// factor is clamped to [0, 1]
func OrbitalDamp(p *Particle, a Locator, factor float64) {
	ax, ay := a.Location()
	dx, dy := p.X-ax, p.Y-ay
	r := math.Hypot(dx, dy)
	if r == 0 {
		return
	}
	rx, ry := dx/r, dy/r
	radial := p.VX*rx + p.VY*ry
	cut := radial * min(max(factor, 0), 1)
	p.VX -= cut * rx
	p.VY -= cut * ry
}
