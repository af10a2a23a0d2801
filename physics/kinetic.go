package physics

import (
	"math"
)

// ReflectBoundsX handles horizontal boundary collision, returns true if reflection occurred
// Clamps into [minX, maxX] and scales VX by Bounce (-1 mirrors, (-1, 0) loses energy)
func ReflectBoundsX(p *Particle, minX, maxX float64) bool {
	if p.X < minX {
		p.X = minX
		p.VX *= p.Bounce
		return true
	}
	if p.X > maxX {
		p.X = maxX
		p.VX *= p.Bounce
		return true
	}
	return false
}

// ReflectBoundsY handles vertical boundary collision, returns true if reflection occurred
func ReflectBoundsY(p *Particle, minY, maxY float64) bool {
	if p.Y < minY {
		p.Y = minY
		p.VY *= p.Bounce
		return true
	}
	if p.Y > maxY {
		p.Y = maxY
		p.VY *= p.Bounce
		return true
	}
	return false
}

// ReflectBounds handles both axis boundary collisions within [0, width] x [0, height]
func ReflectBounds(p *Particle, width, height float64) bool {
	rx := ReflectBoundsX(p, 0, width)
	ry := ReflectBoundsY(p, 0, height)
	return rx || ry
}

// Wrap moves a particle that left [0, width) x [0, height) to the opposite edge
func Wrap(p *Particle, width, height float64) {
	if width > 0 {
		p.X = math.Mod(p.X, width)
		if p.X < 0 {
			p.X += width
		}
	}
	if height > 0 {
		p.Y = math.Mod(p.Y, height)
		if p.Y < 0 {
			p.Y += height
		}
	}
}

// Finite reports whether position and velocity are all finite
// Drivers use it to recycle a particle corrupted by propagated NaN/Inf
func Finite(p *Particle) bool {
	for _, v := range [...]float64{p.X, p.Y, p.VX, p.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
