package vmath

import (
	"fmt"
	"math"
)

// Vector is a mutable 2D quantity in cartesian form
// Length and angle are derived on demand, never stored
// Value-returning methods leave the receiver untouched; the *To/*From/*By family mutates in place
type Vector struct {
	x, y float64
}

// NewVector returns the vector (x, y)
func NewVector(x, y float64) Vector {
	return Vector{x: x, y: y}
}

// FromPolar returns a vector of the given length pointing along angle (radians)
func FromPolar(length, angle float64) Vector {
	return Vector{x: math.Cos(angle) * length, y: math.Sin(angle) * length}
}

func (v Vector) X() float64 { return v.x }
func (v Vector) Y() float64 { return v.y }

func (v *Vector) SetX(x float64) { v.x = x }
func (v *Vector) SetY(y float64) { v.y = y }

// Location implements physics.Locator on *Vector, so relationships key on the vector's address
func (v *Vector) Location() (x, y float64) {
	return v.x, v.y
}

// Length returns sqrt(x² + y²)
func (v Vector) Length() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y)
}

// SetLength rescales along the current angle
// A zero vector has angle 0, so it becomes (length, 0)
func (v *Vector) SetLength(length float64) {
	angle := v.Angle()
	v.x = math.Cos(angle) * length
	v.y = math.Sin(angle) * length
}

// Angle returns atan2(y, x) in (-π, π]
func (v Vector) Angle() float64 {
	return math.Atan2(v.y, v.x)
}

// SetAngle rotates to the given angle, preserving length
func (v *Vector) SetAngle(angle float64) {
	length := v.Length()
	v.x = math.Cos(angle) * length
	v.y = math.Sin(angle) * length
}

func (v Vector) Add(v2 Vector) Vector {
	return Vector{x: v.x + v2.x, y: v.y + v2.y}
}

func (v Vector) Subtract(v2 Vector) Vector {
	return Vector{x: v.x - v2.x, y: v.y - v2.y}
}

func (v Vector) Multiply(s float64) Vector {
	return Vector{x: v.x * s, y: v.y * s}
}

// Divide follows IEEE754: dividing by zero yields ±Inf or NaN components
func (v Vector) Divide(s float64) Vector {
	return Vector{x: v.x / s, y: v.y / s}
}

func (v *Vector) AddTo(v2 Vector) {
	v.x += v2.x
	v.y += v2.y
}

func (v *Vector) SubtractFrom(v2 Vector) {
	v.x -= v2.x
	v.y -= v2.y
}

func (v *Vector) MultiplyBy(s float64) {
	v.x *= s
	v.y *= s
}

// DivideBy follows IEEE754 like Divide
func (v *Vector) DivideBy(s float64) {
	v.x /= s
	v.y /= s
}

// DistanceTo returns the Euclidean distance between the two points
func (v Vector) DistanceTo(v2 Vector) float64 {
	return math.Hypot(v2.x-v.x, v2.y-v.y)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g)", v.x, v.y)
}
