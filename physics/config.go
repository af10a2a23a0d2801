package physics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDegenerateForce is returned when a force is skipped because the two points are closer than MinDistance
var ErrDegenerateForce = errors.New("physics: degenerate force distance")

// DefaultMinDistance is the distance below which a spring or gravitation is considered degenerate
const DefaultMinDistance = 1e-9

// DegeneratePolicy selects how force computations treat near-zero distances
type DegeneratePolicy uint8

const (
	// DegenerateSkip leaves velocity untouched and reports ErrDegenerateForce
	DegenerateSkip DegeneratePolicy = iota
	// DegenerateClamp raises the distance to MinDistance; coincident points yield zero force
	DegenerateClamp
	// DegeneratePropagate performs the raw division, letting NaN/Inf reach velocity
	DegeneratePropagate
)

var policyNames = [...]string{
	DegenerateSkip:      "skip",
	DegenerateClamp:     "clamp",
	DegeneratePropagate: "propagate",
}

func (p DegeneratePolicy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("DegeneratePolicy(%d)", uint8(p))
}

// ParseDegeneratePolicy maps "skip", "clamp" or "propagate" (case-insensitive) to a policy
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range policyNames {
		if n == name {
			return DegeneratePolicy(i), nil
		}
	}
	return DegenerateSkip, fmt.Errorf("unknown degenerate policy %q", s)
}

// UnmarshalText allows the policy to be decoded from config files
func (p *DegeneratePolicy) UnmarshalText(text []byte) error {
	v, err := ParseDegeneratePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p DegeneratePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Config holds the physical constants of an integration step
// The zero-free defaults reduce every formula to G = 1, dt = 1 frame
type Config struct {
	GravitationalConstant float64          `toml:"gravitational_constant"`
	TimeStep              float64          `toml:"time_step"`
	MinDistance           float64          `toml:"min_distance"` // 0 marks only coincident points degenerate
	OnDegenerate          DegeneratePolicy `toml:"on_degenerate"`
}

// DefaultConfig returns G = 1, dt = 1, MinDistance = DefaultMinDistance, skip policy
func DefaultConfig() Config {
	return Config{
		GravitationalConstant: 1,
		TimeStep:              1,
		MinDistance:           DefaultMinDistance,
		OnDegenerate:          DegenerateSkip,
	}
}

// Validate rejects constants that cannot produce a meaningful step
func (c Config) Validate() error {
	if c.TimeStep <= 0 {
		return fmt.Errorf("time step must be positive, got %v", c.TimeStep)
	}
	if c.MinDistance < 0 {
		return fmt.Errorf("min distance must not be negative, got %v", c.MinDistance)
	}
	if int(c.OnDegenerate) >= len(policyNames) {
		return fmt.Errorf("invalid degenerate policy %d", c.OnDegenerate)
	}
	return nil
}

// resolveDistance applies the degenerate policy to a measured distance
// ok is false when the force must be skipped
// A zero result under clamp means coincident points with a zero floor; callers apply no force
func (c Config) resolveDistance(dist float64) (d float64, ok bool) {
	if c.OnDegenerate == DegeneratePropagate {
		return dist, true
	}
	floor := c.MinDistance
	if dist >= floor && dist > 0 {
		return dist, true
	}
	if c.OnDegenerate == DegenerateClamp {
		return floor, true
	}
	return dist, false
}
