package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/saver/vmath"
)

const tolerance = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewParticleDefaults(t *testing.T) {
	p := NewParticle(3, 4, 2, math.Pi/2, 0.5)

	if p.X != 3 || p.Y != 4 {
		t.Errorf("Expected position (3, 4), got (%v, %v)", p.X, p.Y)
	}
	if !near(p.VX, 0, tolerance) || !near(p.VY, 2, tolerance) {
		t.Errorf("Expected velocity (0, 2), got (%v, %v)", p.VX, p.VY)
	}
	if p.Gravity != 0.5 || p.Bounce != -1 || p.Friction != 1 || p.Mass != 1 {
		t.Errorf("Unexpected coefficients: gravity=%v bounce=%v friction=%v mass=%v",
			p.Gravity, p.Bounce, p.Friction, p.Mass)
	}
	if len(p.Springs()) != 0 || len(p.Gravitations()) != 0 {
		t.Error("Expected no relationships on a new particle")
	}
	if p.Config != DefaultConfig() {
		t.Errorf("Expected default config, got %+v", p.Config)
	}
}

func TestParticleConcreteScenario(t *testing.T) {
	p := NewParticle(0, 0, 10, 0, 1)
	if p.VX != 10 || p.VY != 0 {
		t.Fatalf("Expected initial velocity (10, 0), got (%v, %v)", p.VX, p.VY)
	}

	p.Update()
	if p.VX != 10 || p.VY != 1 || p.X != 10 || p.Y != 1 {
		t.Errorf("After 1 update expected v=(10,1) pos=(10,1), got v=(%v,%v) pos=(%v,%v)",
			p.VX, p.VY, p.X, p.Y)
	}

	p.Update()
	if p.VX != 10 || p.VY != 2 || p.X != 20 || p.Y != 3 {
		t.Errorf("After 2 updates expected v=(10,2) pos=(20,3), got v=(%v,%v) pos=(%v,%v)",
			p.VX, p.VY, p.X, p.Y)
	}
}

func TestParticleUpdateOrder(t *testing.T) {
	tests := []struct {
		name     string
		friction float64
		gravity  float64
		vx, vy   float64
	}{
		{"damped with gravity", 0.5, 0.25, 4, 2},
		{"amplifying friction", 1.5, -1, -2, 8},
		{"no damping", 1, 0, 3, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticle(1, 2, 0, 0, tt.gravity)
			p.Friction = tt.friction
			p.VX, p.VY = tt.vx, tt.vy

			p.Update()

			wantVX := tt.vx * tt.friction
			wantVY := tt.vy*tt.friction + tt.gravity
			if p.VX != wantVX || p.VY != wantVY {
				t.Errorf("Expected v=(%v, %v), got (%v, %v)", wantVX, wantVY, p.VX, p.VY)
			}
			if p.X != 1+wantVX || p.Y != 2+wantVY {
				t.Errorf("Expected pos=(%v, %v), got (%v, %v)", 1+wantVX, 2+wantVY, p.X, p.Y)
			}
		})
	}
}

func TestParticleConstantVelocityWithoutForces(t *testing.T) {
	p := NewParticle(5, -5, 3, 0.7, 0)
	vx, vy := p.VX, p.VY

	const steps = 250
	for i := 0; i < steps; i++ {
		p.Update()
	}

	if !near(p.X, 5+steps*vx, 1e-9) || !near(p.Y, -5+steps*vy, 1e-9) {
		t.Errorf("Expected pos=(%v, %v), got (%v, %v)", 5+steps*vx, -5+steps*vy, p.X, p.Y)
	}
	if p.VX != vx || p.VY != vy {
		t.Errorf("Velocity drifted: (%v, %v) -> (%v, %v)", vx, vy, p.VX, p.VY)
	}
}

func TestParticleHeadingSpeedRoundTrip(t *testing.T) {
	velocities := [][2]float64{{3, 4}, {-1, 0.5}, {0, -7}, {-2, -2}}
	for _, v := range velocities {
		p := NewParticle(0, 0, 0, 0, 0)
		p.VX, p.VY = v[0], v[1]

		p.SetHeading(p.Heading())
		if !near(p.VX, v[0], tolerance) || !near(p.VY, v[1], tolerance) {
			t.Errorf("SetHeading(Heading()) changed %v to (%v, %v)", v, p.VX, p.VY)
		}

		p.SetSpeed(p.Speed())
		if !near(p.VX, v[0], tolerance) || !near(p.VY, v[1], tolerance) {
			t.Errorf("SetSpeed(Speed()) changed %v to (%v, %v)", v, p.VX, p.VY)
		}
	}
}

func TestParticleSetHeadingAndSpeed(t *testing.T) {
	p := NewParticle(0, 0, 5, 0, 0)

	p.SetHeading(math.Pi)
	if !near(p.VX, -5, tolerance) || !near(p.VY, 0, tolerance) {
		t.Errorf("Expected velocity (-5, 0), got (%v, %v)", p.VX, p.VY)
	}

	p.SetSpeed(2)
	if !near(p.Speed(), 2, tolerance) || !near(p.Heading(), math.Pi, tolerance) {
		t.Errorf("Expected speed 2 heading π, got speed %v heading %v", p.Speed(), p.Heading())
	}
}

func TestParticleAngleAndDistance(t *testing.T) {
	p := NewParticle(1, 1, 0, 0, 0)
	target := &Anchor{X: 4, Y: 5}

	if d := p.DistanceTo(target); d != 5 {
		t.Errorf("Expected distance 5, got %v", d)
	}
	if a := p.AngleTo(target); !near(a, math.Atan2(4, 3), tolerance) {
		t.Errorf("Expected angle %v, got %v", math.Atan2(4, 3), a)
	}
}

func TestParticleAccelerate(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	p.Accelerate(1.5, -2)
	p.Accelerate(0.5, 1)
	if p.VX != 2 || p.VY != -1 {
		t.Errorf("Expected velocity (2, -1), got (%v, %v)", p.VX, p.VY)
	}
}

func TestAddGravitationIdempotent(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	sun := NewParticle(10, 0, 0, 0, 0)
	moon := NewParticle(0, 10, 0, 0, 0)

	p.AddGravitation(sun)
	p.AddGravitation(moon)
	p.AddGravitation(sun)

	got := p.Gravitations()
	if len(got) != 2 {
		t.Fatalf("Expected 2 gravitations, got %d", len(got))
	}
	if got[0] != Attractor(moon) || got[1] != Attractor(sun) {
		t.Error("Expected re-added body to move to the end")
	}
}

func TestGravitationMatchesByIdentity(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	a := &Anchor{X: 1, Y: 1, Mass: 1}
	twin := &Anchor{X: 1, Y: 1, Mass: 1}

	p.AddGravitation(a)
	p.AddGravitation(twin)
	if len(p.Gravitations()) != 2 {
		t.Errorf("Expected equal-valued bodies to be distinct, got %d entries", len(p.Gravitations()))
	}
	if p.RemoveGravitation(&Anchor{X: 1, Y: 1, Mass: 1}) {
		t.Error("Expected removal of an unregistered body to report false")
	}
	if !p.RemoveGravitation(a) || len(p.Gravitations()) != 1 {
		t.Error("Expected removal of a registered body to succeed")
	}
}

// polyline is a slice-backed point; its dynamic type is not comparable with ==
type polyline []float64

func (l polyline) Location() (x, y float64) { return l[0], l[1] }

func TestSpringToNonComparablePoint(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	first := polyline{1, 1}

	p.AddSpring(first, 0.1, 0)
	p.AddSpring(polyline{2, 2}, 0.1, 0)
	if n := len(p.Springs()); n != 2 {
		t.Fatalf("Expected 2 springs, got %d", n)
	}

	p.AddSpring(first, 0.3, 0)
	springs := p.Springs()
	if len(springs) != 2 || springs[1].K != 0.3 {
		t.Errorf("Expected re-adding the same slice to replace its spring, got %+v", springs)
	}
	if !p.RemoveSpring(first) || len(p.Springs()) != 1 {
		t.Error("Expected removal of the slice-backed point to succeed")
	}
	if p.RemoveSpring(polyline{1, 1}) {
		t.Error("Expected a distinct slice with equal values not to match")
	}
	p.Update()
	if !Finite(p) {
		t.Errorf("Expected finite state, got (%v, %v)", p.X, p.Y)
	}
}

func TestSpringVectorsKeyedByAddress(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	a := vmath.NewVector(3, 4)
	b := vmath.NewVector(3, 4)

	p.AddSpring(&a, 0.1, 0)
	p.AddSpring(&b, 0.1, 0)
	if n := len(p.Springs()); n != 2 {
		t.Errorf("Expected equal-valued vectors to be distinct springs, got %d", n)
	}
	if !p.RemoveSpring(&a) || len(p.Springs()) != 1 {
		t.Error("Expected removal by address to succeed")
	}
}

func TestNegativeFrictionFractionalStep(t *testing.T) {
	p := NewParticle(0, 0, 2, 0, 0)
	p.Friction = -0.5
	p.Config.TimeStep = 0.5

	p.Update()
	// VX = 2 * -(0.5^0.5)
	want := -2 * math.Sqrt(0.5)
	if !near(p.VX, want, tolerance) {
		t.Errorf("Expected VX %v, got %v", want, p.VX)
	}
	if !near(p.X, want*0.5, tolerance) {
		t.Errorf("Expected X %v, got %v", want*0.5, p.X)
	}

	q := NewParticle(0, 0, 2, 0, 0)
	q.Friction = -0.5
	q.Update()
	if q.VX != -1 {
		t.Errorf("Expected unit step to use friction directly, got VX %v", q.VX)
	}
}

func TestAddSpringIdempotent(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	point := &Anchor{X: 5, Y: 5}
	other := &Anchor{X: -5, Y: 5}

	p.AddSpring(point, 0.1, 2)
	p.AddSpring(other, 0.2, 0)
	p.AddSpring(point, 0.3, 4)

	springs := p.Springs()
	if len(springs) != 2 {
		t.Fatalf("Expected 2 springs, got %d", len(springs))
	}
	last := springs[1]
	if last.Point != Locator(point) || last.K != 0.3 || last.Length != 4 {
		t.Errorf("Expected last write to win, got %+v", last)
	}
}

func TestRemoveUnregisteredIsNoOp(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	kept := &Anchor{X: 1}
	p.AddSpring(kept, 1, 0)
	p.AddGravitation(kept)

	if p.RemoveSpring(&Anchor{X: 2}) {
		t.Error("Expected RemoveSpring on unknown point to report false")
	}
	if p.RemoveGravitation(&Anchor{X: 2}) {
		t.Error("Expected RemoveGravitation on unknown body to report false")
	}
	if len(p.Springs()) != 1 || len(p.Gravitations()) != 1 {
		t.Error("Expected existing relationships to survive a no-op removal")
	}
}

func TestSpringsCopyIsDetached(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	p.AddSpring(&Anchor{}, 1, 0)
	s := p.Springs()
	s[0].K = 99
	if p.Springs()[0].K != 1 {
		t.Error("Expected Springs to return a copy")
	}
}

func TestGravitateTo(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	body := &Anchor{X: 3, Y: 4, Mass: 50}

	if err := p.GravitateTo(body); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// force = 50 / 25 = 2, direction (0.6, 0.8)
	if !near(p.VX, 1.2, tolerance) || !near(p.VY, 1.6, tolerance) {
		t.Errorf("Expected velocity (1.2, 1.6), got (%v, %v)", p.VX, p.VY)
	}
}

func TestGravitateToScalesWithConstant(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	p.Config.GravitationalConstant = 3
	p.Config.TimeStep = 0.5

	if err := p.GravitateTo(&Anchor{X: 2, Mass: 4}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// 3 * 4 / 4 * 0.5 = 1.5
	if !near(p.VX, 1.5, tolerance) || p.VY != 0 {
		t.Errorf("Expected velocity (1.5, 0), got (%v, %v)", p.VX, p.VY)
	}
}

func TestSpringTo(t *testing.T) {
	tests := []struct {
		name   string
		length float64
		wantVX float64
	}{
		{"stretched pulls in", 2, 0.8},
		{"compressed pushes out", 14, -0.4},
		{"at rest length", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParticle(0, 0, 0, 0, 0)
			if err := p.SpringTo(&Anchor{X: 10}, 0.1, tt.length); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			// (10 - length) * 0.1 along +x
			if !near(p.VX, tt.wantVX, tolerance) || p.VY != 0 {
				t.Errorf("Expected velocity (%v, 0), got (%v, %v)", tt.wantVX, p.VX, p.VY)
			}
		})
	}
}

func TestSpringEquilibrium(t *testing.T) {
	anchor := &Anchor{X: 0, Y: 0}
	p := NewParticle(100, 0, 0, 0, 0)
	p.Friction = 0.5
	p.AddSpring(anchor, 0.01, 0)

	prev := p.DistanceTo(anchor)
	for i := 0; i < 1000; i++ {
		p.Update()
		d := p.DistanceTo(anchor)
		if d >= prev {
			t.Fatalf("Step %d: distance did not decrease (%v -> %v)", i, prev, d)
		}
		prev = d
	}
	if prev > 0.01 {
		t.Errorf("Expected convergence to anchor, final distance %v", prev)
	}
}

func TestOrbitStaysBound(t *testing.T) {
	sun := &Anchor{X: 0, Y: 0, Mass: 1000}
	r := 50.0
	p := NewParticle(r, 0, math.Sqrt(sun.Mass/r), math.Pi/2, 0)
	p.AddGravitation(sun)

	for i := 0; i < 2000; i++ {
		p.Update()
		d := p.DistanceTo(sun)
		if d < r*0.5 || d > r*2 {
			t.Fatalf("Step %d: orbit radius %v left [%v, %v]", i, d, r*0.5, r*2)
		}
	}
}

func TestDegenerateDistanceSkip(t *testing.T) {
	p := NewParticle(2, 2, 1, 0, 0)
	here := &Anchor{X: 2, Y: 2, Mass: 10}

	if err := p.GravitateTo(here); !errors.Is(err, ErrDegenerateForce) {
		t.Errorf("Expected ErrDegenerateForce from GravitateTo, got %v", err)
	}
	if err := p.SpringTo(here, 0.5, 0); !errors.Is(err, ErrDegenerateForce) {
		t.Errorf("Expected ErrDegenerateForce from SpringTo, got %v", err)
	}
	if p.VX != 1 || p.VY != 0 {
		t.Errorf("Expected velocity untouched (1, 0), got (%v, %v)", p.VX, p.VY)
	}
}

func TestDegenerateDistanceClamp(t *testing.T) {
	p := NewParticle(2, 2, 0, 0, 0)
	p.Config.OnDegenerate = DegenerateClamp
	p.Config.MinDistance = 1

	if err := p.GravitateTo(&Anchor{X: 2, Y: 2, Mass: 10}); err != nil {
		t.Errorf("Expected nil error under clamp, got %v", err)
	}
	if err := p.SpringTo(&Anchor{X: 2, Y: 2}, 0.5, 3); err != nil {
		t.Errorf("Expected nil error under clamp, got %v", err)
	}
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("Expected zero force for coincident points, got (%v, %v)", p.VX, p.VY)
	}

	// Near but not coincident: force bounded by the clamped distance
	if err := p.GravitateTo(&Anchor{X: 2.001, Y: 2, Mass: 10}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// 10 / 1² * (0.001 / 1)
	if !near(p.VX, 0.01, 1e-9) {
		t.Errorf("Expected clamped VX 0.01, got %v", p.VX)
	}
}

func TestZeroMinDistanceCoincident(t *testing.T) {
	for _, policy := range []DegeneratePolicy{DegenerateSkip, DegenerateClamp} {
		p := NewParticle(2, 2, 0, 0, 0)
		p.Config.MinDistance = 0
		p.Config.OnDegenerate = policy

		err := p.GravitateTo(&Anchor{X: 2, Y: 2, Mass: 10})
		if policy == DegenerateSkip && !errors.Is(err, ErrDegenerateForce) {
			t.Errorf("Expected ErrDegenerateForce under skip, got %v", err)
		}
		if policy == DegenerateClamp && err != nil {
			t.Errorf("Expected nil error under clamp, got %v", err)
		}
		if err := p.SpringTo(&Anchor{X: 2, Y: 2}, 0.5, 3); policy == DegenerateClamp && err != nil {
			t.Errorf("Expected nil spring error under clamp, got %v", err)
		}
		if p.VX != 0 || p.VY != 0 {
			t.Errorf("Policy %v: expected zero velocity, got (%v, %v)", policy, p.VX, p.VY)
		}
	}
}

func TestDegenerateDistancePropagate(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	p.Config.OnDegenerate = DegeneratePropagate

	if err := p.GravitateTo(&Anchor{Mass: 1}); err != nil {
		t.Errorf("Expected nil error under propagate, got %v", err)
	}
	if !math.IsNaN(p.VX) || !math.IsNaN(p.VY) {
		t.Errorf("Expected legacy NaN velocity, got (%v, %v)", p.VX, p.VY)
	}
}

func TestUpdateWithCoincidentRelationshipsStaysFinite(t *testing.T) {
	p := NewParticle(7, 7, 1, 1, 0.1)
	other := NewParticle(7, 7, 0, 0, 0)
	p.AddSpring(other, 0.2, 0)
	p.AddGravitation(other)

	for i := 0; i < 10; i++ {
		p.Update()
	}
	if !Finite(p) {
		t.Errorf("Expected finite state, got pos=(%v,%v) v=(%v,%v)", p.X, p.Y, p.VX, p.VY)
	}
}

func TestHandleOrderInsertion(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	a := &Anchor{X: 1, Mass: 1}
	b := &Anchor{X: -2, Mass: 4}
	p.AddGravitation(a)
	p.AddGravitation(b)

	p.HandleGravitations()
	// +1 from a, -1 from b
	if !near(p.VX, 0, tolerance) {
		t.Errorf("Expected forces to cancel, got VX=%v", p.VX)
	}
}

func TestResetKeepsRelationships(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 0)
	p.AddSpring(&Anchor{}, 1, 0)
	p.Friction = 0.9
	p.Reset(5, 6, 2, 0)

	if p.X != 5 || p.Y != 6 || p.VX != 2 {
		t.Errorf("Unexpected state after reset: pos=(%v,%v) vx=%v", p.X, p.Y, p.VX)
	}
	if p.Friction != 0.9 || len(p.Springs()) != 1 {
		t.Error("Expected coefficients and springs to survive reset")
	}
}
