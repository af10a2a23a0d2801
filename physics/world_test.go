package physics

import (
	"testing"
)

func TestWorldSpawnAndGet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OnDegenerate = DegenerateClamp
	w := NewWorld(cfg)

	h := w.Spawn(1, 2, 0, 0, 0)
	if !h.Valid() {
		t.Fatal("Expected a valid handle")
	}
	p, ok := w.Get(h)
	if !ok {
		t.Fatal("Expected handle to resolve")
	}
	if p.X != 1 || p.Y != 2 {
		t.Errorf("Expected position (1, 2), got (%v, %v)", p.X, p.Y)
	}
	if p.Config != cfg {
		t.Errorf("Expected world config on spawned particle, got %+v", p.Config)
	}
	if w.Len() != 1 {
		t.Errorf("Expected Len=1, got %d", w.Len())
	}

	var zero Handle
	if _, ok := w.Get(zero); ok {
		t.Error("Expected zero handle not to resolve")
	}
}

func TestWorldStaleHandle(t *testing.T) {
	w := NewWorld(DefaultConfig())
	h := w.Spawn(0, 0, 0, 0, 0)

	if !w.Remove(h) {
		t.Fatal("Expected first removal to succeed")
	}
	if w.Remove(h) {
		t.Error("Expected second removal to fail")
	}

	// Slot is reused, old handle must stay dead
	h2 := w.Spawn(5, 5, 0, 0, 0)
	if _, ok := w.Get(h); ok {
		t.Error("Expected stale handle not to resolve after slot reuse")
	}
	if p, ok := w.Get(h2); !ok || p.X != 5 {
		t.Error("Expected new handle to resolve to the new particle")
	}
	if w.Len() != 1 {
		t.Errorf("Expected Len=1, got %d", w.Len())
	}
}

func TestWorldRemoveStripsReferences(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := w.Spawn(0, 0, 0, 0, 0)
	b := w.Spawn(10, 0, 0, 0, 0)
	c := w.Spawn(0, 10, 0, 0, 0)

	if !w.Attract(a, b) || !w.Attract(a, c) {
		t.Fatal("Expected Attract to succeed")
	}
	if !w.Link(b, c, 0.1, 5) {
		t.Fatal("Expected Link to succeed")
	}

	pa, _ := w.Get(a)
	pc, _ := w.Get(c)
	w.Remove(b)

	if len(pa.Gravitations()) != 1 {
		t.Errorf("Expected a to keep only c, got %d gravitations", len(pa.Gravitations()))
	}
	if len(pc.Springs()) != 0 {
		t.Errorf("Expected c to lose its spring to b, got %d springs", len(pc.Springs()))
	}
	if len(pc.Gravitations()) != 1 {
		t.Errorf("Expected c to keep gravitation to a, got %d", len(pc.Gravitations()))
	}
}

func TestWorldRelationshipsRejectBadHandles(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := w.Spawn(0, 0, 0, 0, 0)

	if w.Attract(a, a) {
		t.Error("Expected self-attraction to be rejected")
	}
	if w.Link(a, Handle{}, 1, 0) {
		t.Error("Expected link to unknown handle to be rejected")
	}
	if w.Tether(Handle{}, &Anchor{}, 1, 0) {
		t.Error("Expected tether on unknown handle to be rejected")
	}
	if !w.Tether(a, &Anchor{X: 3}, 1, 0) {
		t.Error("Expected tether on live handle to succeed")
	}
}

func TestWorldStepAndEach(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Spawn(0, 0, 1, 0, 0)
	w.Spawn(0, 0, 2, 0, 0)

	w.Step()
	w.Step()

	var xs []float64
	w.Each(func(_ Handle, p *Particle) {
		xs = append(xs, p.X)
	})
	if len(xs) != 2 || xs[0] != 2 || xs[1] != 4 {
		t.Errorf("Expected positions [2 4], got %v", xs)
	}
}

func TestWorldBinaryAttraction(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := w.Spawn(-10, 0, 0, 0, 0)
	b := w.Spawn(10, 0, 0, 0, 0)
	w.Attract(a, b)

	pa, _ := w.Get(a)
	pb, _ := w.Get(b)
	start := pa.DistanceTo(pb)
	for i := 0; i < 5; i++ {
		w.Step()
	}
	if pa.DistanceTo(pb) >= start {
		t.Errorf("Expected bodies to approach, distance %v -> %v", start, pa.DistanceTo(pb))
	}
	if pa.VX <= 0 || pb.VX >= 0 {
		t.Errorf("Expected velocities toward each other, got %v and %v", pa.VX, pb.VX)
	}
}

func TestWorldReset(t *testing.T) {
	w := NewWorld(DefaultConfig())
	h := w.Spawn(0, 0, 0, 0, 0)
	w.Spawn(1, 1, 0, 0, 0)

	w.Reset()
	if w.Len() != 0 {
		t.Errorf("Expected empty world, got %d", w.Len())
	}
	if _, ok := w.Get(h); ok {
		t.Error("Expected handles to be stale after reset")
	}
	count := 0
	w.Each(func(Handle, *Particle) { count++ })
	if count != 0 {
		t.Errorf("Expected no particles visited, got %d", count)
	}
}
