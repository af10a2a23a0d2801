package physics

// Handle identifies a particle slot in a World
// A handle outlives its particle only as a stale value: once the slot is freed, the generation moves on and lookups fail
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether the handle was ever issued
func (h Handle) Valid() bool {
	return h.gen != 0
}

type slot struct {
	p    *Particle
	gen  uint32
	live bool
}

// World is an arena owning particles for a driver
// Relationships between its particles are plain pointers inside each Particle;
// the arena's job is to strip them when a particle is removed so none dangle
type World struct {
	cfg   Config
	slots []slot
	free  []uint32
	live  int
}

// NewWorld returns an empty arena whose particles use cfg
func NewWorld(cfg Config) *World {
	return &World{cfg: cfg}
}

// Config returns the configuration applied to spawned particles
func (w *World) Config() Config {
	return w.cfg
}

// Spawn creates a particle and returns its handle
func (w *World) Spawn(x, y, speed, direction, gravity float64) Handle {
	p := NewParticle(x, y, speed, direction, gravity)
	p.Config = w.cfg

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.slots = append(w.slots, slot{})
		idx = uint32(len(w.slots) - 1)
	}

	s := &w.slots[idx]
	s.gen++
	s.p = p
	s.live = true
	w.live++
	return Handle{index: idx, gen: s.gen}
}

// Get resolves h, failing for stale or foreign handles
func (w *World) Get(h Handle) (*Particle, bool) {
	if !h.Valid() || int(h.index) >= len(w.slots) {
		return nil, false
	}
	s := &w.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return s.p, true
}

// Len returns the number of live particles
func (w *World) Len() int {
	return w.live
}

// Each visits live particles in slot order
func (w *World) Each(fn func(Handle, *Particle)) {
	for i := range w.slots {
		s := &w.slots[i]
		if s.live {
			fn(Handle{index: uint32(i), gen: s.gen}, s.p)
		}
	}
}

// Attract registers mutual gravitation between a and b
func (w *World) Attract(a, b Handle) bool {
	pa, ok := w.Get(a)
	if !ok {
		return false
	}
	pb, ok := w.Get(b)
	if !ok || pa == pb {
		return false
	}
	pa.AddGravitation(pb)
	pb.AddGravitation(pa)
	return true
}

// Link registers a mutual spring between two particles
func (w *World) Link(a, b Handle, k, length float64) bool {
	pa, ok := w.Get(a)
	if !ok {
		return false
	}
	pb, ok := w.Get(b)
	if !ok || pa == pb {
		return false
	}
	pa.AddSpring(pb, k, length)
	pb.AddSpring(pa, k, length)
	return true
}

// Tether springs h to an external point
func (w *World) Tether(h Handle, point Locator, k, length float64) bool {
	p, ok := w.Get(h)
	if !ok {
		return false
	}
	p.AddSpring(point, k, length)
	return true
}

// Remove frees h and strips every spring or gravitation other particles hold on it
func (w *World) Remove(h Handle) bool {
	p, ok := w.Get(h)
	if !ok {
		return false
	}
	s := &w.slots[h.index]
	s.p = nil
	s.live = false
	w.free = append(w.free, h.index)
	w.live--

	for i := range w.slots {
		other := &w.slots[i]
		if !other.live {
			continue
		}
		other.p.RemoveSpring(p)
		other.p.RemoveGravitation(p)
	}
	return true
}

// Step advances every live particle by one Update, in slot order
// Later particles see earlier ones at their already-advanced positions
func (w *World) Step() {
	for i := range w.slots {
		if s := &w.slots[i]; s.live {
			s.p.Update()
		}
	}
}

// Reset drops every particle; all outstanding handles become stale
func (w *World) Reset() {
	for i := range w.slots {
		s := &w.slots[i]
		if s.live {
			s.p = nil
			s.live = false
			w.free = append(w.free, uint32(i))
		}
	}
	w.live = 0
}
