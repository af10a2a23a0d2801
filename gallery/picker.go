package gallery

import (
	"fmt"
	"math/rand"
	"slices"
)

// maxBackStack bounds how far Prev can walk back
const maxBackStack = 64

// Picker chooses the next algorithm index at random while avoiding recent picks
type Picker struct {
	n       int
	history int
	rng     *rand.Rand

	recent  []int // most recent last, includes current
	back    []int // previous picks for Prev
	current int
}

// NewPicker selects among n entries, never repeating any of the last history picks while alternatives exist
func NewPicker(n, history int, rng *rand.Rand) *Picker {
	if history < 0 {
		history = 0
	}
	return &Picker{
		n:       n,
		history: history,
		rng:     rng,
		current: -1,
	}
}

// Current returns the selected index, -1 before the first pick
func (p *Picker) Current() int {
	return p.current
}

// Next picks a random index outside the recent window and makes it current
func (p *Picker) Next() int {
	if p.n <= 0 {
		return -1
	}

	window := min(p.history, p.n-1, len(p.recent))
	avoid := p.recent[len(p.recent)-window:]

	candidates := make([]int, 0, p.n)
	for i := 0; i < p.n; i++ {
		if !slices.Contains(avoid, i) {
			candidates = append(candidates, i)
		}
	}

	p.moveTo(candidates[p.rng.Intn(len(candidates))])
	return p.current
}

// Prev returns to the pick before the current one
func (p *Picker) Prev() (int, bool) {
	if len(p.back) == 0 {
		return p.current, false
	}
	last := p.back[len(p.back)-1]
	p.back = p.back[:len(p.back)-1]
	p.current = last
	p.remember(last)
	return last, true
}

// Select makes i current explicitly
func (p *Picker) Select(i int) error {
	if i < 0 || i >= p.n {
		return fmt.Errorf("picker index %d out of range [0, %d)", i, p.n)
	}
	p.moveTo(i)
	return nil
}

func (p *Picker) moveTo(i int) {
	if p.current >= 0 {
		p.back = append(p.back, p.current)
		if len(p.back) > maxBackStack {
			p.back = p.back[1:]
		}
	}
	p.current = i
	p.remember(i)
}

func (p *Picker) remember(i int) {
	p.recent = append(p.recent, i)
	if keep := max(p.history, 1); len(p.recent) > keep {
		p.recent = p.recent[len(p.recent)-keep:]
	}
}
