// Package stream publishes simulation frames to websocket clients
package stream

import (
	"github.com/lixenwraith/saver/physics"
)

// Point is one body position in world units
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is the message sent to clients once per broadcast
type Frame struct {
	Type      string  `json:"type"`
	Algorithm string  `json:"algorithm"`
	Tick      uint64  `json:"tick"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Points    []Point `json:"points"`
}

// Welcome is the first message a client receives
type Welcome struct {
	Type   string `json:"type"`
	Client string `json:"client"`
}

const (
	typeFrame   = "frame"
	typeWelcome = "welcome"
)

// Snapshot captures body positions; non-finite bodies are left out since JSON cannot carry them
func Snapshot(algorithm string, tick uint64, w, h float64, bodies []*physics.Particle) Frame {
	f := Frame{
		Type:      typeFrame,
		Algorithm: algorithm,
		Tick:      tick,
		Width:     w,
		Height:    h,
		Points:    make([]Point, 0, len(bodies)),
	}
	for _, b := range bodies {
		if !physics.Finite(b) {
			continue
		}
		f.Points = append(f.Points, Point{X: b.X, Y: b.Y})
	}
	return f
}
