package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// CellAspect is the height:width ratio of a terminal cell
// World space is cols wide and rows*CellAspect tall so circles stay round
const CellAspect = 2.0

// heatFloor is the heat below which a fading cell is cleared
const heatFloor = 0.04

// Background is the colour of empty cells
var Background = colorful.Color{R: 12.0 / 255, G: 12.0 / 255, B: 20.0 / 255}

type cell struct {
	ch   rune
	col  colorful.Color
	heat float64
}

// Canvas is a cell buffer with per-cell heat so plotted glyphs fade into trails
type Canvas struct {
	cols, rows int
	cells      []cell
}

// NewCanvas returns an empty canvas of cols x rows cells
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the buffer, dropping its contents
func (c *Canvas) Resize(cols, rows int) {
	c.cols = max(cols, 0)
	c.rows = max(rows, 0)
	c.cells = make([]cell, c.cols*c.rows)
}

// Size returns the cell dimensions
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Bounds returns the world-space extent
func (c *Canvas) Bounds() (w, h float64) {
	return float64(c.cols), float64(c.rows) * CellAspect
}

// Plot stamps ch at world position (x, y) at full heat
// Positions outside the canvas, including NaN, are ignored
func (c *Canvas) Plot(x, y float64, ch rune, col colorful.Color) {
	w, h := c.Bounds()
	if !(x >= 0 && x < w && y >= 0 && y < h) {
		return
	}
	idx := int(y/CellAspect)*c.cols + int(x)
	c.cells[idx] = cell{ch: ch, col: col, heat: 1}
}

// Fade multiplies every cell's heat by factor, clearing cells that cool below the floor
func (c *Canvas) Fade(factor float64) {
	for i := range c.cells {
		cl := &c.cells[i]
		if cl.heat == 0 {
			continue
		}
		cl.heat *= factor
		if cl.heat < heatFloor {
			*cl = cell{}
		}
	}
}

// Clear empties every cell
func (c *Canvas) Clear() {
	clear(c.cells)
}

// At returns the glyph and heat-scaled colour of a cell; ok is false for empty or out-of-range cells
func (c *Canvas) At(col, row int) (ch rune, color colorful.Color, ok bool) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return 0, colorful.Color{}, false
	}
	cl := c.cells[row*c.cols+col]
	if cl.heat == 0 {
		return 0, colorful.Color{}, false
	}
	return cl.ch, Background.BlendRgb(cl.col, cl.heat).Clamped(), true
}

// Present writes the buffer to the screen; it does not call Show
func (c *Canvas) Present(s tcell.Screen) {
	bg := ToTcell(Background)
	empty := tcell.StyleDefault.Background(bg)
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			ch, color, ok := c.At(col, row)
			if !ok {
				s.SetContent(col, row, ' ', nil, empty)
				continue
			}
			s.SetContent(col, row, ch, nil, empty.Foreground(ToTcell(color)))
		}
	}
}

// ToTcell converts to a truecolor tcell colour
func ToTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
