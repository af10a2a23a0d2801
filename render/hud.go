package render

import (
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// hudVisibleFloor is the opacity below which the banner is not drawn
const hudVisibleFloor = 0.05

var hudForeground = colorful.Color{R: 0.85, G: 0.85, B: 0.85}

// HUD is a one-line banner on the top row that fades in on Show and out after a hold time
// Opacity follows a harmonica spring toward 0 or 1
type HUD struct {
	text string

	spring  harmonica.Spring
	opacity float64
	vel     float64
	target  float64

	holdFrames int
	hold       int
	pinned     bool
}

// NewHUD builds a banner animated at fps that stays up for hold after each Show
func NewHUD(fps int, hold time.Duration) *HUD {
	if fps <= 0 {
		fps = 60
	}
	return &HUD{
		spring:     harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
		holdFrames: int(hold.Seconds() * float64(fps)),
	}
}

// Show replaces the text and brings the banner up
func (h *HUD) Show(text string) {
	h.text = text
	h.target = 1
	h.hold = h.holdFrames
}

// Text returns the current banner text
func (h *HUD) Text() string {
	return h.text
}

// TogglePin keeps the banner up until toggled again, returns the new pinned state
func (h *HUD) TogglePin() bool {
	h.pinned = !h.pinned
	if h.pinned {
		h.target = 1
	} else {
		h.hold = h.holdFrames
	}
	return h.pinned
}

// Opacity returns the current banner opacity in [0, 1]
func (h *HUD) Opacity() float64 {
	return min(max(h.opacity, 0), 1)
}

// Step advances the hold timer and the fade spring by one frame
func (h *HUD) Step() {
	if !h.pinned && h.hold > 0 {
		h.hold--
		if h.hold == 0 {
			h.target = 0
		}
	}
	h.opacity, h.vel = h.spring.Update(h.opacity, h.vel, h.target)
}

// Draw centres the banner on row 0, truncated to width
func (h *HUD) Draw(s tcell.Screen, width int) {
	a := h.Opacity()
	if a < hudVisibleFloor || h.text == "" || width <= 0 {
		return
	}

	text := runewidth.Truncate(" "+h.text+" ", width, "…")
	x := (width - runewidth.StringWidth(text)) / 2
	fg := Background.BlendRgb(hudForeground, a)
	style := tcell.StyleDefault.Background(ToTcell(Background)).Foreground(ToTcell(fg))

	for _, r := range text {
		s.SetContent(x, 0, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
