package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/gallery"
	"github.com/lixenwraith/saver/render"
	"github.com/lixenwraith/saver/stream"
)

// volumeStep is the change per +/- key press
const volumeStep = 0.1

// App owns the screen, the active algorithm and the optional audio and stream outputs
type App struct {
	screen tcell.Screen
	cfg    *config.Config
	rng    *rand.Rand

	factories []gallery.Factory
	picker    *gallery.Picker
	algo      gallery.Algorithm

	canvas *render.Canvas
	hud    *render.HUD

	player *audio.Player
	hub    *stream.Hub

	paused     bool
	tick       uint64
	lastChange time.Time
	now        func() time.Time

	// crash is called with the recovered value when the event poller panics
	crash func(any)
}

// NewApp selects the first algorithm and sizes the canvas to the screen
func NewApp(screen tcell.Screen, cfg *config.Config, rng *rand.Rand) (*App, error) {
	factories, err := gallery.Filter(cfg.Algorithms)
	if err != nil {
		return nil, err
	}
	if len(factories) == 0 {
		return nil, fmt.Errorf("no algorithms selected")
	}

	cols, rows := screen.Size()
	a := &App{
		screen:    screen,
		cfg:       cfg,
		rng:       rng,
		factories: factories,
		picker:    gallery.NewPicker(len(factories), cfg.History, rng),
		canvas:    render.NewCanvas(max(cols, 1), max(rows, 1)),
		hud:       render.NewHUD(cfg.FPS, cfg.HUDHold.Duration),
		now:       time.Now,
	}
	a.activate(a.picker.Next())
	return a, nil
}

// SetPlayer attaches a started audio player
func (a *App) SetPlayer(p *audio.Player) {
	a.player = p
	a.hud.Show(a.banner())
}

// SetHub attaches a frame feed
func (a *App) SetHub(h *stream.Hub) {
	a.hub = h
}

// Algorithm returns the running algorithm
func (a *App) Algorithm() gallery.Algorithm {
	return a.algo
}

func (a *App) activate(i int) {
	if i < 0 {
		return
	}
	f := a.factories[i]
	a.algo = f.New(a.rng, a.cfg.Options())
	a.canvas.Clear()
	w, h := a.canvas.Bounds()
	a.algo.Reset(w, h)
	a.lastChange = a.now()
	a.hud.Show(a.banner())
	log.Printf("algorithm: %s", f.Name)
}

func (a *App) next() {
	a.activate(a.picker.Next())
}

func (a *App) prev() {
	if i, ok := a.picker.Prev(); ok {
		a.activate(i)
	}
}

// banner is the HUD line: algorithm, track, state markers
func (a *App) banner() string {
	parts := []string{a.algo.Name()}
	if a.player != nil {
		if tr, ok := a.player.NowPlaying(); ok {
			parts = append(parts, "♪ "+tr.Title)
		}
		if a.player.Paused() {
			parts = append(parts, "muted")
		}
	}
	if a.paused {
		parts = append(parts, "paused")
	}
	return strings.Join(parts, " · ")
}

// frame advances the simulation one step and redraws
func (a *App) frame() {
	if !a.paused {
		if d := a.cfg.AutoChange.Duration; d > 0 && a.now().Sub(a.lastChange) >= d {
			a.next()
		}
		a.algo.Step()
		a.algo.Draw(a.canvas)
		a.tick++
		a.publish()
	}
	a.hud.Step()
	a.draw()
}

func (a *App) publish() {
	if a.hub == nil || a.tick%uint64(max(a.cfg.Stream.Every, 1)) != 0 {
		return
	}
	w, h := a.canvas.Bounds()
	if _, err := a.hub.Broadcast(stream.Snapshot(a.algo.Name(), a.tick, w, h, a.algo.Bodies())); err != nil {
		log.Printf("stream: %v", err)
	}
}

func (a *App) draw() {
	a.canvas.Present(a.screen)
	cols, _ := a.canvas.Size()
	a.hud.Draw(a.screen, cols)
	a.screen.Show()
}

// handleEvent applies one terminal event, returns false to quit
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		a.canvas.Resize(max(cols, 1), max(rows, 1))
		w, h := a.canvas.Bounds()
		a.algo.Reset(w, h)
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight:
		a.next()
	case tcell.KeyLeft:
		a.prev()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'n':
			a.next()
		case 'p':
			a.prev()
		case 'r':
			a.algo.Reroll()
			a.hud.Show(a.banner())
		case ' ':
			a.paused = !a.paused
			a.hud.Show(a.banner())
		case 'h':
			a.hud.Show(a.banner())
			a.hud.TogglePin()
		case 'm':
			if a.player != nil {
				a.player.TogglePause()
				a.hud.Show(a.banner())
			}
		case ']':
			if a.player != nil {
				a.skipTrack(a.player.Next)
			}
		case '[':
			if a.player != nil {
				a.skipTrack(a.player.Prev)
			}
		case '+', '=':
			a.nudgeVolume(volumeStep)
		case '-', '_':
			a.nudgeVolume(-volumeStep)
		}
	}
	return true
}

func (a *App) skipTrack(skip func() error) {
	if err := skip(); err != nil {
		log.Printf("audio: %v", err)
	}
	a.hud.Show(a.banner())
}

func (a *App) nudgeVolume(delta float64) {
	if a.player == nil {
		return
	}
	a.player.SetVolume(a.player.Volume() + delta)
	a.hud.Show(fmt.Sprintf("volume %d%%", int(a.player.Volume()*100+0.5)))
}

// Run drives frames at the configured FPS until quit or ctx is done
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.FPS))
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go a.poll(ctx, events)

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.frame()
		}
	}
}

// poll forwards terminal events until the screen is finalized
func (a *App) poll(ctx context.Context, events chan<- tcell.Event) {
	defer func() {
		if r := recover(); r != nil && a.crash != nil {
			a.crash(r)
		}
	}()

	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
