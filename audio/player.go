package audio

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is passed to beep.Resample when a file's rate differs from the device
const resampleQuality = 4

// output is the sink the player feeds; the speaker in production
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
	Close()
}

type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Clear()               { speaker.Clear() }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }
func (speakerOutput) Close()               { speaker.Close() }

// Player plays a playlist of WAV files back to back, looping at the end
type Player struct {
	mu       sync.Mutex
	cfg      Config
	out      output
	rate     beep.SampleRate
	playlist *Playlist

	file   beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume
	paused bool

	// gen identifies the current track so stale end-of-track signals are dropped
	gen   uint64
	ended chan uint64

	initialized bool
	started     bool
}

// NewPlayer returns a player over tracks driving the system speaker
func NewPlayer(cfg Config, tracks []Track) *Player {
	return newPlayer(cfg, tracks, speakerOutput{})
}

func newPlayer(cfg Config, tracks []Track, out output) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	cfg.Volume = clampVolume(cfg.Volume)
	return &Player{
		cfg:      cfg,
		out:      out,
		rate:     beep.SampleRate(cfg.SampleRate),
		playlist: NewPlaylist(tracks),
		ended:    make(chan uint64, 4),
	}
}

// Init opens the output device and applies shuffle
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := p.out.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	if p.cfg.Shuffle {
		p.playlist.Shuffle(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	p.initialized = true
	return nil
}

// Start plays the current track and advances on end-of-track until ctx is done
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return fmt.Errorf("audio start: player not initialized")
	}
	if p.playlist.Len() == 0 {
		p.mu.Unlock()
		return ErrEmptyPlaylist
	}
	if p.started {
		p.mu.Unlock()
		return nil
	}
	err := p.playFromLocked(p.playlist.Current)
	if err == nil {
		p.started = true
	}
	p.mu.Unlock()
	if err != nil {
		return err
	}

	go p.run(ctx)
	return nil
}

func (p *Player) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("audio: player panic: %v", r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case gen := <-p.ended:
			p.mu.Lock()
			if gen == p.gen && p.started {
				if err := p.playFromLocked(p.playlist.Next); err != nil {
					log.Printf("audio: %v", err)
				}
			}
			p.mu.Unlock()
		}
	}
}

// playFromLocked moves the cursor with step and plays, skipping unreadable files
// Gives up after one full pass over the playlist
func (p *Player) playFromLocked(step func() (Track, bool)) error {
	var lastErr error
	for i := 0; i < p.playlist.Len(); i++ {
		var track Track
		var ok bool
		if i == 0 {
			track, ok = step()
		} else {
			track, ok = p.playlist.Next()
		}
		if !ok {
			return ErrEmptyPlaylist
		}
		if err := p.playLocked(track); err != nil {
			log.Printf("audio: skipping %s: %v", track.Path, err)
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no playable tracks: %w", lastErr)
}

func (p *Player) playLocked(track Track) error {
	f, err := os.Open(track.Path)
	if err != nil {
		return err
	}
	decoded, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return err
	}

	var s beep.Streamer = decoded
	if format.SampleRate != p.rate {
		s = beep.Resample(resampleQuality, format.SampleRate, p.rate, s)
	}

	p.gen++
	gen := p.gen
	ended := p.ended
	done := beep.Callback(func() {
		// Runs on the output goroutine; never block it
		select {
		case ended <- gen:
		default:
		}
	})

	ctrl := &beep.Ctrl{Streamer: beep.Seq(s, done), Paused: p.paused}
	volume := &effects.Volume{Streamer: ctrl, Base: 2}
	applyVolume(volume, p.cfg.Volume)

	p.out.Clear()
	p.closeFileLocked()
	p.file, p.ctrl, p.volume = decoded, ctrl, volume
	p.out.Play(volume)
	log.Printf("audio: playing %s", track.Title)
	return nil
}

func (p *Player) closeFileLocked() {
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
}

// applyVolume maps linear 0..1 onto the log2 volume effect; 0 is silent
func applyVolume(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(vol)
	v.Silent = false
}

// Next skips to the following track
func (p *Player) Next() error {
	return p.skip(p.playlistNext)
}

// Prev goes back one track
func (p *Player) Prev() error {
	return p.skip(p.playlistPrev)
}

func (p *Player) playlistNext() (Track, bool) { return p.playlist.Next() }
func (p *Player) playlistPrev() (Track, bool) { return p.playlist.Prev() }

func (p *Player) skip(step func() (Track, bool)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playlist.Len() == 0 {
		return ErrEmptyPlaylist
	}
	if !p.started {
		step()
		return nil
	}
	return p.playFromLocked(step)
}

// TogglePause pauses or resumes playback, returns the new paused state
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = !p.paused
	if p.ctrl != nil {
		p.out.Lock()
		p.ctrl.Paused = p.paused
		p.out.Unlock()
	}
	return p.paused
}

// Paused reports whether playback is paused
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// SetVolume sets linear volume, clamped to [0, 1]
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cfg.Volume = clampVolume(vol)
	if p.volume != nil {
		p.out.Lock()
		applyVolume(p.volume, p.cfg.Volume)
		p.out.Unlock()
	}
}

// Volume returns the linear volume
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Volume
}

// NowPlaying returns the track under the playlist cursor
func (p *Player) NowPlaying() (Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playlist.Current()
}

// Close stops playback and releases the device
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.out.Clear()
	p.closeFileLocked()
	p.ctrl, p.volume = nil, nil
	p.out.Close()
	p.started = false
	p.initialized = false
}
