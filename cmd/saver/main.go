package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/lixenwraith/saver/audio"
	"github.com/lixenwraith/saver/config"
	"github.com/lixenwraith/saver/gallery"
	"github.com/lixenwraith/saver/stream"
)

var (
	configFlag      = flag.String("config", "", "Path to TOML config file")
	envFlag         = flag.String("env", "", "Path to .env file (default: ./.env when present)")
	debugFlag       = flag.Bool("debug", false, "Write logs to logs/saver.log")
	algoFlag        = flag.String("algo", "", "Comma-separated algorithms to cycle (default: all)")
	serveFlag       = flag.String("serve", "", "Serve frames over websocket on this address, e.g. :7070")
	audioFlag       = flag.String("audio", "", "Play .wav files from this directory")
	listFlag        = flag.Bool("list", false, "List algorithms and exit")
	printConfigFlag = flag.Bool("print-config", false, "Print the effective config as TOML and exit")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *listFlag {
		for _, f := range gallery.Catalog() {
			fmt.Println(f.Name)
		}
		return 0
	}

	cfg, err := config.Load(*configFlag, *envFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if *printConfigFlag {
		if err := cfg.Write(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			return 1
		}
		return 0
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "saver needs a terminal on stdout")
		return 1
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	stdinFd := int(os.Stdin.Fd())
	saved, _ := term.GetState(stdinFd)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}

	// Restore the terminal before reporting a crash so the trace is readable
	crash := func(r any) {
		screen.Fini()
		emergencyReset(os.Stdout, stdinFd, saved)
		fmt.Fprintf(os.Stderr, "\n\x1b[31mSAVER CRASHED: %v\x1b[0m\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
		os.Exit(1)
	}
	defer func() {
		if r := recover(); r != nil {
			crash(r)
		}
	}()
	defer screen.Fini()

	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	app, err := NewApp(screen, cfg, rng)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}
	app.crash = crash

	if cfg.Audio.Enabled {
		if player := startAudio(ctx, cfg.Audio); player != nil {
			defer player.Close()
			app.SetPlayer(player)
		}
	}

	if cfg.Stream.Addr != "" {
		hub := stream.NewHub()
		go func() {
			if err := stream.Serve(ctx, cfg.Stream.Addr, hub); err != nil {
				log.Printf("Stream stopped: %v", err)
			}
		}()
		app.SetHub(hub)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("Run: %v", err)
		return 1
	}
	return 0
}

// applyFlags layers command-line overrides on top of file and environment settings
func applyFlags(cfg *config.Config) {
	if *debugFlag {
		cfg.Debug = true
	}
	if *algoFlag != "" {
		cfg.Algorithms = config.SplitList(*algoFlag)
	}
	if *serveFlag != "" {
		cfg.Stream.Addr = *serveFlag
	}
	if *audioFlag != "" {
		cfg.Audio.Dir = *audioFlag
		cfg.Audio.Enabled = true
	}
}

// startAudio scans, initializes and starts the player; failures leave the saver silent
func startAudio(ctx context.Context, cfg audio.Config) *audio.Player {
	tracks, err := audio.Scan(cfg.Dir)
	if err != nil {
		log.Printf("Audio scan failed: %v (continuing without audio)", err)
		return nil
	}

	player := audio.NewPlayer(cfg, tracks)
	if err := player.Init(); err != nil {
		log.Printf("Audio initialization failed: %v (continuing without audio)", err)
		return nil
	}
	if err := player.Start(ctx); err != nil {
		player.Close()
		log.Printf("Audio start failed: %v (continuing without audio)", err)
		return nil
	}
	return player
}
