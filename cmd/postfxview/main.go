// Command postfxview previews the post-processing chain live in a terminal.
//
// An animated scene is rendered at two pixels per cell (upper half block),
// processed every frame and drawn with true color. Settings change from the
// keyboard while frames keep flowing:
//
//	a  cycle anti-aliasing (off, SIMPLE, FXAA, MSAA, TAA, COMBINED)
//	b  brightness up     B  brightness down
//	s  toggle shadows    t  toggle shadow tint
//	h  toggle sharpening e  master switch
//	1  performance preset 2  quality preset
//	p  pause (the host is reported as not interactive)
//	q  quit
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/effect"
	_ "github.com/gogpu/postfx/gpu" // enable GPU compute when available
)

func init() {
	// The compute backend is bound to the thread that creates it, and
	// frames are processed on the main goroutine.
	runtime.LockOSThread()
}

func main() {
	var (
		fps     = flag.Int("fps", 30, "target frames per second")
		cpuOnly = flag.Bool("cpu", false, "disable the GPU compute backend")
		logPath = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("Failed to create log: %v", err)
		}
		defer f.Close()
		postfx.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	screen.HideCursor()

	v := newViewer(screen, *cpuOnly)
	err = v.run(time.Second / time.Duration(max(*fps, 1)))
	screen.Fini()
	v.d.Close()
	if err != nil {
		log.Fatal(err)
	}

	s := v.d.Stats()
	fmt.Printf("%d frames, %d processed (gpu %d, cpu %d), %d skipped\n",
		s.Frames, s.Processed, s.GPU, s.CPU, s.SkippedTotal())
}

type viewer struct {
	screen tcell.Screen
	shared *effect.Shared
	d      *postfx.Dispatcher
	paused atomic.Bool
	frame  effect.Frame
	start  time.Time
}

func newViewer(screen tcell.Screen, cpuOnly bool) *viewer {
	cfg := effect.Default()
	cfg.ApplyPreset(effect.PresetPerformance)

	v := &viewer{
		screen: screen,
		shared: effect.NewShared(cfg),
		start:  time.Now(),
	}
	opts := []postfx.Option{
		postfx.WithHostState(postfx.HostStateFunc(func() bool { return !v.paused.Load() })),
	}
	if cpuOnly {
		opts = append(opts, postfx.WithCPUOnly())
	}
	v.d = postfx.New(v.shared, opts...)
	return v
}

// run draws frames until the user quits. Key events arrive on a separate
// goroutine and only ever touch the shared config and the pause flag.
func (v *viewer) run(interval time.Duration) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
			case *tcell.EventKey:
				if isQuit(ev) {
					return nil
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == 'p' {
					v.paused.Store(!v.paused.Load())
					continue
				}
				handleKey(v.shared, ev)
			}
		case <-ticker.C:
			if err := v.draw(); err != nil {
				return err
			}
		}
	}
}

func (v *viewer) draw() error {
	cols, rows := v.screen.Size()
	if cols <= 0 || rows <= 1 {
		return nil
	}
	// One status row; every other cell holds two pixels.
	w, h := cols, (rows-1)*2
	v.frame.Resize(w, h)
	renderScene(&v.frame, time.Since(v.start).Seconds())

	if err := v.d.Process(&v.frame); err != nil {
		return fmt.Errorf("process: %w", err)
	}

	drawFrame(v.screen, &v.frame)
	drawStatus(v.screen, rows-1, statusLine(v.shared.Load(), v.d.Stats(), v.paused.Load()))
	v.screen.Show()
	return nil
}
