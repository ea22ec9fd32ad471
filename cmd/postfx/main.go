// Command postfx applies the post-processing chain to an image.
//
// Usage:
//
//	postfx -in shot.png -out shot_fx.png -preset quality
//	postfx -out scene.png -aa taa -frames 8 -brightness 120
//	postfx -in shot.webp -out shot.tiff -db ~/.postfx.db -profile night -save
//
// Without -in a synthetic test scene is rendered. The output format follows
// the -out extension (.png, .bmp, .tif/.tiff).
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/effect"
	_ "github.com/gogpu/postfx/gpu" // enable GPU compute when available
	"github.com/gogpu/postfx/settings"
)

func init() {
	// The compute backend is bound to the thread that creates it.
	runtime.LockOSThread()
}

func main() {
	var (
		in      = flag.String("in", "", "input image (png, jpeg, gif, bmp, tiff, webp); empty renders a test scene")
		out     = flag.String("out", "postfx.png", "output image (.png, .bmp, .tif)")
		width   = flag.Int("width", 320, "test scene width")
		height  = flag.Int("height", 200, "test scene height")
		scale   = flag.Float64("scale", 1, "resize the input by this factor before processing")
		frames  = flag.Int("frames", 1, "process the frame this many times (lets TAA settle)")
		cpuOnly = flag.Bool("cpu", false, "disable the GPU compute backend")
		dbPath  = flag.String("db", "", "settings database for profiles")
		profile = flag.String("profile", "", "profile to load from -db")
		save    = flag.Bool("save", false, "save the resulting configuration as -profile")
		verbose = flag.Bool("v", false, "debug logging")
	)
	fl := registerEffectFlags(flag.CommandLine)
	flag.Parse()

	if *verbose {
		postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := effect.Default()
	var store *settings.Store
	if *dbPath != "" {
		var err error
		store, err = settings.Open(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open settings: %v", err)
		}
		defer store.Close()
		if *profile != "" {
			loaded, err := store.Load(context.Background(), *profile)
			switch {
			case err == nil:
				cfg = loaded
				log.Printf("Loaded profile %q", *profile)
			case *save:
				log.Printf("Profile %q not found, creating it", *profile)
			default:
				log.Fatalf("Failed to load profile: %v", err)
			}
		}
	}

	if err := fl.apply(&cfg, setFlags(flag.CommandLine)); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	if store != nil && *save {
		if *profile == "" {
			log.Fatal("-save requires -profile")
		}
		if err := store.Save(context.Background(), *profile, cfg); err != nil {
			log.Fatalf("Failed to save profile: %v", err)
		}
		log.Printf("Saved profile %q", *profile)
	}

	src, err := loadSource(*in, *width, *height)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}
	src = scaleFrame(src, *scale)

	var opts []postfx.Option
	if *cpuOnly {
		opts = append(opts, postfx.WithCPUOnly())
	}
	d := postfx.New(effect.NewShared(cfg), opts...)
	defer d.Close()

	start := time.Now()
	result, err := run(d, src, *frames)
	if err != nil {
		log.Fatalf("Failed to process: %v", err)
	}
	elapsed := time.Since(start)

	if err := saveFrame(*out, result); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	s := d.Stats()
	log.Printf("Saved %s (%dx%d) in %v: %d processed (%s), %d skipped",
		*out, result.Width, result.Height, elapsed.Round(time.Millisecond),
		s.Processed, s.Backend, s.SkippedTotal())
}

// run processes n copies of src and returns the last result. Each copy
// starts from the unprocessed source, as a renderer would redraw it.
func run(d *postfx.Dispatcher, src *effect.Frame, n int) (*effect.Frame, error) {
	n = max(n, 1)
	f := &effect.Frame{}
	for i := 0; i < n; i++ {
		f.CopyFrom(src)
		if err := d.Process(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}
