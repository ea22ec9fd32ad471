package main

import (
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/postfx/effect"
)

// loadSource decodes path, or renders the test scene when path is empty.
func loadSource(path string, w, h int) (*effect.Frame, error) {
	if path == "" {
		return testScene(w, h), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return effect.FromImage(img), nil
}

// saveFrame encodes f in the format named by the path extension.
func saveFrame(path string, f *effect.Frame) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	img := f.ToRGBA()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return bmp.Encode(file, img)
	case ".tif", ".tiff":
		return tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(file, img)
	}
}

// scaleFrame resizes f by factor with Catmull-Rom resampling.
func scaleFrame(f *effect.Frame, factor float64) *effect.Frame {
	if factor <= 0 || factor == 1 {
		return f
	}
	w := max(1, int(math.Round(float64(f.Width)*factor)))
	h := max(1, int(math.Round(float64(f.Height)*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), f.ToRGBA(), f.Bounds(), draw.Src, nil)
	return effect.FromImage(dst)
}

// testScene renders hard-edged shapes on a gradient: enough aliasing and
// luminance edges to exercise every effect.
func testScene(w, h int) *effect.Frame {
	f := effect.NewFrame(w, h)
	cx, cy := float64(w)*0.35, float64(h)*0.5
	r := math.Min(float64(w), float64(h)) * 0.3
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bg := uint8(40 + 60*y/max(h, 1))
			p := effect.Pack(bg/2, bg/2, bg)

			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				p = effect.Pack(230, 200, 60)
			}
			// A diagonal bar to produce stair-stepped edges.
			if x > w*6/10 && x < w*9/10 && absInt(y-(x-w*6/10)) < h/10 {
				p = effect.Pack(220, 220, 230)
			}
			f.SetPixel(x, y, p)
		}
	}
	return f
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
