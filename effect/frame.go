// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrDimensionMismatch reports a pixel slice whose length is not width*height.
var ErrDimensionMismatch = errors.New("effect: pixel count does not match width*height")

// Frame is a full-frame color buffer of packed 24-bit RGB samples.
//
// Each sample is stored as 0x00RRGGBB, row by row, with the origin at the
// top-left corner. The upper byte is ignored when reading and written as zero.
type Frame struct {
	Width  int
	Height int
	Pix    []uint32
}

// NewFrame allocates a black frame of the given size.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

// FrameOf wraps caller-owned pixels without copying.
func FrameOf(pix []uint32, width, height int) (*Frame, error) {
	f := &Frame{Width: width, Height: height, Pix: pix}
	if err := f.Valid(); err != nil {
		return nil, err
	}
	return f, nil
}

// Valid reports ErrDimensionMismatch when len(Pix) != Width*Height or the
// product does not fit in an int.
func (f *Frame) Valid() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrDimensionMismatch)
	}
	if f.Width < 0 || f.Height < 0 ||
		(f.Height != 0 && f.Width > math.MaxInt/f.Height) ||
		len(f.Pix) != f.Width*f.Height {
		return fmt.Errorf("%w: %dx%d with %d samples", ErrDimensionMismatch, f.Width, f.Height, len(f.Pix))
	}
	return nil
}

// Len returns the number of samples.
func (f *Frame) Len() int { return len(f.Pix) }

// SameSize reports whether f and o have identical dimensions.
func (f *Frame) SameSize(o *Frame) bool {
	return f != nil && o != nil && f.Width == o.Width && f.Height == o.Height
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	c := &Frame{Width: f.Width, Height: f.Height, Pix: make([]uint32, len(f.Pix))}
	copy(c.Pix, f.Pix)
	return c
}

// CopyFrom makes f a deep copy of src, reallocating when the size differs.
func (f *Frame) CopyFrom(src *Frame) {
	f.Resize(src.Width, src.Height)
	copy(f.Pix, src.Pix)
}

// Resize changes the frame dimensions. Existing samples are kept only when
// the sample count is unchanged; otherwise the frame is reallocated black.
func (f *Frame) Resize(width, height int) {
	n := width * height
	if cap(f.Pix) >= n && len(f.Pix) == n {
		f.Width, f.Height = width, height
		return
	}
	if cap(f.Pix) >= n {
		f.Pix = f.Pix[:n]
		clear(f.Pix)
	} else {
		f.Pix = make([]uint32, n)
	}
	f.Width, f.Height = width, height
}

// Fill sets every sample to p.
func (f *Frame) Fill(p uint32) {
	p &= rgbMask
	for i := range f.Pix {
		f.Pix[i] = p
	}
}

// PixelAt returns the packed sample at (x, y), or 0 outside the frame.
func (f *Frame) PixelAt(x, y int) uint32 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Pix[y*f.Width+x] & rgbMask
}

// SetPixel stores a packed sample at (x, y). Out-of-frame writes are ignored.
func (f *Frame) SetPixel(x, y int, p uint32) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = p & rgbMask
}

// Interior returns the frame bounds inset by the one-pixel border that
// neighbour-sampling effects leave untouched.
func (f *Frame) Interior() image.Rectangle {
	return f.Bounds().Inset(1)
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	r, g, b := Unpack(f.PixelAt(x, y))
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

// ToRGBA converts the frame to an opaque image.RGBA.
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for i, p := range f.Pix {
		r, g, b := Unpack(p)
		j := i * 4
		img.Pix[j+0] = r
		img.Pix[j+1] = g
		img.Pix[j+2] = b
		img.Pix[j+3] = 0xff
	}
	return img
}

// FromImage creates a frame from any image. Alpha is discarded after the
// color is composited over black.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < f.Height; y++ {
			row := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride:]
			off := (b.Min.X - rgba.Rect.Min.X) * 4
			for x := 0; x < f.Width; x++ {
				j := off + x*4
				f.Pix[y*f.Width+x] = Pack(row[j], row[j+1], row[j+2])
			}
		}
		return f
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			f.Pix[y*f.Width+x] = Pack(uint8(r>>8), uint8(g>>8), uint8(bb>>8)) //nolint:gosec // 16-bit channels shifted to 8 bits
		}
	}
	return f
}
