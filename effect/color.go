// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

const rgbMask = 0x00FFFFFF

// Luminance weights (ITU-R BT.601).
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Pack builds a 0x00RRGGBB sample.
func Pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a packed sample into its channels.
func Unpack(p uint32) (r, g, b uint8) {
	return uint8(p >> 16), uint8(p >> 8), uint8(p) //nolint:gosec // byte extraction
}

// RGB returns p with the upper byte cleared.
func RGB(p uint32) uint32 { return p & rgbMask }

// Luma returns the normalized [0,1] luminance of a packed sample.
func Luma(p uint32) float64 {
	r, g, b := Unpack(p)
	return (LumaR*float64(r) + LumaG*float64(g) + LumaB*float64(b)) / 255
}

// IsEmpty reports whether a sample carries no color. Both an all-zero word
// and an alpha-only sentinel (0xAA000000) count as empty.
func IsEmpty(p uint32) bool {
	return p&rgbMask == 0
}

// PackFloat converts normalized channels to a packed sample, rounding half up
// and clamping to [0,255].
func PackFloat(r, g, b float64) uint32 {
	return uint32(ToByte(r))<<16 | uint32(ToByte(g))<<8 | uint32(ToByte(b))
}

// ToByte converts a normalized channel value to a byte, rounding half up.
// NaN maps to zero.
func ToByte(v float64) uint8 {
	v = v*255 + 0.5
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// UnpackFloat returns normalized channels of a packed sample.
func UnpackFloat(p uint32) (r, g, b float64) {
	rb, gb, bb := Unpack(p)
	return float64(rb) / 255, float64(gb) / 255, float64(bb) / 255
}
