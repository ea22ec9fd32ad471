// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"
	"math"
	"strings"
)

// AAType selects the anti-aliasing algorithm.
type AAType string

const (
	// AASimple is a 5-point box blur blended with the original.
	AASimple AAType = "SIMPLE"

	// AAFXAA blends along the lower-gradient axis of detected edges.
	AAFXAA AAType = "FXAA"

	// AAMSAA averages a distance-weighted square kernel.
	AAMSAA AAType = "MSAA"

	// AATAA blends with the previous frame.
	AATAA AAType = "TAA"

	// AACombined runs FXAA, then blends the result with the previous frame.
	AACombined AAType = "COMBINED"
)

// AATypes lists every valid anti-aliasing type in menu order.
var AATypes = []AAType{AASimple, AAFXAA, AAMSAA, AATAA, AACombined}

// Valid reports whether t names a known algorithm.
func (t AAType) Valid() bool {
	switch t {
	case AASimple, AAFXAA, AAMSAA, AATAA, AACombined:
		return true
	}
	return false
}

// UsesHistory reports whether the algorithm reads the previous frame.
func (t AAType) UsesHistory() bool {
	return t == AATAA || t == AACombined
}

// String returns the type name.
func (t AAType) String() string { return string(t) }

// ParseAAType parses a case-insensitive anti-aliasing type name.
func ParseAAType(s string) (AAType, error) {
	t := AAType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return DefaultAAType, fmt.Errorf("effect: unknown anti-aliasing type %q", s)
	}
	return t, nil
}

// Parameter ranges enforced by Config.Validate.
const (
	MinBrightnessLevel = 50
	MaxBrightnessLevel = 150

	MinShadowSensitivity = 20
	MaxShadowSensitivity = 150

	MinShadowStrength = 0.1
	MaxShadowStrength = 1.0

	MinShadowDistance = 1
	MaxShadowDistance = 6

	MinShadowSoftness = 1
	MaxShadowSoftness = 5
)

// Defaults applied by Default and ResetToDefaults.
const (
	DefaultBrightnessLevel      = 100
	DefaultAAType               = AAFXAA
	DefaultAAStrength           = 0.5
	DefaultMSAASamples          = 4
	DefaultShadowSensitivity    = 80
	DefaultShadowStrength       = 0.4
	DefaultShadowDistance       = 3
	DefaultShadowSoftness       = 2
	DefaultSharpeningStrength   = 0.3
	shadowSensitivityToLumaEdge = 500.0
)

// Config holds every effect toggle and parameter.
//
// Config is a plain value: copy it freely. Hosts that mutate settings while
// frames are being processed should publish changes through Shared.
type Config struct {
	// Enabled is the master switch. When false no effect runs.
	Enabled bool `json:"enabled"`

	Brightness      bool `json:"brightness"`
	BrightnessLevel int  `json:"brightnessLevel"` // 100 = unity

	AntiAliasing         bool    `json:"antiAliasing"`
	AntiAliasingType     AAType  `json:"antiAliasingType"`
	AntiAliasingStrength float64 `json:"antiAliasingStrength"`
	AntiAliasingMode     int     `json:"antiAliasingMode"` // MSAA sample count

	Shadows           bool    `json:"shadows"`
	ShadowSensitivity int     `json:"shadowSensitivity"` // lower = more edges qualify
	ShadowStrength    float64 `json:"shadowStrength"`
	ShadowDistance    int     `json:"shadowDistance"`
	ShadowSoftness    int     `json:"shadowSoftness"`
	ShadowColorTint   bool    `json:"shadowColorTint"`

	Sharpening         bool    `json:"sharpening"`
	SharpeningStrength float64 `json:"sharpeningStrength"`
}

// Default returns an enabled engine with every effect switched off and
// default parameters.
func Default() Config {
	var c Config
	c.ResetToDefaults()
	c.Enabled = true
	return c
}

// ResetToDefaults disables every effect and restores default parameters.
// The master switch is left as is.
func (c *Config) ResetToDefaults() {
	enabled := c.Enabled
	*c = Config{
		Enabled:              enabled,
		BrightnessLevel:      DefaultBrightnessLevel,
		AntiAliasingType:     DefaultAAType,
		AntiAliasingStrength: DefaultAAStrength,
		AntiAliasingMode:     DefaultMSAASamples,
		ShadowSensitivity:    DefaultShadowSensitivity,
		ShadowStrength:       DefaultShadowStrength,
		ShadowDistance:       DefaultShadowDistance,
		ShadowSoftness:       DefaultShadowSoftness,
		SharpeningStrength:   DefaultSharpeningStrength,
	}
}

// Validate clamps every numeric field into its range and rewrites invalid
// enum values to their default. Validate is idempotent.
func (c *Config) Validate() {
	c.BrightnessLevel = clampInt(c.BrightnessLevel, MinBrightnessLevel, MaxBrightnessLevel)
	c.AntiAliasingStrength = clampFloat(c.AntiAliasingStrength, 0, 1)
	if !validMSAASamples(c.AntiAliasingMode) {
		c.AntiAliasingMode = DefaultMSAASamples
	}
	if t, err := ParseAAType(string(c.AntiAliasingType)); err == nil {
		c.AntiAliasingType = t
	} else {
		c.AntiAliasingType = DefaultAAType
	}
	c.ShadowSensitivity = clampInt(c.ShadowSensitivity, MinShadowSensitivity, MaxShadowSensitivity)
	c.ShadowStrength = clampFloat(c.ShadowStrength, MinShadowStrength, MaxShadowStrength)
	c.ShadowDistance = clampInt(c.ShadowDistance, MinShadowDistance, MaxShadowDistance)
	c.ShadowSoftness = clampInt(c.ShadowSoftness, MinShadowSoftness, MaxShadowSoftness)
	c.SharpeningStrength = clampFloat(c.SharpeningStrength, 0, 1)
}

// Validated returns a validated copy of c.
func (c Config) Validated() Config {
	c.Validate()
	return c
}

// Active reports whether processing a frame with c could change any pixel.
func (c *Config) Active() bool {
	if !c.Enabled {
		return false
	}
	return c.AntiAliasing ||
		(c.Brightness && c.BrightnessLevel != DefaultBrightnessLevel) ||
		c.Shadows ||
		c.Sharpening
}

// NeedsHistory reports whether the configured anti-aliasing reads the
// previous frame.
func (c *Config) NeedsHistory() bool {
	return c.Enabled && c.AntiAliasing && c.AntiAliasingType.UsesHistory()
}

// MSAASide returns the side of the square MSAA kernel, round(sqrt(samples)).
func (c *Config) MSAASide() int {
	n := c.AntiAliasingMode
	if !validMSAASamples(n) {
		n = DefaultMSAASamples
	}
	return int(math.Round(math.Sqrt(float64(n))))
}

// ShadowThreshold returns the minimum luminance gradient for a pixel to cast
// a shadow.
func (c *Config) ShadowThreshold() float64 {
	return float64(c.ShadowSensitivity) / shadowSensitivityToLumaEdge
}

// TemporalBlend returns the weight given to the previous frame.
func (c *Config) TemporalBlend() float64 {
	return 0.1 * c.AntiAliasingStrength
}

func validMSAASamples(n int) bool {
	switch n {
	case 2, 4, 8, 16:
		return true
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
