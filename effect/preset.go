// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"
	"strings"
)

// Preset names a fixed bundle of effect settings.
type Preset int

const (
	// PresetPerformance keeps only cheap single-pass anti-aliasing.
	PresetPerformance Preset = iota

	// PresetQuality enables temporal anti-aliasing, shadows and sharpening.
	PresetQuality
)

// String returns the preset name.
func (p Preset) String() string {
	switch p {
	case PresetPerformance:
		return "performance"
	case PresetQuality:
		return "quality"
	default:
		return "unknown"
	}
}

// ParsePreset parses a case-insensitive preset name.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "performance":
		return PresetPerformance, nil
	case "quality":
		return PresetQuality, nil
	}
	return 0, fmt.Errorf("effect: unknown preset %q", s)
}

// ApplyPreset overwrites the preset's fields of c in one step.
// The master switch and the brightness settings are left untouched.
func (c *Config) ApplyPreset(p Preset) {
	switch p {
	case PresetPerformance:
		c.AntiAliasing = true
		c.AntiAliasingType = AAFXAA
		c.AntiAliasingStrength = 0.5
		c.AntiAliasingMode = 2
		c.Shadows = false
		c.Sharpening = false
	case PresetQuality:
		c.AntiAliasing = true
		c.AntiAliasingType = AACombined
		c.AntiAliasingStrength = 0.8
		c.AntiAliasingMode = 8
		c.Shadows = true
		c.ShadowSensitivity = 60
		c.ShadowStrength = 0.5
		c.ShadowDistance = 4
		c.ShadowSoftness = 3
		c.Sharpening = true
		c.SharpeningStrength = 0.4
	}
}
