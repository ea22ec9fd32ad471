// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package effect defines the data passed through the post-processing chain:
// the packed-RGB Frame and the Config that selects and parameterizes each
// effect.
//
// Config values are validated by clamping, never by rejection:
//
//	cfg := effect.Default()
//	cfg.Brightness = true
//	cfg.BrightnessLevel = 400 // clamped to 150 by Validate
//	cfg.Validate()
package effect
