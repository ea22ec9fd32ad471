package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/postfx"
	"github.com/gogpu/postfx/effect"
)

const brightnessStep = 10

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// handleKey publishes the config change bound to ev. It reports whether the
// key was bound.
func handleKey(shared *effect.Shared, ev *tcell.EventKey) bool {
	if ev.Key() != tcell.KeyRune {
		return false
	}
	var fn func(*effect.Config)
	switch ev.Rune() {
	case 'a':
		fn = cycleAA
	case 'b':
		fn = func(c *effect.Config) { stepBrightness(c, brightnessStep) }
	case 'B':
		fn = func(c *effect.Config) { stepBrightness(c, -brightnessStep) }
	case 's':
		fn = func(c *effect.Config) { c.Shadows = !c.Shadows }
	case 't':
		fn = func(c *effect.Config) { c.ShadowColorTint = !c.ShadowColorTint }
	case 'h':
		fn = func(c *effect.Config) { c.Sharpening = !c.Sharpening }
	case 'e':
		fn = func(c *effect.Config) { c.Enabled = !c.Enabled }
	case '1':
		fn = func(c *effect.Config) { c.ApplyPreset(effect.PresetPerformance) }
	case '2':
		fn = func(c *effect.Config) { c.ApplyPreset(effect.PresetQuality) }
	default:
		return false
	}
	shared.Update(fn)
	return true
}

// cycleAA steps through off and every algorithm in menu order.
func cycleAA(c *effect.Config) {
	if !c.AntiAliasing {
		c.AntiAliasing = true
		c.AntiAliasingType = effect.AATypes[0]
		return
	}
	for i, t := range effect.AATypes {
		if t == c.AntiAliasingType {
			if i == len(effect.AATypes)-1 {
				c.AntiAliasing = false
				return
			}
			c.AntiAliasingType = effect.AATypes[i+1]
			return
		}
	}
	c.AntiAliasingType = effect.DefaultAAType
}

func stepBrightness(c *effect.Config, delta int) {
	c.BrightnessLevel += delta
	c.Brightness = c.BrightnessLevel != effect.DefaultBrightnessLevel
}

func statusLine(c effect.Config, s postfx.Stats, paused bool) string {
	var b strings.Builder
	if !c.Enabled {
		b.WriteString("OFF")
	} else {
		aa := "off"
		if c.AntiAliasing {
			aa = c.AntiAliasingType.String()
		}
		fmt.Fprintf(&b, "aa:%s bright:%d%% shadows:%s tint:%s sharpen:%s",
			aa, c.BrightnessLevel, onOff(c.Shadows), onOff(c.ShadowColorTint), onOff(c.Sharpening))
	}
	backend := s.Backend
	if backend == "" {
		backend = "-"
	}
	fmt.Fprintf(&b, " | %s %d/%d", backend, s.Processed, s.Frames)
	if paused {
		b.WriteString(" | paused")
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
