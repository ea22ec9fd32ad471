package main

import (
	"flag"

	"github.com/gogpu/postfx/effect"
)

// effectFlags are the command-line overrides of an effect.Config.
type effectFlags struct {
	preset     *string
	brightness *int
	aa         *string
	aaStrength *float64
	msaa       *int
	shadows    *bool
	shadowStr  *float64
	shadowDist *int
	sharpen    *float64
	tint       *bool
	disable    *bool
}

func registerEffectFlags(fs *flag.FlagSet) *effectFlags {
	return &effectFlags{
		preset:     fs.String("preset", "", "apply a preset first: performance or quality"),
		brightness: fs.Int("brightness", 100, "brightness level in percent (50-150)"),
		aa:         fs.String("aa", "", "anti-aliasing: simple, fxaa, msaa, taa, combined, or off"),
		aaStrength: fs.Float64("aa-strength", effect.DefaultAAStrength, "anti-aliasing strength (0-1)"),
		msaa:       fs.Int("msaa", effect.DefaultMSAASamples, "MSAA samples: 2, 4, 8 or 16"),
		shadows:    fs.Bool("shadows", false, "enable edge shadows"),
		shadowStr:  fs.Float64("shadow-strength", effect.DefaultShadowStrength, "shadow strength (0.1-1)"),
		shadowDist: fs.Int("shadow-distance", effect.DefaultShadowDistance, "shadow distance in pixels (1-6)"),
		sharpen:    fs.Float64("sharpen", 0, "sharpening strength (0-1); 0 disables"),
		tint:       fs.Bool("tint", false, "cool shadow color tint"),
		disable:    fs.Bool("off", false, "disable all processing (master switch)"),
	}
}

// setFlags returns the names of flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// apply overrides cfg with the flags in set. The preset is applied first so
// explicit flags win over it.
func (fl *effectFlags) apply(cfg *effect.Config, set map[string]bool) error {
	if set["preset"] {
		p, err := effect.ParsePreset(*fl.preset)
		if err != nil {
			return err
		}
		cfg.ApplyPreset(p)
	}
	if set["brightness"] {
		cfg.Brightness = *fl.brightness != effect.DefaultBrightnessLevel
		cfg.BrightnessLevel = *fl.brightness
	}
	if set["aa"] {
		if *fl.aa == "off" {
			cfg.AntiAliasing = false
		} else {
			t, err := effect.ParseAAType(*fl.aa)
			if err != nil {
				return err
			}
			cfg.AntiAliasing = true
			cfg.AntiAliasingType = t
		}
	}
	if set["aa-strength"] {
		cfg.AntiAliasingStrength = *fl.aaStrength
	}
	if set["msaa"] {
		cfg.AntiAliasingMode = *fl.msaa
	}
	if set["shadows"] {
		cfg.Shadows = *fl.shadows
	}
	if set["shadow-strength"] {
		cfg.ShadowStrength = *fl.shadowStr
	}
	if set["shadow-distance"] {
		cfg.ShadowDistance = *fl.shadowDist
	}
	if set["sharpen"] {
		cfg.Sharpening = *fl.sharpen > 0
		cfg.SharpeningStrength = *fl.sharpen
	}
	if set["tint"] {
		cfg.ShadowColorTint = *fl.tint
	}
	if set["off"] {
		cfg.Enabled = !*fl.disable
	}
	cfg.Validate()
	return nil
}
