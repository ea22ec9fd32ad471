package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/postfx/effect"
)

// passKind selects the stage a dispatch of the kernel runs.
// Values match the switch in shaders/postfx.wgsl.
type passKind uint32

const (
	passSimple passKind = iota + 1
	passFXAA
	passMSAA
	passTAA
	passBrightness
	passShadow
	passSharpen
)

func (k passKind) String() string {
	switch k {
	case passSimple:
		return "simple"
	case passFXAA:
		return "fxaa"
	case passMSAA:
		return "msaa"
	case passTAA:
		return "taa"
	case passBrightness:
		return "brightness"
	case passShadow:
		return "shadow"
	case passSharpen:
		return "sharpen"
	default:
		return "unknown"
	}
}

// planPasses returns the stages cfg enables, in chain order. Temporal stages
// are dropped when no history is available, since they would copy the frame.
func planPasses(cfg *effect.Config, hasHistory bool) []passKind {
	if !cfg.Enabled {
		return nil
	}
	var passes []passKind
	if cfg.AntiAliasing {
		switch cfg.AntiAliasingType {
		case effect.AASimple:
			passes = append(passes, passSimple)
		case effect.AAMSAA:
			passes = append(passes, passMSAA)
		case effect.AATAA:
			if hasHistory {
				passes = append(passes, passTAA)
			}
		case effect.AACombined:
			passes = append(passes, passFXAA)
			if hasHistory {
				passes = append(passes, passTAA)
			}
		default:
			passes = append(passes, passFXAA)
		}
	}
	if cfg.Brightness && cfg.BrightnessLevel != effect.DefaultBrightnessLevel {
		passes = append(passes, passBrightness)
	}
	if cfg.Shadows {
		passes = append(passes, passShadow)
	}
	if cfg.Sharpening {
		passes = append(passes, passSharpen)
	}
	return passes
}

// paramsSize is the size of the WGSL Params uniform: 16 scalars.
const paramsSize = 64

// kernelParams mirrors the WGSL Params struct.
type kernelParams struct {
	Width           uint32
	Height          uint32
	Kind            passKind
	HasHistory      uint32
	AAStrength      float32
	Brightness      float32
	MSAASide        int32
	TAABlend        float32
	ShadowThreshold float32
	ShadowStrength  float32
	ShadowDistance  int32
	ShadowSoftness  int32
	ShadowTint      uint32
	SharpenStrength float32
}

func newKernelParams(cfg *effect.Config, w, h int, hasHistory bool) kernelParams {
	p := kernelParams{
		Width:           uint32(w), //nolint:gosec // frame dimensions fit uint32
		Height:          uint32(h), //nolint:gosec // frame dimensions fit uint32
		AAStrength:      float32(cfg.AntiAliasingStrength),
		Brightness:      float32(cfg.BrightnessLevel) / 100,
		MSAASide:        int32(cfg.MSAASide()), //nolint:gosec // side <= 4
		TAABlend:        float32(cfg.TemporalBlend()),
		ShadowThreshold: float32(cfg.ShadowThreshold()),
		ShadowStrength:  float32(cfg.ShadowStrength),
		ShadowDistance:  int32(cfg.ShadowDistance), //nolint:gosec // validated range
		ShadowSoftness:  int32(cfg.ShadowSoftness), //nolint:gosec // validated range
		SharpenStrength: float32(cfg.SharpeningStrength),
	}
	if hasHistory {
		p.HasHistory = 1
	}
	if cfg.ShadowColorTint {
		p.ShadowTint = 1
	}
	return p
}

// bytes serializes the params in WGSL uniform layout (little-endian,
// 4-byte scalars, padded to 64 bytes).
func (p *kernelParams) bytes() []byte {
	b := make([]byte, 0, paramsSize)
	le := binary.LittleEndian
	b = le.AppendUint32(b, p.Width)
	b = le.AppendUint32(b, p.Height)
	b = le.AppendUint32(b, uint32(p.Kind))
	b = le.AppendUint32(b, p.HasHistory)
	b = le.AppendUint32(b, math.Float32bits(p.AAStrength))
	b = le.AppendUint32(b, math.Float32bits(p.Brightness))
	b = le.AppendUint32(b, uint32(p.MSAASide)) //nolint:gosec // two's complement layout
	b = le.AppendUint32(b, math.Float32bits(p.TAABlend))
	b = le.AppendUint32(b, math.Float32bits(p.ShadowThreshold))
	b = le.AppendUint32(b, math.Float32bits(p.ShadowStrength))
	b = le.AppendUint32(b, uint32(p.ShadowDistance)) //nolint:gosec // two's complement layout
	b = le.AppendUint32(b, uint32(p.ShadowSoftness)) //nolint:gosec // two's complement layout
	b = le.AppendUint32(b, p.ShadowTint)
	b = le.AppendUint32(b, math.Float32bits(p.SharpenStrength))
	return b[:paramsSize]
}

// workgroups returns the dispatch size for 16x16 workgroups.
func workgroups(w, h int) (x, y uint32) {
	return uint32((w + 15) / 16), uint32((h + 15) / 16) //nolint:gosec // frame dimensions fit uint32
}

// packPixels converts samples to little-endian bytes, clearing the unused
// upper byte.
func packPixels(dst []byte, pix []uint32) []byte {
	n := len(pix) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, p := range pix {
		binary.LittleEndian.PutUint32(dst[i*4:], p&0xFFFFFF)
	}
	return dst
}

// unpackPixels copies little-endian samples back into pix.
func unpackPixels(pix []uint32, src []byte) {
	for i := range pix {
		pix[i] = binary.LittleEndian.Uint32(src[i*4:]) & 0xFFFFFF
	}
}
