// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package settings

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gogpu/postfx/effect"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open(%q) = %v", MemoryPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	cfg := effect.Default()
	cfg.ApplyPreset(effect.PresetQuality)
	cfg.ShadowColorTint = true
	if err := s.Save(ctx, "quality", cfg); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := s.Load(ctx, "quality")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestSaveValidates(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	cfg := effect.Default()
	cfg.BrightnessLevel = 900
	cfg.AntiAliasingType = "BOGUS"
	if err := s.Save(ctx, "bad", cfg); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := s.Load(ctx, "bad")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got.BrightnessLevel != effect.MaxBrightnessLevel {
		t.Errorf("BrightnessLevel = %d, want %d", got.BrightnessLevel, effect.MaxBrightnessLevel)
	}
	if got.AntiAliasingType != effect.DefaultAAType {
		t.Errorf("AntiAliasingType = %v, want %v", got.AntiAliasingType, effect.DefaultAAType)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	a := effect.Default()
	a.BrightnessLevel = 60
	b := effect.Default()
	b.BrightnessLevel = 140
	_ = s.Save(ctx, "p", a)
	_ = s.Save(ctx, "p", b)

	got, err := s.Load(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if got.BrightnessLevel != 140 {
		t.Errorf("BrightnessLevel = %d, want 140", got.BrightnessLevel)
	}
	names, _ := s.List(ctx)
	if len(names) != 1 {
		t.Errorf("List() = %v, want one profile", names)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openMemory(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() = %v, want ErrNotFound", err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c"} {
		if err := s.Save(ctx, name, effect.Default()); err != nil {
			t.Fatal(err)
		}
	}
	names, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}

	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if err := s.Delete(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
	names, _ = s.List(ctx)
	if want := []string{"a", "c"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() after delete = %v, want %v", names, want)
	}
}

func TestEmptyName(t *testing.T) {
	s := openMemory(t)
	if err := s.Save(context.Background(), "  ", effect.Default()); err == nil {
		t.Error("Save() with blank name succeeded")
	}
}

func TestDecodeKeepsDefaultsForMissingFields(t *testing.T) {
	cfg, err := decode(`{"enabled":true,"brightness":true,"brightnessLevel":130}`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BrightnessLevel != 130 || !cfg.Brightness {
		t.Errorf("brightness = %v/%d, want true/130", cfg.Brightness, cfg.BrightnessLevel)
	}
	if cfg.ShadowDistance != effect.DefaultShadowDistance {
		t.Errorf("ShadowDistance = %d, want default %d", cfg.ShadowDistance, effect.DefaultShadowDistance)
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "postfx.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	cfg := effect.Default()
	cfg.Sharpening = true
	if err := s.Save(ctx, "sharp", cfg); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen = %v", err)
	}
	defer s.Close()
	p, err := s.Profile(ctx, "sharp")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Config.Sharpening || p.Updated.IsZero() {
		t.Errorf("Profile() = %+v", p)
	}
}
