// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import "sync/atomic"

// Shared publishes a Config between a settings UI and the frame loop.
//
// Writers publish a whole new snapshot; readers take a value copy once per
// frame. A reader may observe the previous snapshot for one frame, never a
// torn one.
type Shared struct {
	p atomic.Pointer[Config]
}

// NewShared returns a Shared holding a validated copy of cfg.
func NewShared(cfg Config) *Shared {
	s := &Shared{}
	s.Store(cfg)
	return s
}

// Load returns the current snapshot.
func (s *Shared) Load() Config {
	if c := s.p.Load(); c != nil {
		return *c
	}
	return Default()
}

// Store validates cfg and publishes it.
func (s *Shared) Store(cfg Config) {
	cfg.Validate()
	s.p.Store(&cfg)
}

// Update applies fn to a copy of the current snapshot and publishes the
// result. Concurrent updates retry until they apply on the latest snapshot.
func (s *Shared) Update(fn func(*Config)) Config {
	for {
		old := s.p.Load()
		next := Default()
		if old != nil {
			next = *old
		}
		fn(&next)
		next.Validate()
		if s.p.CompareAndSwap(old, &next) {
			return next
		}
	}
}
