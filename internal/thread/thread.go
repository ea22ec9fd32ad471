// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package thread records which OS thread owns a resource.
//
// GPU contexts created by the compute backend may only be used from the
// thread that created them. Callers keep that thread by running the frame
// loop on a goroutine pinned with runtime.LockOSThread.
package thread

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrForeignThread reports use of a bound resource from another thread.
var ErrForeignThread = errors.New("thread: called from a thread that does not own the resource")

// ID identifies an OS thread (or, on platforms without a thread id syscall,
// the calling goroutine).
type ID uint64

// Current returns the identity of the calling thread.
func Current() ID { return currentID() }

// Affinity binds a resource to the first thread that claims it.
// The zero value is unbound.
type Affinity struct {
	owner atomic.Uint64
}

// Bind claims the resource for the calling thread. Binding again from the
// owner is a no-op; binding from any other thread fails.
func (a *Affinity) Bind() error {
	id := uint64(Current())
	if a.owner.CompareAndSwap(0, id) {
		return nil
	}
	return a.Check()
}

// Check returns ErrForeignThread unless called from the owning thread.
// An unbound Affinity fails every check.
func (a *Affinity) Check() error {
	owner := a.owner.Load()
	if owner == 0 {
		return fmt.Errorf("%w: not bound", ErrForeignThread)
	}
	if cur := uint64(Current()); cur != owner {
		return fmt.Errorf("%w: owner %d, caller %d", ErrForeignThread, owner, cur)
	}
	return nil
}

// Owner returns the owning thread, or 0 when unbound.
func (a *Affinity) Owner() ID { return ID(a.owner.Load()) }

// Release unbinds the resource. Re-binding to a different thread is only
// meaningful for a freshly created resource; the compute backend never does it.
func (a *Affinity) Release() { a.owner.Store(0) }
