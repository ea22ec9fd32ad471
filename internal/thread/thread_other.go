// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux && !windows

package thread

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentID falls back to the goroutine id. Together with
// runtime.LockOSThread on the frame goroutine it identifies the same owner.
func currentID() ID {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// "goroutine 123 [running]:"
	field := bytes.Fields(buf[:n])
	if len(field) < 2 {
		return 1
	}
	id, err := strconv.ParseUint(string(field[1]), 10, 64)
	if err != nil || id == 0 {
		return 1
	}
	return ID(id)
}
