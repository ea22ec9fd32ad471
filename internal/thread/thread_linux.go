// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux

package thread

import "golang.org/x/sys/unix"

func currentID() ID {
	return ID(unix.Gettid()) //nolint:gosec // tid is positive
}
