// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd

package brk

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

// mmapReserve reserves capacity bytes of virtual address space, rounded up
// to the whole pages the anonymous mapping is actually granted in: a
// reservation narrower than one page would silently waste the tail page
// mmap always hands back anyway, which would then never be accounted for
// in the Reserved value's notion of how much room it has left.
func mmapReserve(capacity int) ([]byte, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("brk: reservation capacity must be positive, got %d", capacity)
	}
	capacity = roundup(capacity, osPageSize)

	flags := syscall.MAP_SHARED | syscall.MAP_ANON
	prot := syscall.PROT_READ | syscall.PROT_WRITE
	b, err := syscall.Mmap(-1, 0, capacity, prot, flags)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %d bytes", capacity)
	}

	if uintptr(unsafe.Pointer(&b[0]))&uintptr(osPageMask) != 0 {
		panic("internal error: mmap returned a non-page-aligned address")
	}

	return b, nil
}

func munmapReserve(addr unsafe.Pointer, size int) error {
	_, _, errno := syscall.Syscall(syscall.SYS_MUNMAP, uintptr(addr), uintptr(size), 0)
	if errno != 0 {
		return errno
	}

	return nil
}
