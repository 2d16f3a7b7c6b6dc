// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

//go:build windows

package brk

import (
	"os"
	"reflect"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

// mmap on Windows is a two-step process.
// First, we call CreateFileMapping to get a handle.
// Then, we call MapViewToFile to get an actual pointer into memory.

// We keep this map so that we can get back the original handle from the
// memory address when the reservation is released.
var handleMap = map[uintptr]syscall.Handle{}

// mmapReserve reserves capacity bytes of address space, rounded up to whole
// pages for the same reason mmap_unix.go's variant does: CreateFileMapping
// itself rounds the mapping's size up to an allocation granularity, so
// Reserved's notion of how much room is left should match what the OS
// actually committed rather than the caller's unrounded request.
func mmapReserve(capacity int) ([]byte, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("brk: reservation capacity must be positive, got %d", capacity)
	}
	capacity = roundup(capacity, osPageSize)

	flProtect := uint32(syscall.PAGE_READWRITE)
	dwDesiredAccess := uint32(syscall.FILE_MAP_WRITE)

	maxSizeHigh := uint32(int64(capacity) >> 32)
	maxSizeLow := uint32(int64(capacity) & 0xFFFFFFFF)
	h, errno := syscall.CreateFileMapping(syscall.Handle(^uintptr(0)), nil, flProtect, maxSizeHigh, maxSizeLow, nil)
	if h == 0 {
		return nil, errors.Wrap(os.NewSyscallError("CreateFileMapping", errno), "brk: reserve")
	}

	addr, errno := syscall.MapViewOfFile(h, dwDesiredAccess, 0, 0, uintptr(capacity))
	if addr == 0 {
		return nil, errors.Wrap(os.NewSyscallError("MapViewOfFile", errno), "brk: reserve")
	}

	if addr&uintptr(osPageMask) != 0 {
		panic("internal error: mmap returned a non-page-aligned address")
	}

	handleMap[addr] = h
	var b []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = addr
	sh.Len = capacity
	sh.Cap = capacity
	return b, nil
}

func munmapReserve(addr unsafe.Pointer, size int) error {
	err := syscall.UnmapViewOfFile(uintptr(addr))
	if err != nil {
		return err
	}

	handle, ok := handleMap[uintptr(addr)]
	if !ok {
		return errors.New("brk: unknown reservation base address")
	}
	delete(handleMap, uintptr(addr))

	e := syscall.CloseHandle(handle)
	return os.NewSyscallError("CloseHandle", e)
}
