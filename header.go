package heap

import "unsafe"

// Align is the fixed alignment constant A from the data model: every
// non-sentinel block size is a multiple of Align, which inductively keeps
// every header and every payload Align-aligned.
const Align = 8

// MinPayload is the split-avoidance threshold: a free remainder produced by
// splitting a block is only materialized as a new block if it can hold at
// least sizeof(header)+MinPayload bytes.
const MinPayload = 24

// header is the fixed-size prefix of every block. Its layout is two
// uint64 fields so that sizeof(header) is always 16 bytes on every
// supported platform, a multiple of Align regardless of struct-padding
// rules — the "sizeof(header) mod A = 0" requirement the data model places
// on the implementation.
type header struct {
	size uint64 // total bytes of the block, header included; 0 for the sentinel.
	used uint64 // 0 = free, 1 = used; always 1 for the sentinel.
}

// headerSize is sizeof(header) in bytes, used throughout as the footprint a
// block's header consumes before its payload begins.
const headerSize = unsafe.Sizeof(header{})

// roundup returns the smallest multiple of m that is >= n. m must be a
// power of two.
func roundup(n, m int) int { return (n + m - 1) &^ (m - 1) }

// headerAt reinterprets the byte at base+off as a header. The caller is
// responsible for off landing exactly on a block boundary; this is the one
// fenced spot in the package where raw address arithmetic happens, per the
// Design Notes guidance to confine pointer arithmetic to a single module.
func headerAt(base uintptr, off int) *header {
	return (*header)(unsafe.Pointer(base + uintptr(off))) //nolint:govet
}

// addr returns h's own address as an offset from base.
func addr(base uintptr, h *header) int {
	return int(uintptr(unsafe.Pointer(h)) - base)
}

// isSentinel reports whether h is the distinguished terminal header
// (size == 0, used == 1). The sentinel is never surfaced to callers of the
// public API as a regular block.
func (h *header) isSentinel() bool { return h.size == 0 }

func (h *header) free() bool { return h.used == 0 }

func (h *header) markUsed() { h.used = 1 }
func (h *header) markFree() { h.used = 0 }

// next returns the header immediately following h in the chain. It must
// never be called on the sentinel.
func (h *header) next(base uintptr) *header {
	return headerAt(base, addr(base, h)+int(h.size))
}

// usable reports the number of payload bytes h can hold, which may exceed
// the size most recently requested of it (an oversized, unsplit block).
func (h *header) usable() int { return int(h.size) - int(headerSize) }

// payload returns a byte slice over h's payload region with length want and
// capacity equal to h's full usable size, so a caller can see (via cap)
// that an oversized block has room to grow in place. This is the modern
// (Go 1.17+) replacement for the reflect.SliceHeader construction the
// teacher package used; unsafe.Slice is the idiomatic way to do this today.
func (h *header) payload(want int) []byte {
	usable := h.usable()
	p := (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(h)) + headerSize))
	full := unsafe.Slice(p, usable)
	return full[:want:usable]
}

// headerOf recovers the header for a payload slice previously returned to a
// caller. The specification assumes the slice was indeed returned by this
// allocator and has not already been released; violating that is undefined
// behavior, matching the distilled spec's contract-violation handling.
//
// unsafe.SliceData is used rather than &b[0] so that a zero-payload block
// (a request of 0 bytes still yields a releasable block; see Malloc) can be
// recovered too, since indexing an empty slice would panic.
func headerOf(b []byte) *header {
	p := unsafe.Pointer(unsafe.SliceData(b))
	return (*header)(unsafe.Pointer(uintptr(p) - headerSize))
}
