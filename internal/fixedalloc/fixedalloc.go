// Package fixedalloc implements the degenerate fixed-block allocation
// strategy a bootstrap environment falls back to before a real heap exists:
// every request is rounded up to one slot of a fixed size, and a slot is
// either free or used in its entirety. There is no splitting, no merging,
// and no break to grow; the pool's capacity is fixed at construction and
// Malloc simply fails once every slot is taken.
//
// cmd/heapsh can run its command stream against either this pool or a real
// heap.Allocator, which is how the harness exercises both strategies with
// the same script.
package fixedalloc

import (
	"unsafe"

	"github.com/srini2021m/HeapManager/internal/xassert"
)

// Pool is a fixed-block-size allocator over BlockCount slots of BlockSize
// bytes each. The zero value is not usable; construct with New.
type Pool struct {
	blockSize int
	mem       []byte
	used      []bool
}

// New returns a Pool of blockCount slots, each blockSize bytes.
func New(blockSize, blockCount int) *Pool {
	xassert.True(blockSize > 0 && blockCount > 0, "fixedalloc: blockSize and blockCount must be positive")
	return &Pool{
		blockSize: blockSize,
		mem:       make([]byte, blockSize*blockCount),
		used:      make([]bool, blockCount),
	}
}

// Malloc returns size bytes from the first free slot, or (nil, false) if
// every slot is taken. A size larger than the pool's block size is a
// contract violation diagnosed by internal/xassert, not a false return. Unlike
// heap.Allocator, a failed Malloc here is not an error condition the caller
// must handle specially: a fixed pool running out of slots is an expected,
// routine outcome, so Pool reports it with a plain boolean rather than an
// error value.
func (p *Pool) Malloc(size int) ([]byte, bool) {
	xassert.True(size <= p.blockSize, "fixedalloc: request %d exceeds block size %d", size, p.blockSize)

	for i, u := range p.used {
		if u {
			continue
		}
		p.used[i] = true
		off := i * p.blockSize
		return p.mem[off : off+size : off+p.blockSize], true
	}
	return nil, false
}

// Calloc is Malloc(nmemb*size) with the returned slot zeroed, mirroring
// nomalloc.c's own calloc(nmemb, size), which does not check the
// multiplication for overflow either.
func (p *Pool) Calloc(nmemb, size int) ([]byte, bool) {
	b, ok := p.Malloc(nmemb * size)
	if !ok {
		return nil, false
	}
	clear(b)
	return b, true
}

// Free returns b's slot to the pool. A nil slice is a no-op. Freeing a
// slice that was not returned by this Pool, or whose slot is already free,
// is a contract violation diagnosed by internal/xassert, matching the
// ASSERT-driven bad-pointer checks in the block-size-indexed original.
func (p *Pool) Free(b []byte) {
	if b == nil {
		return
	}

	off := p.slotOf(b)
	idx := off / p.blockSize
	xassert.True(p.used[idx], "fixedalloc: Free of a slot not marked used (double free or corrupt slice)")
	p.used[idx] = false
}

// Realloc implements the original's special cases: a nil pointer behaves
// like Malloc, a zero size behaves like Free, and any in-bounds size is
// satisfied in place since every slot already holds a full block's worth of
// backing storage regardless of the size last requested of it.
func (p *Pool) Realloc(b []byte, size int) ([]byte, bool) {
	if b == nil {
		return p.Malloc(size)
	}
	if size == 0 {
		p.Free(b)
		return nil, true
	}
	if size > p.blockSize {
		return nil, false
	}

	off := p.slotOf(b)
	return p.mem[off : off+size : off+p.blockSize], true
}

// slotOf recovers the byte offset of b's backing slot, asserting that b
// lies on a slot boundary within the pool, mirroring the original's
// off%BLOCK_SIZE==0 and off<BLOCK_COUNT checks.
func (p *Pool) slotOf(b []byte) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.mem)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	off := int(ptr - base)
	xassert.True(off%p.blockSize == 0, "fixedalloc: Free/Realloc of a misaligned pointer (not a slot boundary)")
	xassert.True(off/p.blockSize < len(p.used), "fixedalloc: Free/Realloc of an out-of-range pointer")
	return off
}
