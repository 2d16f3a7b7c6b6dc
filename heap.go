// Package heap implements a general-purpose dynamic memory allocator that
// manages a single, contiguous heap region grown and shrunk by adjusting a
// break pointer borrowed from an injected internal/brk.Source. Allocations
// are laid out as a singly-linked sequence of headered blocks terminated by
// a sentinel: a first-fit search finds a free block (splitting it if the
// remainder is worth keeping), release coalesces adjacent free blocks and
// hands trailing free memory back to the break source, and resize grows a
// block in place when possible before falling back to relocation.
//
// The zero value of Allocator is ready for use; heap initialization (align
// the break, record the base, install the first sentinel) happens at most
// once, on the first call into any of Malloc, Calloc, Realloc, ReallocArray
// or Free.
//
// Allocator is not safe for concurrent use: like the C allocator this
// package is modeled on, it holds no locks and makes no guarantees if two
// goroutines call into the same Allocator at once.
package heap

import (
	"unsafe"

	"github.com/srini2021m/HeapManager/internal/brk"
)

// Stats is a point-in-time snapshot of an Allocator's bookkeeping, returned
// by Stats. It has no effect on allocator behavior; the package's own tests
// use it to check that everything was released.
type Stats struct {
	Allocs     int // net number of outstanding (not yet Freed) allocations.
	GrowBytes  int // total bytes ever requested from the break source via growth.
	BreakBytes int // current break - base, i.e. total heap footprint including the sentinel.
}

// Allocator allocates and frees memory over a single heap region. Its zero
// value is ready for use and will lazily reserve its own break source on
// first call; construct it with NewWithSource to supply one explicitly
// (tests use this to inject a brk.Simulated).
type Allocator struct {
	src  brk.Source
	base uintptr // 0 until init has run.

	allocs    int
	growBytes int
}

// New returns a ready-to-use Allocator backed by a freshly reserved
// internal/brk.Reserved source. It is equivalent to new(Allocator) except
// that it reserves address space eagerly instead of on first call.
func New() (*Allocator, error) {
	a := &Allocator{}
	if err := a.init(); err != nil {
		return nil, err
	}
	return a, nil
}

// NewWithSource returns an Allocator backed by the given break source. It
// is the seam tests use to run the allocator over a brk.Simulated instead
// of real reserved memory.
func NewWithSource(src brk.Source) *Allocator {
	return &Allocator{src: src}
}

// Stats reports a snapshot of the allocator's bookkeeping.
func (a *Allocator) Stats() Stats {
	brkBytes := 0
	if a.base != 0 {
		cur, _, err := a.src.Break(0)
		if err == nil {
			brkBytes = int(cur - a.base)
		}
	}
	return Stats{Allocs: a.allocs, GrowBytes: a.growBytes, BreakBytes: brkBytes}
}

// Close releases the allocator's break source (unmapping a real reservation
// or discarding a simulated one) and resets the Allocator to its zero
// value. It is an addition over the distilled spec's four operations: a
// hosted Go library has no process-exit moment that reclaims the
// reservation for it the way a short-lived C process would.
func (a *Allocator) Close() error {
	var err error
	if c, ok := a.src.(interface{ Close() error }); ok {
		err = c.Close()
	}
	*a = Allocator{}
	return err
}

// init performs heap initialization (§4.1): align the current break,
// record it as base, and install the first sentinel. It is a no-op after
// the first successful call.
func (a *Allocator) init() error {
	if a.base != 0 {
		return nil
	}

	if a.src == nil {
		src, err := brk.NewReserved(0)
		if err != nil {
			return err
		}
		a.src = src
	}

	cur, _, err := a.src.Break(0)
	if err != nil {
		return err
	}

	if rem := int(cur % Align); rem != 0 {
		if _, _, err := a.src.Break(Align - rem); err != nil {
			return err
		}
	}

	base, _, err := a.src.Break(0)
	if err != nil {
		return err
	}
	a.base = base

	return a.installSentinel()
}

// installSentinel advances the break by sizeof(header) and writes a fresh
// sentinel (size = 0, used = 1) into the newly-exposed slot, which starts
// exactly at the break as it was before this call.
func (a *Allocator) installSentinel() error {
	old, _, err := a.src.Break(int(headerSize))
	if err != nil {
		return err
	}

	h := (*header)(unsafe.Pointer(old))
	h.size = 0
	h.used = 1
	return nil
}
