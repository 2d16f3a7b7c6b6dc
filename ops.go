package heap

import "github.com/srini2021m/HeapManager/internal/xassert"

// Malloc implements §4.2. It returns a byte slice over at least size bytes
// of Align-aligned payload. Size 0 is a valid request: per the boundary
// behavior in the testable-properties section, it yields a real, releasable
// block rather than a nil slice (unlike the teacher package, whose Malloc
// returns (nil, nil) for size 0 — this allocator's contract requires a
// live block so Free/Realloc on it behave like any other allocation).
//
// Malloc panics for size < 0, matching the teacher package's own contract.
func (a *Allocator) Malloc(size int) ([]byte, error) {
	if size < 0 {
		panic("heap: invalid Malloc size")
	}

	if err := a.init(); err != nil {
		return nil, err
	}

	need := roundup(size+int(headerSize), Align)
	h, err := a.findFit(need)
	if err != nil {
		return nil, err
	}

	a.allocs++
	return h.payload(size), nil
}

// Calloc is like Malloc except it takes an element count and a width and
// allocates their product, zeroed. Per §4.8 it does not check nmemb*size
// for overflow, same as ReallocArray.
func (a *Allocator) Calloc(nmemb, size int) ([]byte, error) {
	b, err := a.Malloc(nmemb * size)
	if err != nil {
		return nil, err
	}
	clear(b)
	return b, nil
}

// Free implements §4.6. A nil slice is a documented no-op. Freeing a slice
// that was not returned by this Allocator, or that has already been freed,
// is a contract violation: Free asserts the recovered header is marked used
// before clearing it, terminating the process via internal/xassert rather
// than attempting to recover, matching the specification's "undefined
// behavior" treatment of double-free.
func (a *Allocator) Free(b []byte) error {
	if err := a.init(); err != nil {
		return err
	}
	if b == nil {
		return nil
	}

	h := headerOf(b)
	xassert.True(h.used == 1, "heap: Free of a block not marked used (double free or corrupt slice)")

	h.markFree()
	a.mergeAll()
	if err := a.shrink(); err != nil {
		return err
	}

	a.allocs--
	return nil
}

// Realloc implements §4.7. See the package doc comment for the resize
// semantics summary; the relocation path below copies via Go's copy
// builtin, which takes min(len(dst), len(src)) — and since every slice
// this package ever returns carries its true requested length (unlike a
// bare C pointer, which carries none), that is exactly
// min(new_requested_size, old_requested_size), the corrected behavior the
// Design Notes call out as preferable to the original's copy-by-new-size.
func (a *Allocator) Realloc(b []byte, size int) ([]byte, error) {
	if b == nil {
		return a.Malloc(size)
	}
	if size == 0 {
		return nil, a.Free(b)
	}

	h := headerOf(b)
	xassert.True(h.used == 1, "heap: Realloc of a block not marked used (corrupt or already-freed slice)")

	need := roundup(size+int(headerSize), Align)

	if need > int(h.size) {
		a.mergeForward(h)
		a.split(h, need)
		if int(h.size) >= need {
			return h.payload(size), nil
		}

		nb, err := a.Malloc(size)
		if err != nil {
			return nil, err
		}
		copy(nb, b)
		if err := a.Free(b); err != nil {
			return nil, err
		}
		return nb, nil
	}

	a.split(h, need)
	a.mergeAll()
	if err := a.shrink(); err != nil {
		return nil, err
	}
	return h.payload(size), nil
}

// ReallocArray is equivalent to Realloc(b, nmemb*size). Per §4.8 it does
// not check the multiplication for overflow; callers of the array variants
// must guard against that themselves.
func (a *Allocator) ReallocArray(b []byte, nmemb, size int) ([]byte, error) {
	return a.Realloc(b, nmemb*size)
}
