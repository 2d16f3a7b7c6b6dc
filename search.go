package heap

import "github.com/srini2021m/HeapManager/internal/xassert"

// findFit performs the first-fit search of §4.2: walk the chain from base,
// returning the first free block whose size is at least need. If no block
// fits, it grows the heap by consuming the sentinel and extending the
// break, and returns the new block in its place.
func (a *Allocator) findFit(need int) (*header, error) {
	h := headerAt(a.base, 0)
	for !h.isSentinel() {
		if h.free() && int(h.size) >= need {
			h.markUsed()
			a.split(h, need)
			return h, nil
		}
		h = h.next(a.base)
	}

	// h is now the sentinel: first-fit found nothing, grow the heap.
	return a.grow(h, need)
}

// grow converts the current sentinel into a new block of the requested
// footprint and extends the break to make room for its payload, then
// installs a fresh sentinel past it. sentinel must be the chain's current
// terminal header (size == 0, used == true).
func (a *Allocator) grow(sentinel *header, need int) (*header, error) {
	xassert.True(sentinel.size == 0 && sentinel.used == 1,
		"grow: traversal did not terminate on a clean sentinel (size=%d used=%d)", sentinel.size, sentinel.used)

	sentinel.size = uint64(need)

	if _, _, err := a.src.Break(need - int(headerSize)); err != nil {
		// Undo the size write: the sentinel slot must stay a valid
		// sentinel since we failed to actually grow into it.
		sentinel.size = 0
		return nil, err
	}
	a.growBytes += need - int(headerSize)

	if err := a.installSentinel(); err != nil {
		return nil, err
	}

	return sentinel, nil
}

// blockAt recovers a header from a caller-held payload slice; it is the
// same as headerOf, which Free and Realloc call directly.
func blockAt(b []byte) *header { return headerOf(b) }
