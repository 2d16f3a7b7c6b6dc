package heap

// The methods in this file exist for cmd/heapsh's introspection commands
// (showheap, showbrk, alignbrk, checksentinel, blocktoslot) — none of §6.1's
// four core operations need them. They expose read-only views over state
// the core already tracks internally, the same state mergeAll/shrink/init
// already traverse.

// EnsureInit runs heap initialization if it has not already run. Malloc,
// Calloc, Free and Realloc all do this lazily on first use; the harness
// calls it explicitly so commands like showbrk and alignbrk have a base to
// report on even before the first allocation.
func (a *Allocator) EnsureInit() error { return a.init() }

// Base returns the address heap initialization recorded as the start of the
// managed region, or 0 if heap initialization has not yet run.
func (a *Allocator) Base() uintptr { return a.base }

// BreakAddr returns the current break address.
func (a *Allocator) BreakAddr() (uintptr, error) {
	cur, _, err := a.src.Break(0)
	return cur, err
}

// Block is a read-only view of one entry in the chain, surfaced by Walk.
type Block struct {
	Offset   int  // distance from Base.
	Size     int  // header-inclusive size; 0 for the sentinel.
	Used     bool // always true for the sentinel.
	Sentinel bool
}

// Walk calls fn once for every block from base to and including the
// sentinel, in address order. It stops early if fn returns false.
func (a *Allocator) Walk(fn func(Block) bool) {
	h := headerAt(a.base, 0)
	for {
		b := Block{
			Offset:   addr(a.base, h),
			Size:     int(h.size),
			Used:     h.used == 1,
			Sentinel: h.isSentinel(),
		}
		if !fn(b) || b.Sentinel {
			return
		}
		h = h.next(a.base)
	}
}

// BlockAt walks the chain and returns the i-th non-sentinel block (0
// indexed), or ok == false if the sentinel is reached first.
func (a *Allocator) BlockAt(i int) (b Block, ok bool) {
	n := 0
	a.Walk(func(cur Block) bool {
		if cur.Sentinel {
			return false
		}
		if n == i {
			b, ok = cur, true
			return false
		}
		n++
		return true
	})
	return b, ok
}

// PayloadAt returns the full usable payload (length == capacity) of the
// block at the given offset from Base, for blocktoslot's "make a slot out
// of whichever block is currently at this position" behavior.
func (a *Allocator) PayloadAt(offset int) []byte {
	h := headerAt(a.base, offset)
	return h.payload(h.usable())
}
