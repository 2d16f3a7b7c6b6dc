package heap

// split implements §4.3: given a block h with size old and a target
// footprint need, carve off a new free block from the remainder when the
// remainder is large enough to be worth keeping on its own. Otherwise h
// keeps its current size and the caller receives a slightly oversized
// block — this is allowed by the spec, not a bug.
func (a *Allocator) split(h *header, need int) {
	old := int(h.size)
	if need >= old {
		return
	}

	leftover := old - need
	if leftover < int(headerSize)+MinPayload {
		return
	}

	nb := headerAt(a.base, addr(a.base, h)+need)
	nb.size = uint64(roundup(leftover, Align))
	nb.markFree()

	h.size = uint64(need)
}
