package heap

// mergeForward implements §4.4's merge_forward: while the block immediately
// following h is free, absorb its size into h. It stops at a used block or
// the sentinel (both report used == true), and never touches h.used or
// moves any payload.
func (a *Allocator) mergeForward(h *header) {
	for {
		nb := h.next(a.base)
		if !nb.free() {
			return
		}
		h.size += nb.size
	}
}

// mergeAll implements §4.4's merge_all: walk the whole chain from base,
// applying mergeForward to every free block encountered. After this pass,
// no two adjacent blocks are both free.
func (a *Allocator) mergeAll() {
	h := headerAt(a.base, 0)
	for !h.isSentinel() {
		if h.free() {
			a.mergeForward(h)
		}
		h = h.next(a.base)
	}
}

// shrink implements §4.5: after merging, if the block immediately
// preceding the sentinel is free, give it and the sentinel back to the
// break source and install a fresh sentinel at the new, lower break. If the
// heap holds only the sentinel, or the predecessor is used, this is a
// no-op.
func (a *Allocator) shrink() error {
	var prev *header
	h := headerAt(a.base, 0)
	for !h.isSentinel() {
		prev = h
		h = h.next(a.base)
	}

	if prev == nil || !prev.free() {
		return nil
	}

	give := int(prev.size) + int(headerSize)
	if _, _, err := a.src.Break(-give); err != nil {
		return err
	}

	return a.installSentinel()
}
