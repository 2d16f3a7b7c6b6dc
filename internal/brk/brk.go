// Package brk provides the break-adjustment collaborator the heap package is
// built against: "return current break" when asked for a zero delta, "advance
// (or retract) the break by delta bytes" otherwise, reporting the bytes newly
// exposed by an advance (a retract reports none).
//
// Real Go programs cannot portably call sbrk(2); the Go runtime already owns
// the process break. Source is the seam that lets heap.Allocator be built
// against a real mmap-backed reservation (Reserved) in production and a
// deterministic in-memory fake (Simulated) in tests.
package brk

import "fmt"

// Source is the break-adjustment collaborator.
//
// Break(0) returns the current break with no mutation and a nil Mem.
//
// Break(delta) with delta > 0 advances the break by delta bytes and returns
// the newly-exposed bytes in Mem (len(Mem) == delta); the caller may write a
// header into them. delta < 0 retracts the break by -delta bytes; Mem is nil
// in that case.
//
// Old is always the break value before the call.
type Source interface {
	Break(delta int) (old uintptr, mem []byte, err error)
}

// ErrExhausted is returned, possibly wrapped, when a Source cannot satisfy a
// growth request because it has run out of reserved address space.
var ErrExhausted = fmt.Errorf("brk: address space exhausted")
