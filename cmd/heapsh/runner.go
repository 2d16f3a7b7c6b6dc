// Command heapsh replays a scripted sequence of allocator operations
// against either the general-purpose heap or the fixed-block fallback
// allocator, printing heap/slot state as it goes. It is a Go port of the
// distilled source's command-driven tester: a fixed-arity command table
// dispatched over a flat token stream, plus a set of numbered "slots" that
// remember each allocation's pointer and requested size across commands.
package main

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/srini2021m/HeapManager"
	"github.com/srini2021m/HeapManager/internal/brk"
	"github.com/srini2021m/HeapManager/internal/fixedalloc"
)

// backend is the minimal surface both heap.Allocator and the fixedBackend
// adapter over internal/fixedalloc.Pool expose; Runner drives either one
// through it so the same script can target both allocator strategies.
type backend interface {
	Malloc(size int) ([]byte, error)
	Free(b []byte) error
	Realloc(b []byte, size int) ([]byte, error)
}

// fixedBackend adapts internal/fixedalloc.Pool's (value, ok) results to
// backend's error-returning shape, so Runner does not need a second code
// path per command.
type fixedBackend struct{ pool *fixedalloc.Pool }

func (f fixedBackend) Malloc(size int) ([]byte, error) {
	b, ok := f.pool.Malloc(size)
	if !ok {
		return nil, errExhausted
	}
	return b, nil
}

func (f fixedBackend) Free(b []byte) error {
	f.pool.Free(b)
	return nil
}

func (f fixedBackend) Realloc(b []byte, size int) ([]byte, error) {
	r, ok := f.pool.Realloc(b, size)
	if !ok {
		return nil, errExhausted
	}
	return r, nil
}

var errExhausted = errors.New("heapsh: allocator exhausted")

// slot mirrors tester.c's AllocInfo: a remembered (pointer, requested size)
// pair, addressed by a small integer index.
type slot struct {
	ptr []byte
	sz  int
}

const numSlots = 256

// Runner holds everything tester.c kept in file-scope static variables:
// the numbered slots, the toggles (verbose, relative addresses, checks
// enabled), and which allocator backend is live.
type Runner struct {
	back backend
	heap *heap.Allocator // nil when backed by internal/fixedalloc.

	slots [numSlots]slot

	verbose  bool
	relative bool
	checks   bool

	log *logrus.Logger
}

// NewRunner builds a Runner over heap.Allocator backed by a simulated break
// source, for deterministic, reproducible scripted runs.
func NewRunner(log *logrus.Logger) *Runner {
	a := heap.NewWithSource(brk.NewSimulated(brk.DefaultCapacity))
	return &Runner{back: a, heap: a, verbose: true, checks: true, log: log}
}

// NewFixedRunner builds a Runner over internal/fixedalloc.Pool instead.
func NewFixedRunner(log *logrus.Logger, blockSize, blockCount int) *Runner {
	p := fixedalloc.New(blockSize, blockCount)
	return &Runner{back: fixedBackend{p}, verbose: true, checks: true, log: log}
}
