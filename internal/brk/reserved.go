package brk

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
)

var (
	osPageSize = os.Getpagesize()
	osPageMask = osPageSize - 1
)

// DefaultCapacity is the reservation size used by NewReserved when none is
// given. It is generous enough for the allocator's own test and harness use
// without ever needing a second reservation (see Reserved's doc comment on
// why growth must never relocate the reservation).
const DefaultCapacity = 1 << 30 // 1 GiB of reserved (not committed) address space.

// Reserved is the real Source. It reserves one fixed-capacity region of
// virtual address space up front via the platform mmap primitive and then
// only ever moves a logical offset within it; the reservation itself is
// never grown or copied, so every address it has ever handed out remains
// valid for the lifetime of the Reserved value, exactly as addresses handed
// out by a real sbrk-grown heap are never invalidated by further growth.
type Reserved struct {
	region []byte
	brkOff int
}

// NewReserved reserves capacity bytes of address space. capacity <= 0
// selects DefaultCapacity; mmapReserve itself rounds whatever capacity it is
// given up to the platform page size.
func NewReserved(capacity int) (*Reserved, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	region, err := mmapReserve(capacity)
	if err != nil {
		return nil, errors.Wrapf(err, "brk: reserve %d bytes", capacity)
	}

	return &Reserved{region: region}, nil
}

// Break implements Source.
func (r *Reserved) Break(delta int) (uintptr, []byte, error) {
	base := uintptr(unsafe.Pointer(&r.region[0]))
	old := base + uintptr(r.brkOff)

	switch {
	case delta == 0:
		return old, nil, nil
	case delta < 0:
		if -delta > r.brkOff {
			return old, nil, errors.Errorf("brk: cannot retract %d bytes, only %d bytes grown", -delta, r.brkOff)
		}
		r.brkOff += delta
		return old, nil, nil
	default:
		if r.brkOff+delta > len(r.region) {
			return old, nil, errors.Wrapf(ErrExhausted, "need %d more bytes, only %d left of %d reserved", delta, len(r.region)-r.brkOff, len(r.region))
		}
		mem := r.region[r.brkOff : r.brkOff+delta]
		r.brkOff += delta
		return old, mem, nil
	}
}

// Close releases the entire reservation back to the operating system. After
// Close, the Reserved value must not be used again.
func (r *Reserved) Close() error {
	if r.region == nil {
		return nil
	}

	err := munmapReserve(unsafe.Pointer(&r.region[0]), len(r.region))
	r.region = nil
	r.brkOff = 0
	return err
}

func roundup(n, m int) int { return (n + m - 1) &^ (m - 1) }
