package heap

import (
	"bytes"
	"math"
	"testing"

	"github.com/cznic/mathutil"

	"github.com/srini2021m/HeapManager/internal/brk"
)

const quota = 4 << 20

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	return NewWithSource(brk.NewSimulated(64 << 20))
}

func fuzzTest1(t *testing.T, max int) {
	a := newTestAllocator(t)
	rem := quota
	var got [][]byte
	rng, err := mathutil.NewFC32(0, math.MaxInt32, true)
	if err != nil {
		t.Fatal(err)
	}

	rng.Seed(42)
	pos := rng.Pos()
	for rem > 0 {
		size := rng.Next()%max + 1
		rem -= size
		b, err := a.Malloc(size)
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, b)
		for i := range b {
			b[i] = byte(rng.Next())
		}
	}

	rng.Seek(pos)
	for i, b := range got {
		if g, e := len(b), rng.Next()%max+1; g != e {
			t.Fatalf("block %d: len %d, want %d", i, g, e)
		}
		for i, g := range b {
			if e := byte(rng.Next()); g != e {
				t.Fatalf("byte %d: %#02x != %#02x", i, g, e)
			}
			b[i] = 0
		}
	}

	for i := range got {
		j := rng.Next() % len(got)
		got[i], got[j] = got[j], got[i]
	}

	for _, b := range got {
		if err := a.Free(b); err != nil {
			t.Fatal(err)
		}
	}

	if st := a.Stats(); st.Allocs != 0 || st.BreakBytes != int(headerSize) {
		t.Fatalf("after freeing everything: %+v", st)
	}
}

func TestFuzzSmall(t *testing.T) { fuzzTest1(t, 256) }
func TestFuzzBig(t *testing.T)   { fuzzTest1(t, 64<<10) }

func fuzzTest2(t *testing.T, max int) {
	a := newTestAllocator(t)
	rem := quota
	live := map[*[]byte][]byte{}
	rng, err := mathutil.NewFC32(1, max, true)
	if err != nil {
		t.Fatal(err)
	}

	for rem > 0 {
		switch rng.Next() % 3 {
		case 0, 1:
			size := rng.Next()
			rem -= size
			b, err := a.Malloc(size)
			if err != nil {
				t.Fatal(err)
			}
			live[&b] = append([]byte(nil), b...)
		default:
			for k := range live {
				b := *k
				rem += len(b)
				if err := a.Free(b); err != nil {
					t.Fatal(err)
				}
				delete(live, k)
				break
			}
		}
	}

	for k, want := range live {
		got := *k
		if !bytes.Equal(got, want) {
			t.Fatal("live allocation corrupted")
		}
		if err := a.Free(got); err != nil {
			t.Fatal(err)
		}
	}

	if st := a.Stats(); st.Allocs != 0 || st.BreakBytes != int(headerSize) {
		t.Fatalf("after freeing everything: %+v", st)
	}
}

func TestFuzzShuffleFree(t *testing.T) { fuzzTest2(t, 1<<12) }

func TestFreeNilIsNoop(t *testing.T) {
	a := newTestAllocator(t)
	if err := a.Free(nil); err != nil {
		t.Fatal(err)
	}
}

func TestMallocZero(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Malloc(0)
	if err != nil {
		t.Fatal(err)
	}
	if b == nil {
		t.Fatal("Malloc(0) returned a nil slice, want a releasable zero-length block")
	}
	if len(b) != 0 {
		t.Fatalf("len(b) = %d, want 0", len(b))
	}
	if err := a.Free(b); err != nil {
		t.Fatal(err)
	}
}

func TestReallocNilIsMalloc(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Realloc(nil, 32)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 32 {
		t.Fatalf("len(b) = %d, want 32", len(b))
	}
}

func TestReallocZeroIsFree(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Malloc(32)
	if err != nil {
		t.Fatal(err)
	}
	if r, err := a.Realloc(b, 0); err != nil || r != nil {
		t.Fatalf("Realloc(b, 0) = %v, %v; want nil, nil", r, err)
	}
	if st := a.Stats(); st.Allocs != 0 {
		t.Fatalf("Allocs = %d, want 0", st.Allocs)
	}
}

func TestReallocArrayMatchesReallocOfProduct(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Malloc(16)
	if err != nil {
		t.Fatal(err)
	}
	for i := range b {
		b[i] = byte(i + 1)
	}

	got, err := a.ReallocArray(b, 5, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 100 {
		t.Fatalf("len(got) = %d, want 5*20 = 100", len(got))
	}
	for i := 0; i < 16; i++ {
		if got[i] != byte(i+1) {
			t.Fatalf("byte %d = %#x, want %#x (original payload not preserved)", i, got[i], byte(i+1))
		}
	}
}

func TestCallocZeroesProductOfNmembAndSize(t *testing.T) {
	a := newTestAllocator(t)
	b, err := a.Malloc(24)
	if err != nil {
		t.Fatal(err)
	}
	for i := range b {
		b[i] = 0xff
	}
	if err := a.Free(b); err != nil {
		t.Fatal(err)
	}

	c, err := a.Calloc(4, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(c) != 24 {
		t.Fatalf("len(c) = %d, want 4*6 = 24", len(c))
	}
	for i, v := range c {
		if v != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, v)
		}
	}
}
