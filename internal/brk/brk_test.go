package brk

import "testing"

func testSourceBreak(t *testing.T, s Source) {
	t.Helper()

	base, mem, err := s.Break(0)
	if err != nil {
		t.Fatal(err)
	}
	if mem != nil {
		t.Fatalf("Break(0) returned non-nil mem: %v", mem)
	}

	old, mem, err := s.Break(64)
	if err != nil {
		t.Fatal(err)
	}
	if old != base {
		t.Fatalf("Break(64) old = %#x, want %#x", old, base)
	}
	if len(mem) != 64 {
		t.Fatalf("len(mem) = %d, want 64", len(mem))
	}
	for i := range mem {
		mem[i] = byte(i)
	}

	cur, _, err := s.Break(0)
	if err != nil {
		t.Fatal(err)
	}
	if cur != base+64 {
		t.Fatalf("current break = %#x, want %#x", cur, base+64)
	}

	if _, _, err := s.Break(-64); err != nil {
		t.Fatal(err)
	}
	cur, _, err = s.Break(0)
	if err != nil {
		t.Fatal(err)
	}
	if cur != base {
		t.Fatalf("current break after retract = %#x, want %#x", cur, base)
	}

	if _, _, err := s.Break(-8); err == nil {
		t.Fatal("retracting past the base should fail")
	}
}

func TestSimulatedBreak(t *testing.T) {
	s := NewSimulated(1 << 20)
	defer s.Close()
	testSourceBreak(t, s)
}

func TestSimulatedExhaustion(t *testing.T) {
	s := NewSimulated(128)
	defer s.Close()

	if _, _, err := s.Break(128); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Break(1); err == nil {
		t.Fatal("growth past capacity should fail")
	}
}

func TestReservedBreak(t *testing.T) {
	r, err := NewReserved(1 << 20)
	if err != nil {
		t.Skipf("mmap reservation unavailable in this environment: %v", err)
	}
	defer r.Close()
	testSourceBreak(t, r)
}

func TestReservedExhaustion(t *testing.T) {
	r, err := NewReserved(osPageSize)
	if err != nil {
		t.Skipf("mmap reservation unavailable in this environment: %v", err)
	}
	defer r.Close()

	if _, _, err := r.Break(osPageSize); err != nil {
		t.Fatal(err)
	}
	if _, _, err := r.Break(1); err == nil {
		t.Fatal("growth past the reservation should fail")
	}
}
