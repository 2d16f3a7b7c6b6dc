package fixedalloc

import "testing"

func TestMallocExhaustsSlots(t *testing.T) {
	p := New(64, 2)

	a, ok := p.Malloc(10)
	if !ok || len(a) != 10 {
		t.Fatalf("first Malloc: got %v, %v", a, ok)
	}
	b, ok := p.Malloc(64)
	if !ok || len(b) != 64 {
		t.Fatalf("second Malloc: got %v, %v", b, ok)
	}

	if _, ok := p.Malloc(1); ok {
		t.Fatal("third Malloc succeeded, pool should be exhausted")
	}

	p.Free(a)
	c, ok := p.Malloc(32)
	if !ok || len(c) != 32 {
		t.Fatalf("Malloc after Free: got %v, %v", c, ok)
	}
}

func TestFreeNilIsNoop(t *testing.T) {
	p := New(64, 4)
	p.Free(nil)
}

func TestReallocSpecialCases(t *testing.T) {
	p := New(64, 4)

	a, ok := p.Realloc(nil, 16)
	if !ok || len(a) != 16 {
		t.Fatalf("Realloc(nil, 16): got %v, %v", a, ok)
	}

	b, ok := p.Realloc(a, 0)
	if !ok || b != nil {
		t.Fatalf("Realloc(a, 0): got %v, %v", b, ok)
	}

	c, ok := p.Malloc(16)
	if !ok {
		t.Fatal("Malloc after Realloc-as-Free failed; slot was not released")
	}
	if _, ok := p.Realloc(c, 1000); ok {
		t.Fatal("Realloc to an oversized request should fail")
	}
}

func TestCallocZeroes(t *testing.T) {
	p := New(64, 2)
	a, ok := p.Malloc(8)
	if !ok {
		t.Fatal("Malloc failed")
	}
	for i := range a {
		a[i] = 0xff
	}
	p.Free(a)

	b, ok := p.Calloc(2, 4)
	if !ok {
		t.Fatal("Calloc failed")
	}
	if len(b) != 8 {
		t.Fatalf("len(b) = %d, want 8 (nmemb*size)", len(b))
	}
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, v)
		}
	}
}
