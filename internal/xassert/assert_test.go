package xassert

import "testing"

func TestTrueDoesNotExitWhenConditionHolds(t *testing.T) {
	called := false
	orig := Logger.ExitFunc
	Logger.ExitFunc = func(int) { called = true }
	defer func() { Logger.ExitFunc = orig }()

	True(1+1 == 2, "unreachable")

	if called {
		t.Fatal("True called ExitFunc for a true condition")
	}
}

func TestTrueExitsWhenConditionFails(t *testing.T) {
	var code int
	called := false
	orig := Logger.ExitFunc
	Logger.ExitFunc = func(c int) { called = true; code = c }
	defer func() { Logger.ExitFunc = orig }()

	True(1 == 2, "expected failure: %d != %d", 1, 2)

	if !called {
		t.Fatal("True did not call ExitFunc for a false condition")
	}
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}
