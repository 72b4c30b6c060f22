package consumer

import (
	"runtime"
	"strings"
	"testing"

	"canary/internal/corrupt"
	"canary/internal/frame"
)

func TestSumPrefixValidLength(t *testing.T) {
	f := frame.New()
	plan, err := corrupt.Sequential(frame.BufferSize)
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	eng := corrupt.NewEngine(f, plan)
	for !eng.Done() {
		eng.Next()
	}
	if got := SumPrefix(f); got != 0+1+2+3+4 {
		t.Fatalf("SumPrefix = %d, want 10", got)
	}
}

func TestSumPrefixPanicsOnCorruptLength(t *testing.T) {
	f := frame.New()
	plan, err := corrupt.Sequential(frame.OffsetLength + 1)
	if err != nil {
		t.Fatalf("Sequential: %v", err)
	}
	eng := corrupt.NewEngine(f, plan)
	for !eng.Done() {
		eng.Next()
	}
	if f.Length() != 8 {
		t.Fatalf("length = %d, want 8", f.Length())
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("SumPrefix did not panic with length 8")
		}
		re, ok := r.(runtime.Error)
		if !ok {
			t.Fatalf("panic %v is not a runtime.Error", r)
		}
		if !strings.Contains(re.Error(), "out of range") {
			t.Fatalf("unexpected runtime error: %v", re)
		}
	}()
	SumPrefix(f)
}
