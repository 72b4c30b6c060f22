package frame

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func TestNewFrameInitialState(t *testing.T) {
	f := New()
	if got := f.Length(); got != 5 {
		t.Fatalf("Length() = %d, want 5", got)
	}
	if got := f.Num(); got != 40000 {
		t.Fatalf("Num() = %d, want 40000", got)
	}
	if got := f.Guard(); got != 0xDEADBEEF {
		t.Fatalf("Guard() = %#x, want 0xDEADBEEF", got)
	}
	for i, b := range f.Buffer() {
		if b != 0 {
			t.Fatalf("buffer[%d] = %d, want 0", i, b)
		}
	}
	if !f.Pristine() {
		t.Fatalf("fresh frame should be pristine")
	}
}

func TestBufferIsBoundsChecked(t *testing.T) {
	buf := New().Buffer()
	if len(buf) != BufferSize || cap(buf) != BufferSize {
		t.Fatalf("Buffer() len=%d cap=%d, want %d/%d", len(buf), cap(buf), BufferSize, BufferSize)
	}
}

func TestReferenceLayout(t *testing.T) {
	l := Describe()
	if l.Size != 20 {
		t.Fatalf("Size = %d, want 20", l.Size)
	}
	if l.Padding() != 3 {
		t.Fatalf("Padding() = %d, want 3", l.Padding())
	}
	want := []Field{
		{Name: FieldBuffer, Offset: 0, Size: 5},
		{Name: FieldLength, Offset: 8, Size: 4, Watched: true},
		{Name: FieldNum, Offset: 12, Size: 4, Watched: true},
		{Name: FieldGuard, Offset: 16, Size: 4, Watched: true},
	}
	if !reflect.DeepEqual(l.Fields, want) {
		t.Fatalf("Fields = %+v, want %+v", l.Fields, want)
	}
}

func TestLayoutIsDeterministic(t *testing.T) {
	first := Describe()
	for i := 0; i < 10; i++ {
		if got := Describe(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: layout %+v differs from %+v", i, got, first)
		}
	}
}

func TestFieldsAreDisjoint(t *testing.T) {
	l := Describe()
	owner := make([]string, l.Size)
	for _, f := range l.Fields {
		if f.End() > l.Size {
			t.Fatalf("field %s ends at %d beyond size %d", f.Name, f.End(), l.Size)
		}
		for off := f.Offset; off < f.End(); off++ {
			if owner[off] != "" {
				t.Fatalf("byte %d owned by %s and %s", off, owner[off], f.Name)
			}
			owner[off] = f.Name
		}
	}
}

func TestFieldAt(t *testing.T) {
	l := Describe()
	cases := []struct {
		off  int
		name string
		ok   bool
	}{
		{0, FieldBuffer, true},
		{4, FieldBuffer, true},
		{5, "", false},
		{7, "", false},
		{8, FieldLength, true},
		{11, FieldLength, true},
		{12, FieldNum, true},
		{19, FieldGuard, true},
		{20, "", false},
	}
	for _, tc := range cases {
		f, ok := l.FieldAt(tc.off)
		if ok != tc.ok || f.Name != tc.name {
			t.Errorf("FieldAt(%d) = %q,%v want %q,%v", tc.off, f.Name, ok, tc.name, tc.ok)
		}
	}
	if l.Watched(3) {
		t.Errorf("buffer byte must not be watched")
	}
	if !l.Watched(17) {
		t.Errorf("guard byte must be watched")
	}
}

func TestBoundaries(t *testing.T) {
	got := Describe().Boundaries()
	want := []int{5, 8, 12, 16}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Boundaries() = %v, want %v", got, want)
	}
}

func TestHostIsLittleEndian(t *testing.T) {
	probe := []byte{0x01, 0x02}
	if binary.NativeEndian.Uint16(probe) != ByteOrder.Uint16(probe) {
		t.Fatalf("host byte order differs from ByteOrder")
	}
}
