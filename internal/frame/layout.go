package frame

import (
	"encoding/binary"
	"sort"
	"unsafe"
)

// Field names as reported by Describe.
const (
	FieldBuffer = "buffer"
	FieldLength = "length"
	FieldNum    = "num"
	FieldGuard  = "guard"
)

// Offsets and sizes are compile-time constants.
const (
	OffsetBuffer = int(unsafe.Offsetof(Frame{}.buffer))
	OffsetLength = int(unsafe.Offsetof(Frame{}.length))
	OffsetNum    = int(unsafe.Offsetof(Frame{}.num))
	OffsetGuard  = int(unsafe.Offsetof(Frame{}.guard))

	SizeLength = int(unsafe.Sizeof(Frame{}.length))
	SizeNum    = int(unsafe.Sizeof(Frame{}.num))
	SizeGuard  = int(unsafe.Sizeof(Frame{}.guard))

	// Size is the total extent of a Frame. No write may reach Size.
	Size  = int(unsafe.Sizeof(Frame{}))
	Align = int(unsafe.Alignof(Frame{}))

	// PaddingSize is the alignment gap between buffer and length.
	PaddingSize = OffsetLength - (OffsetBuffer + BufferSize)
)

// ByteOrder is the order in which corrupted bytes are reinterpreted as
// integers. Only little-endian targets build this package.
var ByteOrder = binary.LittleEndian

// A drifted layout is a build failure, not a runtime condition: each index
// below is out of range unless the constant matches the reference layout.
func _() {
	var x [1]struct{}
	_ = x[OffsetBuffer-0]
	_ = x[OffsetLength-8]
	_ = x[OffsetNum-12]
	_ = x[OffsetGuard-16]
	_ = x[SizeLength-4]
	_ = x[SizeNum-4]
	_ = x[SizeGuard-4]
	_ = x[PaddingSize-3]
	_ = x[Size-20]
	_ = x[Size-(BufferSize+PaddingSize+SizeLength+SizeNum+SizeGuard)]
}

// Field is one named byte range of the Frame.
type Field struct {
	Name   string
	Offset int
	Size   int
	// Watched marks the fields safe code depends on (length, num, guard).
	Watched bool
}

// End returns the exclusive end offset of the field.
func (f Field) End() int { return f.Offset + f.Size }

// Contains reports whether the byte at off belongs to the field.
func (f Field) Contains(off int) bool {
	return off >= f.Offset && off < f.End()
}

// Layout is the byte layout of a Frame.
type Layout struct {
	Size   int
	Align  int
	Fields []Field
}

// Describe returns the Frame layout. The result is identical on every call.
func Describe() Layout {
	return Layout{
		Size:  Size,
		Align: Align,
		Fields: []Field{
			{Name: FieldBuffer, Offset: OffsetBuffer, Size: BufferSize},
			{Name: FieldLength, Offset: OffsetLength, Size: SizeLength, Watched: true},
			{Name: FieldNum, Offset: OffsetNum, Size: SizeNum, Watched: true},
			{Name: FieldGuard, Offset: OffsetGuard, Size: SizeGuard, Watched: true},
		},
	}
}

// Field looks a field up by name.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldAt returns the field owning the byte at off. ok is false for padding
// and for offsets outside the frame.
func (l Layout) FieldAt(off int) (Field, bool) {
	for _, f := range l.Fields {
		if f.Contains(off) {
			return f, true
		}
	}
	return Field{}, false
}

// Padding returns the number of bytes not owned by any field.
func (l Layout) Padding() int {
	used := 0
	for _, f := range l.Fields {
		used += f.Size
	}
	return l.Size - used
}

// Watched reports whether the byte at off belongs to a watched field.
func (l Layout) Watched(off int) bool {
	f, ok := l.FieldAt(off)
	return ok && f.Watched
}

// Boundaries returns the offsets where a new region (field or padding) starts,
// excluding offset 0.
func (l Layout) Boundaries() []int {
	out := make([]int, 0, 2*len(l.Fields))
	seen := make(map[int]bool, 2*len(l.Fields))
	add := func(off int) {
		if off <= 0 || off >= l.Size || seen[off] {
			return
		}
		seen[off] = true
		out = append(out, off)
	}
	for _, f := range l.Fields {
		add(f.Offset)
		add(f.End())
	}
	sort.Ints(out)
	return out
}
