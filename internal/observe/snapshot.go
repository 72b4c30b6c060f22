package observe

import (
	"sync/atomic"
	"unsafe"

	"canary/internal/corrupt"
	"canary/internal/frame"
)

// The image is read as aligned 32-bit words.
func _() {
	var x [1]struct{}
	_ = x[frame.Size%4]
	_ = x[frame.Align-4]
}

// Snapshot is a forced-fresh reading of the tracked fields, taken right
// after one write step.
type Snapshot struct {
	Step    corrupt.WriteStep
	Initial bool // taken before any write

	Length uint32
	Num    int32
	Guard  uint32

	// Image holds every byte of the frame at the time of the reading.
	Image [frame.Size]byte
}

// Change is a set of tracked fields whose value differs between two snapshots.
type Change uint8

const (
	ChangedLength Change = 1 << iota
	ChangedNum
	ChangedGuard
)

// Has reports whether c includes every field of x.
func (c Change) Has(x Change) bool { return c&x == x }

// Initial reads the frame before the first write.
func Initial(f *frame.Frame) Snapshot {
	s := read(f)
	s.Initial = true
	return s
}

// Take reads the frame after step has been written. The caller must not
// call Take until the write for step has returned.
func Take(f *frame.Frame, step corrupt.WriteStep) Snapshot {
	s := read(f)
	s.Step = step
	return s
}

func read(f *frame.Frame) Snapshot {
	return Snapshot{
		Length: f.Length(),
		Num:    f.Num(),
		Guard:  f.Guard(),
		Image:  readImage(f),
	}
}

// readImage loads the whole frame as five atomic word loads, so the byte
// image is never assembled from cached values either.
//
//go:noinline
func readImage(f *frame.Frame) (img [frame.Size]byte) {
	base := f.Base()
	for off := 0; off < frame.Size; off += 4 {
		w := atomic.LoadUint32((*uint32)(unsafe.Add(base, off)))
		frame.ByteOrder.PutUint32(img[off:], w)
	}
	return img
}

// Changed returns the tracked fields that differ from prev.
func (s Snapshot) Changed(prev Snapshot) Change {
	var c Change
	if s.Length != prev.Length {
		c |= ChangedLength
	}
	if s.Num != prev.Num {
		c |= ChangedNum
	}
	if s.Guard != prev.Guard {
		c |= ChangedGuard
	}
	return c
}

// Diff returns the offsets of bytes that differ from prev, in ascending order.
func (s Snapshot) Diff(prev Snapshot) []int {
	var out []int
	for i := range s.Image {
		if s.Image[i] != prev.Image[i] {
			out = append(out, i)
		}
	}
	return out
}

// Consistent reports whether the field readings agree with the byte image.
func (s Snapshot) Consistent() bool {
	bo := frame.ByteOrder
	return s.Length == bo.Uint32(s.Image[frame.OffsetLength:]) &&
		uint32(s.Num) == bo.Uint32(s.Image[frame.OffsetNum:]) &&
		s.Guard == bo.Uint32(s.Image[frame.OffsetGuard:])
}
