package frame

import (
	"sync/atomic"
	"unsafe"
)

// BufferSize is the declared capacity of the frame buffer.
const BufferSize = 5

// Initial field values of a fresh Frame.
const (
	InitialLength uint32 = BufferSize
	InitialNum    int32  = 40_000
	InitialGuard  uint32 = 0xDEAD_BEEF
)

// Frame is the single fixed-layout allocation a run corrupts.
//
// Memory layout (bytes):
//   - Offset 0-4:   buffer
//   - Offset 5-7:   padding (alignment of length)
//   - Offset 8-11:  length
//   - Offset 12-15: num
//   - Offset 16-19: guard
//
// length, num and guard are atomic cells because their bytes change through
// raw writes the compiler has no access path for. Every read of them is an
// atomic load and can never be served from a register or a stale value.
//
// A Frame must not be copied.
type Frame struct {
	buffer [BufferSize]byte
	length atomic.Uint32
	num    atomic.Int32
	guard  atomic.Uint32
}

// New allocates a Frame in its valid initial state: zeroed buffer,
// length == BufferSize, num == 40000, guard == 0xDEADBEEF.
func New() *Frame {
	f := new(Frame)
	f.length.Store(InitialLength)
	f.num.Store(InitialNum)
	f.guard.Store(InitialGuard)
	return f
}

// Base returns the address of the first byte of the frame.
func (f *Frame) Base() unsafe.Pointer {
	return unsafe.Pointer(f)
}

// Buffer returns the frame buffer as a bounds-checked slice (len == cap == BufferSize).
func (f *Frame) Buffer() []byte {
	return f.buffer[:]
}

// Length loads the length cell.
func (f *Frame) Length() uint32 {
	return f.length.Load()
}

// Num loads the num cell.
func (f *Frame) Num() int32 {
	return f.num.Load()
}

// Guard loads the guard sentinel.
func (f *Frame) Guard() uint32 {
	return f.guard.Load()
}

// Pristine reports whether length, num and guard still hold their initial values.
func (f *Frame) Pristine() bool {
	return f.Length() == InitialLength && f.Num() == InitialNum && f.Guard() == InitialGuard
}
