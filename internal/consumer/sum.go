// Package consumer holds ordinary, bounds-checked code that trusts the
// frame's length field.
package consumer

import "canary/internal/frame"

// SumPrefix returns the sum of the first length bytes of the buffer.
//
// It does not validate length. When length exceeds the buffer, the slice
// expression panics with a runtime bounds error; that panic is the only
// failure path.
func SumPrefix(f *frame.Frame) uint64 {
	n := int(f.Length())
	var sum uint64
	for _, b := range f.Buffer()[:n] {
		sum += uint64(b)
	}
	return sum
}
