// Package mem contains allocation helpers for per-frame drawing state.
package mem

import (
	"gioui.org/op"
)

const bucketSize = 64

// BucketSlice is like a slice, but grows one bucket at a time. Pointers returned by Grow and Append stay valid until
// Reset, which makes it suitable for values that other values point into, such as clip.Path and its op.Ops.
type BucketSlice[T any] struct {
	n       int
	buckets [][]T
}

// Grow grows the slice by one and returns a pointer to the new element, without overwriting it. Elements left over
// from before the last Reset are reused as they are.
func (l *BucketSlice[T]) Grow() *T {
	a, _ := l.index(l.n)
	if a >= len(l.buckets) {
		l.buckets = append(l.buckets, make([]T, 0, bucketSize))
	}
	l.buckets[a] = l.buckets[a][:len(l.buckets[a])+1]
	l.n++
	return &l.buckets[a][len(l.buckets[a])-1]
}

// Append appends v to the slice and returns a pointer to the new element.
func (l *BucketSlice[T]) Append(v T) *T {
	ptr := l.Grow()
	*ptr = v
	return ptr
}

func (l *BucketSlice[T]) index(i int) (int, int) {
	return i / bucketSize, i % bucketSize
}

func (l *BucketSlice[T]) Ptr(i int) *T {
	a, b := l.index(i)
	return &l.buckets[a][b]
}

func (l *BucketSlice[T]) Len() int {
	return l.n
}

// Reset empties the slice but keeps its buckets.
func (l *BucketSlice[T]) Reset() {
	for i := range l.buckets {
		l.buckets[i] = l.buckets[i][:0]
	}
	l.n = 0
}

// ReusableOps is an op.Ops that is reset each time it is requested.
type ReusableOps struct {
	ops op.Ops
}

// Get resets and returns the op.Ops.
func (rops *ReusableOps) Get() *op.Ops {
	rops.ops.Reset()
	return &rops.ops
}
