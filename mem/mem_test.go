package mem

import "testing"

func TestBucketSlicePointersAreStable(t *testing.T) {
	var l BucketSlice[int]
	first := l.Append(1)
	for i := 2; i <= 3*bucketSize; i++ {
		l.Append(i)
	}
	if *first != 1 || l.Ptr(0) != first {
		t.Fatal("first element moved while growing")
	}
	if l.Len() != 3*bucketSize {
		t.Errorf("got length %d, want %d", l.Len(), 3*bucketSize)
	}
	for i := 0; i < l.Len(); i++ {
		if got := *l.Ptr(i); got != i+1 {
			t.Fatalf("element %d is %d, want %d", i, got, i+1)
		}
	}
}

func TestBucketSliceReset(t *testing.T) {
	var l BucketSlice[[]byte]
	p := l.Append(make([]byte, 0, 16))
	*p = append(*p, 'x')
	l.Reset()
	if l.Len() != 0 {
		t.Fatalf("got length %d after reset", l.Len())
	}
	// Grow hands out the old element, including its allocation.
	if q := l.Grow(); q != p || cap(*q) != 16 {
		t.Errorf("Grow didn't reuse the existing element")
	}
}
