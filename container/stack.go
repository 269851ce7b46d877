package container

// Stack is a LIFO stack with a fixed maximum depth. Push fails instead of growing past the limit.
type Stack[T any] struct {
	items []T
	max   int
}

// NewStack returns a stack that holds at most max elements.
func NewStack[T any](max int) *Stack[T] {
	if max < 0 {
		max = 0
	}
	return &Stack[T]{
		items: make([]T, 0, max),
		max:   max,
	}
}

// Push pushes v and reports whether there was room for it.
func (s *Stack[T]) Push(v T) bool {
	if len(s.items) >= s.max {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Pop removes and returns the top element. ok is false if the stack is empty.
func (s *Stack[T]) Pop() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	v = s.items[len(s.items)-1]
	var zero T
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return v, true
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the current depth.
func (s *Stack[T]) Len() int { return len(s.items) }

// Cap returns the maximum depth.
func (s *Stack[T]) Cap() int { return s.max }

func (s *Stack[T]) Reset() {
	clear(s.items)
	s.items = s.items[:0]
}
