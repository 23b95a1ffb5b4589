package circularbuffer

import "sync"

// CircularBuffer keeps the most recent size elements pushed into it.
type CircularBuffer[T any] struct {
	values   []T
	position int
	full     bool
	mu       sync.Mutex
}

func New[T any](size int) *CircularBuffer[T] {
	if size < 1 {
		size = 1
	}

	return &CircularBuffer[T]{
		values:   make([]T, size),
		position: 0,
	}
}

func (cb *CircularBuffer[T]) Push(element T) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.values[cb.position] = element
	cb.position++

	if cb.position >= len(cb.values) {
		cb.position = 0
		cb.full = true
	}
}

// Each iterates over all elements in the buffer in the order they were inserted
func (cb *CircularBuffer[T]) Each(fn func(T)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.each(fn)
}

func (cb *CircularBuffer[T]) each(fn func(T)) {
	if !cb.full {
		for _, v := range cb.values[:cb.position] {
			fn(v)
		}
		return
	}

	i := cb.position
	for n := 0; n < len(cb.values); n++ {
		fn(cb.values[i])

		i++
		if i >= len(cb.values) {
			i = 0
		}
	}
}

// Slice returns a copy of the elements, oldest first.
func (cb *CircularBuffer[T]) Slice() []T {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	out := make([]T, 0, cb.len())
	cb.each(func(v T) {
		out = append(out, v)
	})
	return out
}

func (cb *CircularBuffer[T]) Len() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.len()
}

func (cb *CircularBuffer[T]) len() int {
	if cb.full {
		return len(cb.values)
	}
	return cb.position
}

func (cb *CircularBuffer[T]) Cap() int {
	return len(cb.values)
}
