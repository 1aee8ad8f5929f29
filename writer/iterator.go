package writer

// listIterator is a bidirectional cursor over an immutable snapshot of a
// slice. The snapshot is copied at construction, so mutation of the source
// slice never perturbs an iteration already in progress.
type listIterator[T any] struct {
	elements []T
	cursor   int
}

func newListIterator[T any](elements []T) *listIterator[T] {
	snapshot := make([]T, len(elements))
	copy(snapshot, elements)
	return &listIterator[T]{elements: snapshot}
}

// HasNext reports whether more elements exist in the forward direction.
func (it *listIterator[T]) HasNext() bool {
	return it.cursor != len(it.elements)
}

// HasPrevious reports whether more elements exist in the backward direction.
func (it *listIterator[T]) HasPrevious() bool {
	return it.cursor != 0
}

// NextIndex returns the index that Next would return, or len(elements) if no
// next element exists.
func (it *listIterator[T]) NextIndex() int {
	return it.cursor
}

// PreviousIndex returns the index that Previous would return, or -1 if no
// previous element exists.
func (it *listIterator[T]) PreviousIndex() int {
	return it.cursor - 1
}

// Next returns the next element and moves the cursor forward. The second
// return value is false when no next element exists.
func (it *listIterator[T]) Next() (T, bool) {
	if it.cursor >= len(it.elements) {
		var zero T
		return zero, false
	}
	element := it.elements[it.cursor]
	it.cursor++
	return element, true
}

// Previous returns the previous element and moves the cursor backward. The
// second return value is false when no previous element exists.
func (it *listIterator[T]) Previous() (T, bool) {
	if it.cursor <= 0 {
		var zero T
		return zero, false
	}
	it.cursor--
	return it.elements[it.cursor], true
}
