// Package data turns inline log rows into a scan-once tabular batch: columns
// mapped to curves, index values normalized to the raw representation, and
// per-mnemonic index bounds folded during the scan.
package data

// Point is one sample value positioned on the shared index. Index carries
// the raw representation: depth in the index curve's unit, or unix
// microseconds for time-indexed logs.
type Point struct {
	Mnemonic string
	Index    float64
	Value    string
}

// Iterator streams values of T.
type Iterator[T any] interface {
	// Next advances to the next value. Returns false when done or on error.
	Next() bool

	// Value returns the current value. Only valid after Next() returns true.
	Value() T

	// Err returns any error encountered during iteration.
	Err() error

	// Close releases resources. Must be called when done.
	Close() error
}

// sliceIterator implements Iterator over an in-memory slice.
type sliceIterator[T any] struct {
	items []T
	pos   int
}

func (it *sliceIterator[T]) Next() bool {
	if it.pos >= len(it.items) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator[T]) Value() T     { return it.items[it.pos-1] }
func (it *sliceIterator[T]) Err() error   { return nil }
func (it *sliceIterator[T]) Close() error { return nil }

// NewSliceIterator wraps a slice in the Iterator contract.
func NewSliceIterator[T any](items []T) Iterator[T] {
	return &sliceIterator[T]{items: items}
}
