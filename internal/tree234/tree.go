// Package tree234 is a counted 2-3-4 tree: an ordered container that also
// supports lookup and deletion by numeric index.
package tree234

import (
	"iter"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// CompareFunc orders elements; it returns a negative number when x < y,
// zero when they are equal and a positive number when x > y.
type CompareFunc[T any] func(x, y *T) int

type Tree234[T any] struct {
	root *node[T]
	cmp  CompareFunc[T]
}

func New[T any](cmp CompareFunc[T]) *Tree234[T] {
	return &Tree234[T]{cmp: cmp}
}

// Tree234 implements [fmt.Stringer]
func (t *Tree234[T]) String() string {
	return t.root.String()
}

func (t *Tree234[T]) Count() int {
	return t.root.count()
}

/*
Index returns the element at position index in sorted order, or nil if
index is out of range.
*/
func (t *Tree234[T]) Index(index int) *T {
	if index < 0 || index >= t.Count() {
		return nil
	}
	n := t.root
	for n != nil {
		ki := 0
		for ; ki < 3; ki++ {
			if index < n.counts[ki] {
				break
			}
			index -= n.counts[ki]
			if n.elems[ki] == nil {
				break
			}
			if index == 0 {
				return n.elems[ki]
			}
			index--
		}
		n = n.kids[ki]
	}
	return nil
}

// All yields every element in sorted order.
func (t *Tree234[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		i := 0
		var walk func(n *node[T]) bool
		walk = func(n *node[T]) bool {
			if n == nil {
				return true
			}
			for ki := range 4 {
				if !walk(n.kids[ki]) {
					return false
				}
				if ki == 3 || n.elems[ki] == nil {
					break
				}
				if !yield(i, n.elems[ki]) {
					return false
				}
				i++
			}
			return true
		}
		walk(t.root)
	}
}
