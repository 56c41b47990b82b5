package tree234

import (
	"fmt"
	"strings"
)

type node[T any] struct {
	parent *node[T]
	kids   [4]*node[T]
	counts [4]int
	elems  [3]*T
}

func (n *node[T]) leaf() bool {
	return n.kids[0] == nil
}

// size is the number of elements held directly in n.
func (n *node[T]) size() (s int) {
	if n == nil {
		return
	}
	for s < 3 && n.elems[s] != nil {
		s++
	}
	return
}

// count is the number of elements in the subtree rooted at n.
func (n *node[T]) count() (c int) {
	if n == nil {
		return
	}
	for _, k := range n.counts {
		c += k
	}
	return c + n.size()
}

func (n *node[T]) childIndex() int {
	if n == nil || n.parent == nil {
		return -1
	}
	for i, kid := range n.parent.kids {
		if kid == n {
			return i
		}
	}
	return -1
}

func (n *node[T]) adopt() {
	for _, kid := range n.kids {
		if kid != nil {
			kid.parent = n
		}
	}
}

// node implements [fmt.Stringer]
func (n *node[T]) String() string {
	if n == nil {
		return "<nil>"
	}
	var parts []string
	for i := range 4 {
		if n.kids[i] != nil || n.counts[i] > 0 {
			parts = append(parts, fmt.Sprintf("%s(%d)", n.kids[i], n.counts[i]))
		}
		if i < 3 && n.elems[i] != nil {
			parts = append(parts, fmt.Sprintf("%v", *n.elems[i]))
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

/*
rotateRight moves one element and one subtree from child ki to child ki+1,
passing the separating element through n. The source must have an element
to spare and the destination must not be full. k and index, if given, are
updated to keep pointing at the same element.

	    . C .                   . B .
	   /     \        ->       /     \
	a A b B c   d           a A b   c C d
*/
func (n *node[T]) rotateRight(ki int, k, index *int) {
	src, dest := n.kids[ki], n.kids[ki+1]

	copy(dest.kids[1:], dest.kids[:3])
	copy(dest.counts[1:], dest.counts[:3])
	copy(dest.elems[1:], dest.elems[:2])

	last := src.size() - 1

	dest.elems[0] = n.elems[ki]
	n.elems[ki] = src.elems[last]
	src.elems[last] = nil

	dest.kids[0] = src.kids[last+1]
	dest.counts[0] = src.counts[last+1]
	src.kids[last+1] = nil
	src.counts[last+1] = 0
	if dest.kids[0] != nil {
		dest.kids[0].parent = dest
	}

	moved := dest.counts[0] + 1
	n.counts[ki] -= moved
	n.counts[ki+1] += moved

	if k == nil {
		return
	}
	if *k == ki && *index > n.counts[ki] {
		*index -= n.counts[ki] + 1
		*k++
	} else if *k == ki+1 {
		*index += moved
	}
}

/*
rotateLeft is the mirror of rotateRight: it moves one element and one
subtree from child ki to child ki-1.

	  . A .                   . B .
	 /     \        ->       /     \
	a   b B c C d         a A b   c C d
*/
func (n *node[T]) rotateLeft(ki int, k, index *int) {
	src, dest := n.kids[ki], n.kids[ki-1]

	at := dest.size()
	dest.elems[at] = n.elems[ki-1]
	n.elems[ki-1] = src.elems[0]

	dest.kids[at+1] = src.kids[0]
	dest.counts[at+1] = src.counts[0]
	if dest.kids[at+1] != nil {
		dest.kids[at+1].parent = dest
	}

	copy(src.kids[:3], src.kids[1:])
	copy(src.counts[:3], src.counts[1:])
	copy(src.elems[:2], src.elems[1:])
	src.kids[3], src.counts[3], src.elems[2] = nil, 0, nil

	moved := dest.counts[at+1] + 1
	n.counts[ki] -= moved
	n.counts[ki-1] += moved

	if k != nil && *k == ki {
		*index -= moved
		if *index < 0 {
			*index += n.counts[ki-1] + 1
			*k--
		}
	}
}

/*
merge joins children ki and ki+1 of n, pulling their separator down.
Both children must be small enough for the result to fit in one node.

	  . B .                 .
	 /     \       ->       |
	a A b   c C d     a A b B c C d
*/
func (n *node[T]) merge(ki int, k, index *int) {
	left, right := n.kids[ki], n.kids[ki+1]
	leftCount, rightCount := n.counts[ki], n.counts[ki+1]
	lsize, rsize := left.size(), right.size()

	if lsize+rsize+1 > 3 {
		Log.WithField("node", n).Fatal("merge of oversized children")
	}

	left.elems[lsize] = n.elems[ki]
	for i := 0; i <= rsize; i++ {
		left.kids[lsize+1+i] = right.kids[i]
		left.counts[lsize+1+i] = right.counts[i]
		if i < rsize {
			left.elems[lsize+1+i] = right.elems[i]
		}
	}
	left.adopt()

	n.counts[ki] += rightCount + 1
	copy(n.kids[ki+1:], n.kids[ki+2:])
	copy(n.counts[ki+1:], n.counts[ki+2:])
	copy(n.elems[ki:], n.elems[ki+1:])
	n.kids[3], n.counts[3], n.elems[2] = nil, 0, nil

	if k == nil {
		return
	}
	if *k == ki+1 {
		*k--
		*index += leftCount + 1
	} else if *k > ki+1 {
		*k--
	}
}
