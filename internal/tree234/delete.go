package tree234

import "github.com/sirupsen/logrus"

/*
deletePos removes the element at index. On the way down every node we
descend into is grown to at least two elements, borrowing from a sibling
or merging with one, so the final removal from a leaf never underflows.
*/
func (t *Tree234[T]) deletePos(index int) *T {
	var (
		n   = t.root
		res *T
		ki  int
	)

	Log.WithFields(logrus.Fields{"op": "delete", "index": index}).Debug("deleting")

	for {
		for ki = 0; ki < 3; ki++ {
			if index <= n.counts[ki] {
				break
			}
			index -= n.counts[ki] + 1
		}

		if n.leaf() {
			break
		}

		/*
		 * The target is an element of this internal node. Replace it
		 * with its successor, which lives at the far left of the next
		 * subtree, and go on to delete the successor's leaf copy.
		 */
		if index == n.counts[ki] {
			if n.elems[ki] == nil {
				Log.WithField("node", n).Fatal("index points past the last element")
			}
			ki++
			index = 0
			m := n.kids[ki]
			for !m.leaf() {
				m = m.kids[0]
			}
			res = n.elems[ki-1]
			n.elems[ki-1] = m.elems[0]
		}

		sub := n.kids[ki]
		if sub.size() == 1 {
			switch {
			case ki > 0 && n.kids[ki-1].size() > 1:
				n.rotateRight(ki-1, &ki, &index)
			case ki < 3 && n.kids[ki+1] != nil && n.kids[ki+1].size() > 1:
				n.rotateLeft(ki+1, &ki, &index)
			default:
				if ki > 0 {
					n.merge(ki-1, &ki, &index)
				} else {
					n.merge(ki, &ki, &index)
				}
				sub = n.kids[ki]
				if n.elems[0] == nil {
					// the root gave its only element to the merge
					t.root = sub
					sub.parent = nil
					n = nil
				}
			}
		}

		if n != nil {
			n.counts[ki]--
		}
		n = sub
	}

	if res == nil {
		res = n.elems[ki]
	}
	copy(n.elems[ki:], n.elems[ki+1:])
	n.elems[2] = nil

	if n.elems[0] == nil {
		if n != t.root {
			Log.WithField("node", n).Fatal("emptied a non-root leaf")
		}
		t.root = nil
	}

	return res
}

// DeletePos removes and returns the element at index, or nil if index is
// out of range.
func (t *Tree234[T]) DeletePos(index int) *T {
	if index < 0 || index >= t.Count() {
		return nil
	}
	return t.deletePos(index)
}

// Delete removes the element comparing equal to e and returns it, or nil
// if there is none.
func (t *Tree234[T]) Delete(e *T) *T {
	el, index := t.FindRelPos(e, Eq)
	if el == nil {
		return nil
	}
	return t.deletePos(index)
}
