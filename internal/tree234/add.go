package tree234

import "github.com/sirupsen/logrus"

/*
insert places the triple (left, e, right) into n at child position ki,
replacing the single subtree that used to live there. A full node is split
into a 3-node and a 2-node and the middle element moves up a level, so the
overflow propagates towards the root until it is absorbed.
*/
func (t *Tree234[T]) insert(left *node[T], e *T, right *node[T], n *node[T], ki int) {
	log := Log.WithFields(logrus.Fields{"op": "insert", "element": e, "ki": ki})

	for n != nil {
		size := n.size()
		if size < 3 {
			copy(n.elems[ki+1:], n.elems[ki:size])
			copy(n.kids[ki+2:], n.kids[ki+1:size+1])
			copy(n.counts[ki+2:], n.counts[ki+1:size+1])
			n.elems[ki] = e
			n.kids[ki], n.counts[ki] = left, left.count()
			n.kids[ki+1], n.counts[ki+1] = right, right.count()
			n.adopt()

			log.WithField("node", n).Debug("absorbed")

			for ; n.parent != nil; n = n.parent {
				n.parent.counts[n.childIndex()] = n.count()
			}
			return
		}

		/*
		 * Full node: lay out the four elements and five subtrees in
		 * order, then keep the first three subtrees in a new node m
		 * and the last two in n.
		 */
		var (
			elems [4]*T
			kids  [5]*node[T]
		)
		copy(elems[:ki], n.elems[:ki])
		elems[ki] = e
		copy(elems[ki+1:], n.elems[ki:])
		copy(kids[:ki], n.kids[:ki])
		kids[ki], kids[ki+1] = left, right
		copy(kids[ki+2:], n.kids[ki+1:])

		m := &node[T]{parent: n.parent}
		m.elems[0], m.elems[1] = elems[0], elems[1]
		for i := range 3 {
			m.kids[i], m.counts[i] = kids[i], kids[i].count()
		}
		m.adopt()

		*n = node[T]{parent: n.parent}
		n.elems[0] = elems[3]
		n.kids[0], n.counts[0] = kids[3], kids[3].count()
		n.kids[1], n.counts[1] = kids[4], kids[4].count()
		n.adopt()

		log.WithFields(logrus.Fields{"left": m, "right": n}).Debug("split")

		left, e, right = m, elems[2], n
		if n.parent != nil {
			ki = n.childIndex()
		}
		n = n.parent
	}

	t.root = &node[T]{elems: [3]*T{e}}
	t.root.kids[0], t.root.counts[0] = left, left.count()
	t.root.kids[1], t.root.counts[1] = right, right.count()
	t.root.adopt()

	log.WithField("root", t.root).Debug("new root")
}

/*
Add inserts e into the tree. It returns e on success, or the element
already present if one compares equal.
*/
func (t *Tree234[T]) Add(e *T) *T {
	if t.root == nil {
		t.root = &node[T]{elems: [3]*T{e}}
		return e
	}

	n, ki := t.root, 0
	for {
		ki = 0
		for ; ki < 3 && n.elems[ki] != nil; ki++ {
			c := t.cmp(e, n.elems[ki])
			if c == 0 {
				return n.elems[ki]
			}
			if c < 0 {
				break
			}
		}
		if n.leaf() {
			break
		}
		n = n.kids[ki]
	}

	t.insert(nil, e, nil, n, ki)
	return e
}
