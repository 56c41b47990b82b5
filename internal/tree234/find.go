package tree234

type Relation uint8

const (
	Eq Relation = iota
	Lt
	Le
	Gt
	Ge
)

/*
FindRelPos looks for the element standing in the given relation to e and
returns it together with its index. With Eq it finds an equal element;
with Lt/Le the greatest element below (or equal to) e; with Gt/Ge the
least element above (or equal to) e. A nil e with Lt or Gt selects the
last or the first element respectively. Returns (nil, -1) on failure.
*/
func (t *Tree234[T]) FindRelPos(e *T, relation Relation) (*T, int) {
	if t.root == nil {
		return nil, -1
	}

	cmp := func(el *T) int { return t.cmp(e, el) }
	if e == nil {
		switch relation {
		case Lt:
			cmp = func(*T) int { return +1 }
		case Gt:
			cmp = func(*T) int { return -1 }
		default:
			return nil, -1
		}
	}

	var (
		n     = t.root
		idx   = 0
		found = false
	)
	for n != nil && !found {
		ki := 0
		for ; ki < 3 && n.elems[ki] != nil; ki++ {
			c := cmp(n.elems[ki])
			if c < 0 {
				break
			}
			idx += n.counts[ki]
			if c == 0 {
				found = true
				break
			}
			idx++
		}
		if !found {
			n = n.kids[ki]
		}
	}

	switch {
	case found && (relation == Eq || relation == Le || relation == Ge):
		return t.Index(idx), idx
	case found && relation == Lt:
		idx--
	case found && relation == Gt:
		idx++
	case relation == Eq:
		return nil, -1
	case relation == Lt || relation == Le:
		/*
		 * idx is where e would be inserted; the element before that
		 * is the one we want.
		 */
		idx--
	}

	el := t.Index(idx)
	if el == nil {
		return nil, -1
	}
	return el, idx
}

// Find returns the element equal to e, or nil.
func (t *Tree234[T]) Find(e *T) *T {
	el, _ := t.FindRelPos(e, Eq)
	return el
}
