package untangle

import (
	"fmt"
	"strings"
)

// Update moves one vertex to a new position.
type Update struct {
	Index int
	Point Point
}

/*
Move is a parsed move string: an optional solve marker followed by any
number of point updates, applied together.
*/
type Move struct {
	Solve   bool
	Updates []Update
}

// Move implements [fmt.Stringer]
func (m Move) String() string {
	var sb strings.Builder
	if m.Solve {
		sb.WriteByte('S')
	}
	for _, u := range m.Updates {
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "P%d:%s", u.Index, u.Point)
	}
	return sb.String()
}

/*
ParseMove reads a move for a puzzle of n points:

	[S[;]]P<i>:<x>,<y>/<d>[;P<i>:<x>,<y>/<d>...][;]

Every coordinate must satisfy [Point.Valid]. Either the whole string
parses or an error is returned.
*/
func ParseMove(n int, move string) (Move, error) {
	var m Move
	sc := &scanner{s: move}

	if sc.peek() == 'S' {
		m.Solve = true
		sc.pos++
		if sc.peek() == ';' {
			sc.pos++
		}
	}

	for !sc.done() {
		start := sc.pos
		u, err := sc.update(n)
		if err != nil {
			return Move{}, err
		}
		if !u.Point.Valid() {
			return Move{}, formatErr(move, start, "point %s out of range", u.Point)
		}
		m.Updates = append(m.Updates, u)

		if !sc.done() {
			if err := sc.expect(';'); err != nil {
				return Move{}, err
			}
		}
	}

	return m, nil
}

func (sc *scanner) update(n int) (u Update, err error) {
	if err = sc.expect('P'); err != nil {
		return
	}
	if u.Index, err = sc.vertex(n); err != nil {
		return
	}
	if err = sc.expect(':'); err != nil {
		return
	}
	if u.Point.X, err = sc.number(true); err != nil {
		return
	}
	if err = sc.expect(','); err != nil {
		return
	}
	if u.Point.Y, err = sc.number(true); err != nil {
		return
	}
	if err = sc.expect('/'); err != nil {
		return
	}
	start := sc.pos
	if u.Point.D, err = sc.number(false); err != nil {
		return
	}
	if u.Point.D == 0 {
		sc.pos = start
		err = sc.errorf("denominator must be positive")
	}
	return
}
