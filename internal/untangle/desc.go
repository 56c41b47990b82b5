package untangle

import (
	"fmt"
	"strconv"
	"strings"
)

// scanner walks a description or move string byte by byte.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) done() bool {
	return sc.pos >= len(sc.s)
}

func (sc *scanner) peek() byte {
	if sc.done() {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *scanner) errorf(format string, args ...any) *FormatError {
	return formatErr(sc.s, sc.pos, format, args...)
}

func (sc *scanner) expect(c byte) error {
	if sc.peek() != c {
		return sc.errorf("expected '%c'", c)
	}
	sc.pos++
	return nil
}

// number reads a decimal integer, with a leading '-' allowed when signed
// is set.
func (sc *scanner) number(signed bool) (int64, error) {
	start := sc.pos
	if signed && sc.peek() == '-' {
		sc.pos++
	}
	digits := sc.pos
	for !sc.done() && '0' <= sc.peek() && sc.peek() <= '9' {
		sc.pos++
	}
	if sc.pos == digits {
		sc.pos = start
		return 0, sc.errorf("expected number")
	}
	v, err := strconv.ParseInt(sc.s[start:sc.pos], 10, 64)
	if err != nil {
		sc.pos = start
		return 0, sc.errorf("number out of range")
	}
	return v, nil
}

// vertex reads a vertex index in [0, n).
func (sc *scanner) vertex(n int) (int, error) {
	start := sc.pos
	v, err := sc.number(false)
	if err != nil {
		return 0, err
	}
	if v >= int64(n) {
		sc.pos = start
		return 0, sc.errorf("vertex %d out of range", v)
	}
	return int(v), nil
}

/*
Desc renders the graph as a description: "a-b" tokens joined by commas,
in (a, b) order. The order carries no trace of how the graph was built.
*/
func (g *Graph) Desc() string {
	var sb strings.Builder
	for i, e := range g.All() {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d-%d", e.A, e.B)
	}
	return sb.String()
}

/*
ParseDesc reads a description for a puzzle of params.N points. Tokens may
come in any order and with either endpoint first; self loops, duplicate
edges, out-of-range vertices and stray separators are rejected.
*/
func ParseDesc(params Params, desc string) (*Graph, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	graph := newGraph()
	sc := &scanner{s: desc}
	for !sc.done() {
		start := sc.pos
		a, err := sc.vertex(params.N)
		if err != nil {
			return nil, err
		}
		if err := sc.expect('-'); err != nil {
			return nil, err
		}
		b, err := sc.vertex(params.N)
		if err != nil {
			return nil, err
		}
		if a == b {
			return nil, formatErr(desc, start, "edge %d-%d joins a vertex to itself", a, b)
		}
		if !graph.add(a, b) {
			return nil, formatErr(desc, start, "duplicate edge %d-%d", a, b)
		}
		if !sc.done() {
			if err := sc.expect(','); err != nil {
				return nil, err
			}
			if sc.done() {
				return nil, sc.errorf("expected number")
			}
		}
	}
	return graph, nil
}

// encodeSolution renders pts, indexed by circle slot, as a solve move.
func encodeSolution(pts []Point) string {
	var sb strings.Builder
	sb.WriteByte('S')
	for i, p := range pts {
		fmt.Fprintf(&sb, ";P%d:%s", i, p)
	}
	return sb.String()
}
