package untangle

import (
	"bytes"
	"cmp"
	"encoding/gob"
	"iter"

	"github.com/vancomm/untangle-server/internal/tree234"
)

// Edge joins vertices A and B. Edges built by this package always have
// A < B.
type Edge struct {
	A, B int
}

func NewEdge(a, b int) Edge {
	return Edge{A: min(a, b), B: max(a, b)}
}

// Shares reports whether e and f have an endpoint in common.
func (e Edge) Shares(f Edge) bool {
	return e.A == f.A || e.A == f.B || e.B == f.A || e.B == f.B
}

func edgeCmp(x, y *Edge) int {
	if c := cmp.Compare(x.A, y.A); c != 0 {
		return c
	}
	return cmp.Compare(x.B, y.B)
}

/*
Graph is a set of edges ordered by (A, B). Once built it is never
modified, so every State derived from one puzzle shares the same *Graph.
*/
type Graph struct {
	edges *tree234.Tree234[Edge]
}

func newGraph() *Graph {
	return &Graph{edges: tree234.New(edgeCmp)}
}

// add inserts the edge a-b and reports whether it was not already there.
func (g *Graph) add(a, b int) bool {
	e := NewEdge(a, b)
	return g.edges.Add(&e) == &e
}

func (g *Graph) Has(a, b int) bool {
	e := NewEdge(a, b)
	return g.edges.Find(&e) != nil
}

func (g *Graph) Len() int {
	return g.edges.Count()
}

func (g *Graph) All() iter.Seq2[int, Edge] {
	return func(yield func(int, Edge) bool) {
		for i, e := range g.edges.All() {
			if !yield(i, *e) {
				return
			}
		}
	}
}

func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.Len())
	for _, e := range g.All() {
		out = append(out, e)
	}
	return out
}

/*
crossing returns the first pair of edges, sharing no endpoint, that
cross when the vertices are placed at pts. ok is false when there is
none.
*/
func (g *Graph) crossing(pts []Point) (e, f Edge, ok bool) {
	edges := g.Edges()
	for i, e := range edges {
		for _, f := range edges[i+1:] {
			if e.Shares(f) {
				continue
			}
			if Cross(pts[f.A], pts[f.B], pts[e.A], pts[e.B]) {
				return e, f, true
			}
		}
	}
	return Edge{}, Edge{}, false
}

// Graph implements [gob.GobEncoder]
func (g *Graph) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g.Edges()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Graph implements [gob.GobDecoder]
func (g *Graph) GobDecode(b []byte) error {
	var edges []Edge
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&edges); err != nil {
		return err
	}
	g.edges = tree234.New(edgeCmp)
	for _, e := range edges {
		g.add(e.A, e.B)
	}
	return nil
}
