// source: https://git.tartarus.org/simon/puzzles.git/untangle.c

package untangle

import (
	"cmp"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/vancomm/untangle-server/internal/tree234"
)

var Log *slog.Logger = slog.Default()

// vertex is a degree record: the synthesizer always offers the next edge
// to the vertex with the fewest edges so far.
type vertex struct {
	degree, index int
}

func vertexCmp(x, y *vertex) int {
	if c := cmp.Compare(x.degree, y.degree); c != 0 {
		return c
	}
	return cmp.Compare(x.index, y.index)
}

// candidate is another vertex keyed by its squared distance from the one
// being extended.
type candidate struct {
	dist, index int64
}

/*
scatter picks n distinct cells of a w*w grid. w*w >= n holds for every
n >= 4 since w = isqrt(3n).
*/
func scatter(n, w int, r *rand.Rand) []Point {
	cells := make([]int, w*w)
	for i := range cells {
		cells[i] = i
	}
	r.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})

	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Pt(int64(cells[i]%w), int64(cells[i]/w))
	}
	return pts
}

/*
synthesize connects pts into a crossing-free graph with no vertex above
MaxDegree.

At all times we try to add an edge to the lowest-degree vertex, taking
the other vertices as second endpoints in order of distance. We stop at
the first edge which
  - does not raise any degree beyond MaxDegree,
  - does not cross an existing edge,
  - does not pass through a point.

and then rescan from the start. When a whole scan adds nothing we are done.
*/
func synthesize(pts []Point) *Graph {
	n := len(pts)
	graph := newGraph()

	vs := make([]vertex, n)
	vertices := tree234.New(vertexCmp)
	for i := range vs {
		vs[i] = vertex{degree: 0, index: i}
		vertices.Add(&vs[i])
	}
	bump := func(i int) {
		vertices.Delete(&vs[i])
		vs[i].degree++
		vertices.Add(&vs[i])
	}

	candidates := make([]candidate, 0, n)
	for {
		added := false

		for i := 0; i < n && !added; i++ {
			v := vertices.Index(i)
			if v.degree >= MaxDegree {
				break // so are all the vertices after it
			}
			j := v.index

			/*
			 * Vertices before i have already tried the edge the other
			 * way round.
			 */
			candidates = candidates[:0]
			for k := i + 1; k < n; k++ {
				kv := vertices.Index(k)
				if kv.degree >= MaxDegree || graph.Has(kv.index, j) {
					continue
				}
				dx := pts[kv.index].X - pts[j].X
				dy := pts[kv.index].Y - pts[j].Y
				candidates = append(candidates, candidate{
					dist:  dx*dx + dy*dy,
					index: int64(kv.index),
				})
			}
			slices.SortFunc(candidates, func(a, b candidate) int {
				if c := cmp.Compare(a.dist, b.dist); c != 0 {
					return c
				}
				return cmp.Compare(a.index, b.index)
			})

			for _, c := range candidates {
				ki := int(c.index)
				if !clearOf(pts, graph, j, ki) {
					continue
				}
				graph.add(j, ki)
				bump(j)
				bump(ki)
				added = true
				break
			}
		}

		if !added {
			break
		}
	}

	return graph
}

// clearOf reports whether the edge a-b touches no other point and crosses
// no edge of graph it shares no endpoint with.
func clearOf(pts []Point, graph *Graph, a, b int) bool {
	for p := range pts {
		if p != a && p != b && OnSegment(pts[p], pts[a], pts[b]) {
			return false
		}
	}
	edge := NewEdge(a, b)
	for _, e := range graph.All() {
		if !e.Shares(edge) && Cross(pts[a], pts[b], pts[e.A], pts[e.B]) {
			return false
		}
	}
	return true
}
