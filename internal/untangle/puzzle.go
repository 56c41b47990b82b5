package untangle

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// maxLayouts bounds how many scattered layouts are drawn when a graph
// cannot be scrambled into a crossing.
const maxLayouts = 100

// Puzzle is a freshly generated instance: the public description and the
// solve move that reaches the layout it was built on.
type Puzzle struct {
	Params           Params
	Desc             string
	Aux              string
	Edges            int
	ScrambleAttempts int
}

/*
NewPuzzle generates a puzzle for params. A crossing-free graph is grown
over randomly scattered points, then its vertices are shuffled around a
circle until some pair of edges crosses. The scattered points, shifted
to the centres of their cells, become the solution.
*/
func NewPuzzle(params Params, r *rand.Rand) (*Puzzle, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	n := params.N
	w := params.CoordLimit()
	circle := makeCircle(n, w)

	for layout := 1; layout <= maxLayouts; layout++ {
		pts := scatter(n, w, r)
		graph := synthesize(pts)

		perm, attempts, err := scramble(graph, circle, r)
		if errors.Is(err, ErrNoCrossingLayout) {
			Log.Debug("graph cannot be scrambled, drawing new points",
				slog.Int("n", n),
				slog.Int("layout", layout),
				slog.Int("edges", graph.Len()),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		scrambled := newGraph()
		for _, e := range graph.All() {
			scrambled.add(perm[e.A], perm[e.B])
		}

		solution := make([]Point, n)
		for i, p := range pts {
			if p.D&1 == 1 {
				p.X, p.Y, p.D = p.X*2, p.Y*2, p.D*2
			}
			p.X += p.D / 2
			p.Y += p.D / 2
			solution[perm[i]] = p
		}

		Log.Debug("generated puzzle",
			slog.Int("n", n),
			slog.Int("edges", graph.Len()),
			slog.Int("scrambleAttempts", attempts),
		)

		puzzle := &Puzzle{
			Params:           params,
			Desc:             scrambled.Desc(),
			Aux:              encodeSolution(solution),
			Edges:            graph.Len(),
			ScrambleAttempts: attempts,
		}
		return puzzle, nil
	}

	return nil, fmt.Errorf("no scramblable graph in %d layouts: %w", maxLayouts, ErrNoCrossingLayout)
}
